package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("test-secret", "go-estoque-condo", time.Hour)
	id := uuid.New()

	token, exp, err := m.GenerateToken(Claims{
		UserID:       id,
		Username:     "operador",
		RoleCode:     "OPERATOR",
		Privileges:   []string{"product:view"},
		TokenVersion: "v1",
	})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Error("expiry should be in the future")
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != id || claims.TokenVersion != "v1" || claims.RoleCode != "OPERATOR" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestValidateRejects(t *testing.T) {
	m := NewManager("test-secret", "go-estoque-condo", time.Hour)
	token, _, _ := m.GenerateToken(Claims{UserID: uuid.New()})

	if _, err := m.ValidateToken(""); err != ErrMissingToken {
		t.Errorf("empty token: got %v", err)
	}

	other := NewManager("other-secret", "go-estoque-condo", time.Hour)
	if _, err := other.ValidateToken(token); err != ErrInvalidToken {
		t.Errorf("wrong secret: got %v", err)
	}

	wrongIssuer := NewManager("test-secret", "someone-else", time.Hour)
	if _, err := wrongIssuer.ValidateToken(token); err != ErrInvalidToken {
		t.Errorf("wrong issuer: got %v", err)
	}

	expired := NewManager("test-secret", "go-estoque-condo", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := expired.ValidateToken(token); err != ErrInvalidToken {
		t.Errorf("expired token: got %v", err)
	}
}
