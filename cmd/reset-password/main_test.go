package main

import (
	"context"
	"testing"

	"go-estoque-condo/internal/model"
	"go-estoque-condo/internal/store"
	"go-estoque-condo/pkg/password"
)

func TestHashLegacyPasswords(t *testing.T) {
	ctx := context.Background()
	p, err := store.OpenLocal(":memory:", false)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if err := p.Migrate(ctx); err != nil {
		t.Fatal(err)
	}

	hasher := password.NewBcrypt(4)
	hashed, _ := hasher.Hash("ja-hash")
	for name, secret := range map[string]string{"plain": "texto-puro", "hashed": hashed, "empty": ""} {
		if err := p.Users().Create(ctx, &model.User{Username: name, Password: secret, IsActive: true}); err != nil {
			t.Fatal(err)
		}
	}

	n, err := hashLegacyPasswords(ctx, p, hasher)
	if err != nil {
		t.Fatalf("hashLegacyPasswords failed: %v", err)
	}
	if n != 1 {
		t.Errorf("migrated = %d, want 1", n)
	}

	plain, _ := p.Users().FindByIdentifier(ctx, "plain")
	if !hasher.Verify(plain.Password, "texto-puro") {
		t.Error("plaintext password was not hashed")
	}
	kept, _ := p.Users().FindByIdentifier(ctx, "hashed")
	if kept.Password != hashed {
		t.Error("existing hash was rewritten")
	}
	empty, _ := p.Users().FindByIdentifier(ctx, "empty")
	if empty.Password != "" {
		t.Error("empty password was filled in")
	}

	if n, _ := hashLegacyPasswords(ctx, p, hasher); n != 0 {
		t.Errorf("second run migrated %d", n)
	}
}
