package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"go-estoque-condo/internal/model"
	"go-estoque-condo/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type stubAuth struct {
	sessions map[string]*service.Session
	inactive string
}

func (s *stubAuth) Login(context.Context, string, string) (*service.Session, error) {
	return nil, service.ErrInvalidCredentials
}

func (s *stubAuth) SignUp(context.Context, *service.SignUpRequest) (*service.Session, error) {
	return nil, service.ErrSignupDisabled
}

func (s *stubAuth) SignOut(context.Context, uuid.UUID) error { return nil }

func (s *stubAuth) CurrentSession(_ context.Context, token string) (*service.Session, error) {
	if token == s.inactive {
		return nil, service.ErrUserInactive
	}
	if session, ok := s.sessions[token]; ok {
		return session, nil
	}
	return nil, service.ErrInvalidSession
}

func (s *stubAuth) ChangePassword(context.Context, uuid.UUID, string) error { return nil }

func (s *stubAuth) ResetPassword(context.Context, string, string, string) error { return nil }

func (s *stubAuth) Wait() {}

func setupApp() *fiber.App {
	auth := &stubAuth{
		sessions: map[string]*service.Session{
			"operator": {
				User:       model.UserResponse{ID: uuid.New(), Username: "op", FullName: "Operadora"},
				Privileges: []string{model.PrivProductView, model.PrivOutputCreate},
			},
		},
		inactive: "inactive",
	}

	app := fiber.New()
	protected := app.Group("", RequireAuth(auth))
	protected.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalUserName).(string))
	})
	protected.Post("/outputs", RequirePrivilege(model.PrivOutputCreate), func(c *fiber.Ctx) error {
		return c.SendStatus(201)
	})
	protected.Delete("/users", RequirePrivilege(model.PrivUserDelete), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})
	protected.Get("/finance", RequireAnyPrivilege(model.PrivFinanceView, model.PrivProductView), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	app := setupApp()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", 401},
		{"wrong scheme", "Basic operator", 401},
		{"unknown token", "Bearer nope", 401},
		{"inactive user", "Bearer inactive", 403},
		{"valid session", "Bearer operator", 200},
		{"lowercase scheme", "bearer operator", 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestRequirePrivilege(t *testing.T) {
	app := setupApp()

	tests := []struct {
		method, path string
		want         int
	}{
		{"POST", "/outputs", 201},
		{"DELETE", "/users", 403},
		{"GET", "/finance", 200},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		req.Header.Set("Authorization", "Bearer operator")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, resp.StatusCode, tt.want)
		}
	}
}
