package handler

import (
	"strings"

	"go-estoque-condo/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest accepts the username or email in either field.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (r LoginRequest) identifier() string {
	if strings.TrimSpace(r.Identifier) != "" {
		return r.Identifier
	}
	return r.Email
}

// ResetPasswordRequest represents the reset password request body
type ResetPasswordRequest struct {
	Identifier  string `json:"identifier"`
	Email       string `json:"email"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ChangePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if req.identifier() == "" || req.Password == "" {
		return badRequest(c, "Identifier and password are required")
	}

	session, err := h.authService.Login(c.UserContext(), req.identifier(), req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(session)
}

// Register creates an account with the sign up role and signs it in
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	session, err := h.authService.SignUp(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// Logout ends every session of the caller
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	session, ok := currentSession(c)
	if !ok {
		return fail(c, service.ErrInvalidSession)
	}
	if err := h.authService.SignOut(c.UserContext(), session.UserID()); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Signed out"})
}

// Session returns the caller's session
// GET /api/v1/auth/session
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	session, ok := currentSession(c)
	if !ok {
		return fail(c, service.ErrInvalidSession)
	}
	return c.JSON(session)
}

// ChangePassword sets a new password for the caller
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	session, ok := currentSession(c)
	if !ok {
		return fail(c, service.ErrInvalidSession)
	}
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if err := h.authService.ChangePassword(c.UserContext(), session.UserID(), req.NewPassword); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// ResetPassword handles password change with the current password
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" || req.OldPassword == "" || req.NewPassword == "" {
		return badRequest(c, "Identifier, old_password, and new_password are required")
	}

	if err := h.authService.ResetPassword(c.UserContext(), identifier, req.OldPassword, req.NewPassword); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// ValidateToken handles JWT token validation
// POST /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if req.Token == "" {
		return badRequest(c, "Token is required")
	}

	session, err := h.authService.CurrentSession(c.UserContext(), req.Token)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"valid": true, "session": session})
}
