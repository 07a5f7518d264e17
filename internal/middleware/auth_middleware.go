package middleware

import (
	"errors"
	"strings"

	"go-estoque-condo/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Keys under which RequireAuth stores the session in fiber locals.
const (
	LocalSession    = "session"
	LocalUserID     = "user_id"
	LocalUserName   = "user_name"
	LocalPrivileges = "user_privileges"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// RequireAuth resolves the bearer token into a session and stores it for
// downstream handlers.
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}
		token, ok := BearerToken(c)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		session, err := auth.CurrentSession(c.UserContext(), token)
		switch {
		case errors.Is(err, service.ErrUserInactive):
			return c.Status(403).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidSession):
			return c.Status(401).JSON(fiber.Map{"error": "Session expired or signed in elsewhere"})
		case err != nil:
			return err
		}

		c.Locals(LocalSession, session)
		c.Locals(LocalUserID, session.UserID().String())
		c.Locals(LocalUserName, displayName(session))
		c.Locals(LocalPrivileges, session.Privileges)

		return c.Next()
	}
}

func displayName(s *service.Session) string {
	if s.User.FullName != "" {
		return s.User.FullName
	}
	return s.User.Username
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals(LocalPrivileges).([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}

// RequireAnyPrivilege checks if the user has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals(LocalPrivileges).([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, userPriv := range privileges {
			for _, reqPriv := range requiredPrivileges {
				if userPriv == reqPriv {
					return c.Next()
				}
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(requiredPrivileges, ", ") + " privileges",
		})
	}
}
