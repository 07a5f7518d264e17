package handler

import (
	"errors"

	"go-estoque-condo/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var statusByError = []struct {
	err    error
	status int
}{
	{service.ErrValidation, fiber.StatusBadRequest},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{service.ErrInvalidSession, fiber.StatusUnauthorized},
	{service.ErrUserInactive, fiber.StatusForbidden},
	{service.ErrSelfDelete, fiber.StatusForbidden},
	{service.ErrSignupDisabled, fiber.StatusForbidden},
	{service.ErrNotFound, fiber.StatusNotFound},
	{service.ErrInsufficientStock, fiber.StatusConflict},
	{service.ErrReferentialIntegrity, fiber.StatusConflict},
	{service.ErrDuplicateIdentifier, fiber.StatusConflict},
	{service.ErrConcurrentUpdate, fiber.StatusConflict},
}

// fail writes a known service error as JSON. Anything else is returned to
// fiber so ErrorHandler logs it and answers 500.
func fail(c *fiber.Ctx, err error) error {
	for _, m := range statusByError {
		if !errors.Is(err, m.err) {
			continue
		}
		body := fiber.Map{"error": err.Error()}
		var stock *service.InsufficientStockError
		if errors.As(err, &stock) {
			body["requested"] = stock.Requested
			body["available"] = stock.Available
		}
		return c.Status(m.status).JSON(body)
	}
	return err
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// ErrorHandler is the app-wide fallback for errors handlers did not answer.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
