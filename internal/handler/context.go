package handler

import (
	"strconv"

	"go-estoque-condo/internal/middleware"
	"go-estoque-condo/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actor returns who is calling, as set by RequireAuth.
func actor(c *fiber.Ctx) service.Actor {
	id, _ := c.Locals(middleware.LocalUserID).(string)
	name, _ := c.Locals(middleware.LocalUserName).(string)
	if id == "" {
		return service.SystemActor
	}
	if name == "" {
		name = "Unknown"
	}
	return service.Actor{ID: id, Name: name}
}

func currentSession(c *fiber.Ctx) (*service.Session, bool) {
	s, ok := c.Locals(middleware.LocalSession).(*service.Session)
	return s, ok && s != nil
}

func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// periodQuery reads the optional ?month=&year= filter. Empty values mean
// "any".
func periodQuery(c *fiber.Ctx) (month, year *int, err error) {
	if raw := c.Query("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "month must be between 1 and 12")
		}
		month = &m
	}
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "invalid year")
		}
		year = &y
	}
	return month, year, nil
}
