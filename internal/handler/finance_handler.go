package handler

import (
	"bytes"
	"fmt"

	"go-estoque-condo/internal/model"
	"go-estoque-condo/internal/report"
	"go-estoque-condo/internal/service"

	"github.com/gofiber/fiber/v2"
)

type FinanceHandler struct {
	service service.FinanceService
}

func NewFinanceHandler(s service.FinanceService) *FinanceHandler {
	return &FinanceHandler{service: s}
}

func (h *FinanceHandler) GetResidents(c *fiber.Ctx) error {
	residents, err := h.service.ListResidents(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(residents)
}

func (h *FinanceHandler) CreateResident(c *fiber.Ctx) error {
	var r model.Resident
	if err := c.BodyParser(&r); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if err := h.service.CreateResident(c.UserContext(), &r, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Resident created", "data": r})
}

func (h *FinanceHandler) UpdateResident(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid resident ID")
	}
	var r model.Resident
	if err := c.BodyParser(&r); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	updated, err := h.service.UpdateResident(c.UserContext(), id, &r, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Resident updated", "data": updated})
}

func (h *FinanceHandler) DeleteResident(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid resident ID")
	}
	if err := h.service.DeleteResident(c.UserContext(), id, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Resident deleted"})
}

// GetPayments lists payments, optionally for one period
// GET /api/v1/payments?month=&year=
func (h *FinanceHandler) GetPayments(c *fiber.Ctx) error {
	month, year, err := periodQuery(c)
	if err != nil {
		return err
	}
	payments, err := h.service.ListPayments(c.UserContext(), month, year)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(payments)
}

func (h *FinanceHandler) CreatePayment(c *fiber.Ctx) error {
	var p model.Payment
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if err := h.service.CreatePayment(c.UserContext(), &p, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Payment recorded", "data": p})
}

func (h *FinanceHandler) UpdatePayment(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid payment ID")
	}
	var p model.Payment
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	updated, err := h.service.UpdatePayment(c.UserContext(), id, &p, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment updated", "data": updated})
}

func (h *FinanceHandler) DeletePayment(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid payment ID")
	}
	if err := h.service.DeletePayment(c.UserContext(), id, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment deleted"})
}

// GetExpenses lists expenses, optionally for one period
// GET /api/v1/expenses?month=&year=
func (h *FinanceHandler) GetExpenses(c *fiber.Ctx) error {
	month, year, err := periodQuery(c)
	if err != nil {
		return err
	}
	expenses, err := h.service.ListExpenses(c.UserContext(), month, year)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(expenses)
}

func (h *FinanceHandler) CreateExpense(c *fiber.Ctx) error {
	var e model.Expense
	if err := c.BodyParser(&e); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if err := h.service.CreateExpense(c.UserContext(), &e, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Expense recorded", "data": e})
}

func (h *FinanceHandler) UpdateExpense(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid expense ID")
	}
	var e model.Expense
	if err := c.BodyParser(&e); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	updated, err := h.service.UpdateExpense(c.UserContext(), id, &e, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Expense updated", "data": updated})
}

func (h *FinanceHandler) DeleteExpense(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid expense ID")
	}
	if err := h.service.DeleteExpense(c.UserContext(), id, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Expense deleted"})
}

// GetSummary returns delinquency, balance and category totals
// GET /api/v1/finance/summary?month=&year=
func (h *FinanceHandler) GetSummary(c *fiber.Ctx) error {
	month, year, err := periodQuery(c)
	if err != nil {
		return err
	}
	summary, err := h.service.Summary(c.UserContext(), month, year)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}

// ExportReport downloads the period as a spreadsheet
// GET /api/v1/finance/report.xlsx?month=&year=
func (h *FinanceHandler) ExportReport(c *fiber.Ctx) error {
	month, year, err := periodQuery(c)
	if err != nil {
		return err
	}
	r, err := h.service.Report(c.UserContext(), month, year)
	if err != nil {
		return fail(c, err)
	}

	var buf bytes.Buffer
	if err := report.WriteFinance(&buf, r); err != nil {
		return fmt.Errorf("render finance report: %w", err)
	}

	c.Set(fiber.HeaderContentType, report.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.FileName(month, year)))
	return c.Send(buf.Bytes())
}
