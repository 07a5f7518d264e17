package handler

import (
	"go-estoque-condo/internal/model"
	"go-estoque-condo/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// LookupProduct resolves a scanned code
// GET /api/v1/products/lookup?code=
func (h *InventoryHandler) LookupProduct(c *fiber.Ctx) error {
	result, err := h.service.LookupByCode(c.UserContext(), c.Query("code"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if err := h.service.CreateProduct(c.UserContext(), &product, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), id, &product, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.service.DeleteProduct(c.UserContext(), id, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *InventoryHandler) GetPeople(c *fiber.Ctx) error {
	people, err := h.service.ListPeople(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(people)
}

func (h *InventoryHandler) CreatePerson(c *fiber.Ctx) error {
	var person model.Person
	if err := c.BodyParser(&person); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if err := h.service.CreatePerson(c.UserContext(), &person, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Person created", "data": person})
}

func (h *InventoryHandler) UpdatePerson(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid person ID")
	}
	var person model.Person
	if err := c.BodyParser(&person); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	updated, err := h.service.UpdatePerson(c.UserContext(), id, &person, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Person updated", "data": updated})
}

func (h *InventoryHandler) DeletePerson(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid person ID")
	}
	if err := h.service.DeletePerson(c.UserContext(), id, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Person deleted"})
}

func (h *InventoryHandler) GetOutputs(c *fiber.Ctx) error {
	logs, err := h.service.ListOutputs(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(logs)
}

// CreateOutput records items leaving stock
// POST /api/v1/outputs
func (h *InventoryHandler) CreateOutput(c *fiber.Ctx) error {
	var req service.OutputRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	entry, err := h.service.RecordOutput(c.UserContext(), &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Output recorded", "data": entry})
}
