package handler

import (
	"strconv"

	"foodstack-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

type StockItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

type AdjustRequest struct {
	Amount int `json:"amount"`
}

// GetStock lists stock items, optionally filtered by name
// GET /api/v1/stock?q=
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	items, err := h.service.SearchByName(c.UserContext(), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(items)
}

// GetLowStock returns items below the threshold
// GET /api/v1/stock/low?threshold=10
func (h *StockHandler) GetLowStock(c *fiber.Ctx) error {
	threshold := h.service.LowThreshold()
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "threshold must be a non-negative integer"})
		}
		threshold = n
	}

	items, err := h.service.ListBelowThreshold(c.UserContext(), threshold)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"threshold": threshold, "data": items})
}

// GET /api/v1/stock/:id
func (h *StockHandler) GetStockItem(c *fiber.Ctx) error {
	id, err := parseID(c, "stock item")
	if err != nil {
		return fail(c, err)
	}
	item, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(item)
}

// POST /api/v1/stock
func (h *StockHandler) CreateStockItem(c *fiber.Ctx) error {
	var req StockItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	item, err := h.service.Create(c.UserContext(), req.Name, req.Description, req.Quantity, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock item created", "data": item})
}

// UpdateStockItem changes name and description; quantity only moves through adjustments
// PUT /api/v1/stock/:id
func (h *StockHandler) UpdateStockItem(c *fiber.Ctx) error {
	id, err := parseID(c, "stock item")
	if err != nil {
		return fail(c, err)
	}

	var req StockItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	item, err := h.service.Update(c.UserContext(), id, req.Name, req.Description, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock item updated", "data": item})
}

// POST /api/v1/stock/:id/increase
func (h *StockHandler) Increase(c *fiber.Ctx) error {
	return h.adjust(c, h.service.Increase)
}

// POST /api/v1/stock/:id/decrease
func (h *StockHandler) Decrease(c *fiber.Ctx) error {
	return h.adjust(c, h.service.Decrease)
}

func (h *StockHandler) adjust(c *fiber.Ctx, apply adjustFunc) error {
	id, err := parseID(c, "stock item")
	if err != nil {
		return fail(c, err)
	}

	var req AdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	item, err := apply(c.UserContext(), id, req.Amount, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock adjusted", "data": item})
}

// DELETE /api/v1/stock/:id
func (h *StockHandler) DeleteStockItem(c *fiber.Ctx) error {
	id, err := parseID(c, "stock item")
	if err != nil {
		return fail(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock item deleted"})
}
