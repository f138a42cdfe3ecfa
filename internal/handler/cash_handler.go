package handler

import (
	"foodstack-pos/internal/model"
	"foodstack-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CashHandler struct {
	cashService  service.CashService
	orderService service.OrderService
}

func NewCashHandler(cashService service.CashService, orderService service.OrderService) *CashHandler {
	return &CashHandler{cashService: cashService, orderService: orderService}
}

// OpenSessionRequest identifies the operator by id, or by CPF and secret as the till screen does.
type OpenSessionRequest struct {
	OperatorID    uuid.UUID       `json:"operator_id"`
	CPF           string          `json:"cpf"`
	Secret        string          `json:"secret"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

type CloseSessionRequest struct {
	ClosingAmount decimal.Decimal `json:"closing_amount"`
}

type MovementRequest struct {
	Kind   model.MovementKind `json:"kind"`
	Amount decimal.Decimal    `json:"amount"`
	Note   string             `json:"note"`
}

// OpenSession opens the till
// POST /api/v1/cash-sessions
func (h *CashHandler) OpenSession(c *fiber.Ctx) error {
	var req OpenSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	var (
		session *model.CashSession
		err     error
	)
	if req.OperatorID != uuid.Nil {
		session, err = h.cashService.Open(c.UserContext(), req.OperatorID, req.OpeningAmount, req.Secret)
	} else {
		session, err = h.cashService.OpenByCPF(c.UserContext(), req.CPF, req.Secret, req.OpeningAmount)
	}
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Cash session opened", "data": session})
}

// CloseSession closes the till with the counted amount
// POST /api/v1/cash-sessions/:id/close
func (h *CashHandler) CloseSession(c *fiber.Ctx) error {
	id, err := parseID(c, "cash session")
	if err != nil {
		return fail(c, err)
	}

	var req CloseSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	session, err := h.cashService.Close(c.UserContext(), id, req.ClosingAmount, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cash session closed", "data": session})
}

// GetCurrentSession returns the open session; data is null when the till is closed
// GET /api/v1/cash-sessions/current
func (h *CashHandler) GetCurrentSession(c *fiber.Ctx) error {
	session, err := h.cashService.Current(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"open": session != nil, "data": session})
}

// GET /api/v1/cash-sessions
func (h *CashHandler) GetSessions(c *fiber.Ctx) error {
	sessions, err := h.cashService.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sessions)
}

// GET /api/v1/cash-sessions/:id
func (h *CashHandler) GetSession(c *fiber.Ctx) error {
	id, err := parseID(c, "cash session")
	if err != nil {
		return fail(c, err)
	}
	session, err := h.cashService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(session)
}

// GET /api/v1/cash-sessions/:id/reconciliation
func (h *CashHandler) GetReconciliation(c *fiber.Ctx) error {
	id, err := parseID(c, "cash session")
	if err != nil {
		return fail(c, err)
	}
	rec, err := h.cashService.Reconcile(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rec)
}

// GET /api/v1/cash-sessions/:id/movements
func (h *CashHandler) GetMovements(c *fiber.Ctx) error {
	id, err := parseID(c, "cash session")
	if err != nil {
		return fail(c, err)
	}
	movements, err := h.cashService.Movements(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(movements)
}

// POST /api/v1/cash-sessions/:id/movements
func (h *CashHandler) CreateMovement(c *fiber.Ctx) error {
	id, err := parseID(c, "cash session")
	if err != nil {
		return fail(c, err)
	}

	var req MovementRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	movement, err := h.cashService.RecordMovement(c.UserContext(), id, req.Kind, req.Amount, req.Note, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Cash movement recorded", "data": movement})
}

// GET /api/v1/cash-sessions/:id/orders
func (h *CashHandler) GetSessionOrders(c *fiber.Ctx) error {
	id, err := parseID(c, "cash session")
	if err != nil {
		return fail(c, err)
	}
	orders, err := h.orderService.ListBySession(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}
