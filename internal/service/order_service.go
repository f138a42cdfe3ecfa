package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"foodstack-pos/internal/apperr"
	"foodstack-pos/internal/model"
	"foodstack-pos/internal/repository"
	"foodstack-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderService interface {
	Create(ctx context.Context, req *CreateOrderRequest, actor string) (*model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

type CreateOrderRequest struct {
	OperatorID    uuid.UUID           `json:"operator_id" validate:"uuid_required"`
	SessionID     uuid.UUID           `json:"session_id" validate:"uuid_required"`
	PaymentMethod model.PaymentMethod `json:"payment_method" validate:"required,oneof=CASH DEBIT_CARD CREDIT_CARD"`
	Items         []OrderLine         `json:"items" validate:"required,min=1,dive"`
}

// OrderLine is one cart entry. Name and unit price are kept on the order as sold.
type OrderLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0,money"`
}

type orderService struct {
	orderRepo repository.OrderRepository
	cash      CashService
	log       *slog.Logger
	now       func() time.Time
}

// NewOrderService records sales against the open cash session. now must return business time,
// since the stored order date is derived from it.
func NewOrderService(orderRepo repository.OrderRepository, cash CashService, logger *slog.Logger, now func() time.Time) OrderService {
	if now == nil {
		now = time.Now
	}
	return &orderService{orderRepo: orderRepo, cash: cash, log: logger, now: now}
}

func (s *orderService) Create(ctx context.Context, req *CreateOrderRequest, actor string) (*model.Order, error) {
	// 1. Validate cart
	req.PaymentMethod = model.PaymentMethod(strings.ToUpper(strings.TrimSpace(string(req.PaymentMethod))))
	if len(req.Items) == 0 {
		return nil, apperr.Validation("order must have at least one item")
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", validator.Message(errs))
	}

	// 2. Session must be the open one
	if _, err := s.cash.RequireOpen(ctx, req.SessionID); err != nil {
		return nil, err
	}

	// 3. Build order with totals
	items := make([]model.OrderItem, len(req.Items))
	for i, line := range req.Items {
		items[i] = model.OrderItem{
			ProductID: line.ProductID,
			Name:      strings.TrimSpace(line.Name),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}
	order := model.NewOrder(req.OperatorID, req.SessionID, req.PaymentMethod, items, s.now())
	if !validator.FitsMoney(order.Total) {
		return nil, errMoneyRange("order total")
	}
	order.CreatedBy = actor
	order.UpdatedBy = actor

	// 4. Save header and lines
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, apperr.Unavailable("create order", err)
	}

	s.log.Info("order recorded",
		"order_id", order.ID,
		"session_id", order.SessionID,
		"payment_method", order.PaymentMethod,
		"total", order.Total.StringFixed(2))
	return order, nil
}

func (s *orderService) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Unavailable("list orders", err)
	}
	return orders, nil
}

func (s *orderService) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, apperr.Unavailable("list session orders", err)
	}
	return orders, nil
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("order", "get order", err)
	}
	return order, nil
}
