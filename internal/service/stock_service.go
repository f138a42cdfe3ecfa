package service

import (
	"context"
	"log/slog"
	"strings"

	"foodstack-pos/internal/apperr"
	"foodstack-pos/internal/model"
	"foodstack-pos/internal/repository"
	"foodstack-pos/internal/ws"
	"foodstack-pos/pkg/validator"

	"github.com/google/uuid"
)

// DefaultLowStockThreshold is used when no threshold is configured.
const DefaultLowStockThreshold = 10

type StockService interface {
	List(ctx context.Context) ([]model.StockItem, error)
	Get(ctx context.Context, id uuid.UUID) (*model.StockItem, error)
	SearchByName(ctx context.Context, term string) ([]model.StockItem, error)
	ListBelowThreshold(ctx context.Context, threshold int) ([]model.StockItem, error)
	LowThreshold() int
	Create(ctx context.Context, name, description string, quantity int, actor string) (*model.StockItem, error)
	Update(ctx context.Context, id uuid.UUID, name, description string, actor string) (*model.StockItem, error)
	Increase(ctx context.Context, id uuid.UUID, amount int, actor string) (*model.StockItem, error)
	Decrease(ctx context.Context, id uuid.UUID, amount int, actor string) (*model.StockItem, error)
	Delete(ctx context.Context, id uuid.UUID, actor string) error
	// Subscribe calls fn with the full list now and after every change until cancelled.
	Subscribe(ctx context.Context, fn func([]model.StockItem)) (*ws.Subscription, error)
}

type stockService struct {
	stockRepo    repository.StockRepository
	hub          *ws.Hub
	log          *slog.Logger
	lowThreshold int
}

func NewStockService(repo repository.StockRepository, hub *ws.Hub, logger *slog.Logger, lowThreshold int) StockService {
	if lowThreshold <= 0 {
		lowThreshold = DefaultLowStockThreshold
	}
	return &stockService{stockRepo: repo, hub: hub, log: logger, lowThreshold: lowThreshold}
}

func (s *stockService) List(ctx context.Context) ([]model.StockItem, error) {
	items, err := s.stockRepo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Unavailable("list stock", err)
	}
	return items, nil
}

func (s *stockService) Get(ctx context.Context, id uuid.UUID) (*model.StockItem, error) {
	item, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("stock item", "get stock item", err)
	}
	return item, nil
}

func (s *stockService) SearchByName(ctx context.Context, term string) ([]model.StockItem, error) {
	if strings.TrimSpace(term) == "" {
		return s.List(ctx)
	}
	items, err := s.stockRepo.SearchByName(ctx, term)
	if err != nil {
		return nil, apperr.Unavailable("search stock", err)
	}
	return items, nil
}

func (s *stockService) ListBelowThreshold(ctx context.Context, threshold int) ([]model.StockItem, error) {
	items, err := s.stockRepo.FindBelow(ctx, threshold)
	if err != nil {
		return nil, apperr.Unavailable("list low stock", err)
	}
	return items, nil
}

func (s *stockService) LowThreshold() int {
	return s.lowThreshold
}

func (s *stockService) Create(ctx context.Context, name, description string, quantity int, actor string) (*model.StockItem, error) {
	item := &model.StockItem{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
	}
	item.CreatedBy = actor
	item.UpdatedBy = actor

	if errs := validator.ValidateStruct(item); len(errs) > 0 {
		return nil, apperr.Validation("%s", validator.Message(errs))
	}

	if err := s.stockRepo.Create(ctx, item); err != nil {
		return nil, apperr.Unavailable("create stock item", err)
	}

	s.publish(ctx)
	return item, nil
}

func (s *stockService) Update(ctx context.Context, id uuid.UUID, name, description string, actor string) (*model.StockItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	rows, err := s.stockRepo.UpdateDetails(ctx, id, name, strings.TrimSpace(description), actor)
	if err != nil {
		return nil, apperr.Unavailable("update stock item", err)
	}
	return s.afterChange(ctx, id, rows)
}

func (s *stockService) Increase(ctx context.Context, id uuid.UUID, amount int, actor string) (*model.StockItem, error) {
	if amount <= 0 {
		return nil, apperr.Validation("amount must be greater than zero")
	}

	rows, err := s.stockRepo.Increase(ctx, id, amount, actor)
	if err != nil {
		return nil, apperr.Unavailable("increase stock", err)
	}
	return s.afterChange(ctx, id, rows)
}

// Decrease never takes the quantity below zero; asking for more than is on hand empties the item.
func (s *stockService) Decrease(ctx context.Context, id uuid.UUID, amount int, actor string) (*model.StockItem, error) {
	if amount <= 0 {
		return nil, apperr.Validation("amount must be greater than zero")
	}

	rows, err := s.stockRepo.Decrease(ctx, id, amount, actor)
	if err != nil {
		return nil, apperr.Unavailable("decrease stock", err)
	}
	return s.afterChange(ctx, id, rows)
}

func (s *stockService) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	rows, err := s.stockRepo.Delete(ctx, id, actor)
	if err != nil {
		return apperr.Unavailable("delete stock item", err)
	}
	if rows == 0 {
		return apperr.NotFound("stock item")
	}

	s.publish(ctx)
	return nil
}

func (s *stockService) Subscribe(ctx context.Context, fn func([]model.StockItem)) (*ws.Subscription, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	sub := s.hub.Subscribe(ws.TopicStock, func(msg ws.Message) {
		if snapshot, ok := msg.Data.([]model.StockItem); ok {
			fn(snapshot)
		}
	})
	fn(items)
	return sub, nil
}

func (s *stockService) afterChange(ctx context.Context, id uuid.UUID, rows int64) (*model.StockItem, error) {
	if rows == 0 {
		return nil, apperr.NotFound("stock item")
	}

	item, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("stock item", "get stock item", err)
	}

	s.publish(ctx)
	return item, nil
}

func (s *stockService) publish(ctx context.Context) {
	items, err := s.stockRepo.FindAll(ctx)
	if err != nil {
		s.log.Warn("stock snapshot not published", "error", err)
		return
	}
	s.hub.Publish(ws.TopicStock, items)
}
