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

type CatalogService interface {
	List(ctx context.Context, category string) ([]model.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Create(ctx context.Context, req CreateProductInput, actor string) (*model.Product, error)
	SetPrice(ctx context.Context, id uuid.UUID, price string, actor string) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID, actor string) error
	// Subscribe calls fn with the full menu now and after every change until cancelled.
	Subscribe(ctx context.Context, fn func([]model.Product)) (*ws.Subscription, error)
}

// CreateProductInput carries the menu form. Price is the text typed by the operator.
type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	Price       string
}

type catalogService struct {
	productRepo repository.ProductRepository
	hub         *ws.Hub
	log         *slog.Logger
}

func NewCatalogService(repo repository.ProductRepository, hub *ws.Hub, logger *slog.Logger) CatalogService {
	return &catalogService{productRepo: repo, hub: hub, log: logger}
}

func (s *catalogService) List(ctx context.Context, category string) ([]model.Product, error) {
	products, err := s.productRepo.FindAll(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, apperr.Unavailable("list products", err)
	}
	return products, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.productRepo.Categories(ctx)
	if err != nil {
		return nil, apperr.Unavailable("list categories", err)
	}
	return categories, nil
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("product", "get product", err)
	}
	return product, nil
}

func (s *catalogService) Create(ctx context.Context, req CreateProductInput, actor string) (*model.Product, error) {
	// 1. Parse price
	price, err := parseMoney("price", strings.TrimSpace(req.Price))
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Price:       price,
	}
	product.CreatedBy = actor
	product.UpdatedBy = actor

	// 2. Validate struct
	if errs := validator.ValidateStruct(product); len(errs) > 0 {
		return nil, apperr.Validation("%s", validator.Message(errs))
	}

	// 3. Save
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, apperr.Unavailable("create product", err)
	}

	// 4. Broadcast full menu
	s.publish(ctx)
	return product, nil
}

func (s *catalogService) SetPrice(ctx context.Context, id uuid.UUID, price string, actor string) (*model.Product, error) {
	newPrice, err := parseMoney("price", strings.TrimSpace(price))
	if err != nil {
		return nil, err
	}
	if newPrice.IsNegative() {
		return nil, apperr.Validation("price must not be negative")
	}

	rows, err := s.productRepo.UpdatePrice(ctx, id, newPrice, actor)
	if err != nil {
		return nil, apperr.Unavailable("update price", err)
	}
	if rows == 0 {
		return nil, apperr.NotFound("product")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("product", "get product", err)
	}

	s.publish(ctx)
	return product, nil
}

// Delete fails with NotFound when the product is already absent.
func (s *catalogService) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	rows, err := s.productRepo.Delete(ctx, id, actor)
	if err != nil {
		return apperr.Unavailable("delete product", err)
	}
	if rows == 0 {
		return apperr.NotFound("product")
	}

	s.publish(ctx)
	return nil
}

func (s *catalogService) Subscribe(ctx context.Context, fn func([]model.Product)) (*ws.Subscription, error) {
	products, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}

	sub := s.hub.Subscribe(ws.TopicProducts, func(msg ws.Message) {
		if snapshot, ok := msg.Data.([]model.Product); ok {
			fn(snapshot)
		}
	})
	fn(products)
	return sub, nil
}

func (s *catalogService) publish(ctx context.Context) {
	products, err := s.productRepo.FindAll(ctx, "")
	if err != nil {
		s.log.Warn("menu snapshot not published", "error", err)
		return
	}
	s.hub.Publish(ws.TopicProducts, products)
}
