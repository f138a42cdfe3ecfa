package repository

import (
	"context"

	"foodstack-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, category string) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Categories(ctx context.Context) ([]string, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal, updatedBy string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID, deletedBy string) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindAll lists the menu ordered by category then name. An empty category means all.
func (r *productRepo) FindAll(ctx context.Context, category string) ([]model.Product, error) {
	var products []model.Product
	query := r.db.WithContext(ctx).Order("category ASC, name ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *productRepo) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal, updatedBy string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"price":      price,
			"updated_by": updatedBy,
		})
	return res.RowsAffected, res.Error
}

// Delete soft-deletes the product and reports how many rows were hit.
func (r *productRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) (int64, error) {
	return softDelete(r.db.WithContext(ctx).Model(&model.Product{}), id, deletedBy)
}
