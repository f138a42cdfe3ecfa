package repository

import (
	"context"

	"foodstack-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockRepository interface {
	Create(ctx context.Context, item *model.StockItem) error
	FindAll(ctx context.Context) ([]model.StockItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockItem, error)
	SearchByName(ctx context.Context, term string) ([]model.StockItem, error)
	FindBelow(ctx context.Context, threshold int) ([]model.StockItem, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, name, description, updatedBy string) (int64, error)
	Increase(ctx context.Context, id uuid.UUID, amount int, updatedBy string) (int64, error)
	Decrease(ctx context.Context, id uuid.UUID, amount int, updatedBy string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID, deletedBy string) (int64, error)
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

func (r *stockRepo) Create(ctx context.Context, item *model.StockItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *stockRepo) FindAll(ctx context.Context) ([]model.StockItem, error) {
	var items []model.StockItem
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *stockRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StockItem, error) {
	var item model.StockItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *stockRepo) SearchByName(ctx context.Context, term string) ([]model.StockItem, error) {
	var items []model.StockItem
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", likePattern(term)).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

// FindBelow returns items whose quantity is strictly less than threshold.
func (r *stockRepo) FindBelow(ctx context.Context, threshold int) ([]model.StockItem, error) {
	var items []model.StockItem
	err := r.db.WithContext(ctx).
		Where("quantity < ?", threshold).
		Order("quantity ASC, name ASC").
		Find(&items).Error
	return items, err
}

func (r *stockRepo) UpdateDetails(ctx context.Context, id uuid.UUID, name, description, updatedBy string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.StockItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":        name,
			"description": description,
			"updated_by":  updatedBy,
		})
	return res.RowsAffected, res.Error
}

// Increase adds amount in a single statement so concurrent adjustments never lose updates.
func (r *stockRepo) Increase(ctx context.Context, id uuid.UUID, amount int, updatedBy string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.StockItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", amount),
			"updated_by": updatedBy,
		})
	return res.RowsAffected, res.Error
}

// Decrease subtracts amount, clamping at zero.
func (r *stockRepo) Decrease(ctx context.Context, id uuid.UUID, amount int, updatedBy string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.StockItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("CASE WHEN quantity > ? THEN quantity - ? ELSE 0 END", amount, amount),
			"updated_by": updatedBy,
		})
	return res.RowsAffected, res.Error
}

func (r *stockRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) (int64, error) {
	return softDelete(r.db.WithContext(ctx).Model(&model.StockItem{}), id, deletedBy)
}
