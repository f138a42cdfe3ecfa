package repository

import (
	"context"

	"foodstack-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CashMovementRepository interface {
	Create(ctx context.Context, movement *model.CashMovement) error
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error)
}

type cashMovementRepo struct {
	db *gorm.DB
}

func NewCashMovementRepo(db *gorm.DB) CashMovementRepository {
	return &cashMovementRepo{db}
}

func (r *cashMovementRepo) Create(ctx context.Context, movement *model.CashMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *cashMovementRepo) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var movements []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}
