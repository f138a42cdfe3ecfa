package repository

import (
	"context"
	"time"

	"foodstack-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashSessionRepository interface {
	Create(ctx context.Context, session *model.CashSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error)
	// FindOpen returns every OPEN session, most recently opened first.
	FindOpen(ctx context.Context) ([]model.CashSession, error)
	FindAll(ctx context.Context) ([]model.CashSession, error)
	Close(ctx context.Context, id uuid.UUID, closing CloseValues, closedBy string) (int64, error)
}

// CloseValues are written when a session is closed.
type CloseValues struct {
	ClosedAt       time.Time
	Declared       decimal.Decimal
	ExpectedAmount decimal.Decimal
	Difference     decimal.Decimal
}

type cashSessionRepo struct {
	db *gorm.DB
}

func NewCashSessionRepo(db *gorm.DB) CashSessionRepository {
	return &cashSessionRepo{db}
}

func (r *cashSessionRepo) Create(ctx context.Context, session *model.CashSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *cashSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error) {
	var session model.CashSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *cashSessionRepo) FindOpen(ctx context.Context) ([]model.CashSession, error) {
	var sessions []model.CashSession
	err := r.db.WithContext(ctx).
		Where("status = ?", model.SessionOpen).
		Order("opened_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *cashSessionRepo) FindAll(ctx context.Context) ([]model.CashSession, error) {
	var sessions []model.CashSession
	err := r.db.WithContext(ctx).Order("opened_at DESC").Find(&sessions).Error
	return sessions, err
}

// Close only touches a session that is still OPEN; zero rows means unknown or already closed.
// Releasing open_slot lets the next session be opened.
func (r *cashSessionRepo) Close(ctx context.Context, id uuid.UUID, closing CloseValues, closedBy string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.CashSession{}).
		Where("id = ? AND status = ?", id, model.SessionOpen).
		Updates(map[string]interface{}{
			"status":          model.SessionClosed,
			"closed_at":       closing.ClosedAt,
			"total":           closing.Declared,
			"expected_amount": closing.ExpectedAmount,
			"difference":      closing.Difference,
			"open_slot":       nil,
			"updated_by":      closedBy,
		})
	return res.RowsAffected, res.Error
}
