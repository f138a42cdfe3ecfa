package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MovementKind string

const (
	MovementIn  MovementKind = "IN"
	MovementOut MovementKind = "OUT"
)

// CashMovement is an ad-hoc deposit or withdrawal against the till. Movements are never
// updated or deleted.
type CashMovement struct {
	BaseModel
	SessionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"session_id"`
	Kind      MovementKind    `gorm:"type:varchar(10);not null" json:"kind" validate:"required,oneof=IN OUT"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount" validate:"gt=0,money"`
	Note      string          `gorm:"type:text" json:"note,omitempty"`
}

func (CashMovement) TableName() string {
	return "movimentacoes_caixa"
}
