package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// openSlotValue fills CashSession.OpenSlot while a session is open. The column carries a
// unique index and is NULL otherwise, so the database itself refuses a second open session.
const openSlotValue = "OPEN"

// OperatorSnapshot is the identity of the operator at open time. Later edits to the
// User record do not change it.
type OperatorSnapshot struct {
	ID   uuid.UUID `gorm:"type:uuid;not null;index" json:"id"`
	Name string    `gorm:"type:varchar(255)" json:"name"`
	CPF  string    `gorm:"column:cpf;type:varchar(11)" json:"cpf"`
}

// CashSession is one open/close period of the till (caixa).
type CashSession struct {
	BaseModel
	Operator      OperatorSnapshot `gorm:"embedded;embeddedPrefix:operator_" json:"operator"`
	Status        SessionStatus    `gorm:"type:varchar(10);not null;index" json:"status"`
	OpenedAt      time.Time        `gorm:"not null;index" json:"opened_at"`
	ClosedAt      *time.Time       `json:"closed_at"`
	OpeningAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"opening_amount" validate:"gte=0,money"`

	// Total starts at the opening amount and is replaced by the declared amount on close.
	Total decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`

	// Filled on close from the computed reconciliation.
	ExpectedAmount *decimal.Decimal `gorm:"type:decimal(12,2)" json:"expected_amount,omitempty"`
	Difference     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"difference,omitempty"`

	OpenSlot *string `gorm:"type:varchar(10);uniqueIndex" json:"-"`
}

func (CashSession) TableName() string {
	return "caixa"
}

// NewCashSession builds an open session for the given operator.
func NewCashSession(operator OperatorSnapshot, openingAmount decimal.Decimal, openedAt time.Time) *CashSession {
	slot := openSlotValue
	return &CashSession{
		Operator:      operator,
		Status:        SessionOpen,
		OpenedAt:      openedAt,
		OpeningAmount: openingAmount,
		Total:         openingAmount,
		OpenSlot:      &slot,
	}
}

func (s *CashSession) IsOpen() bool {
	return s.Status == SessionOpen
}
