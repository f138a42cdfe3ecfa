package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
)

// PaymentMethods lists the accepted labels. Payment is recorded, never processed.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentDebitCard, PaymentCreditCard}

func (p PaymentMethod) Valid() bool {
	for _, m := range PaymentMethods {
		if p == m {
			return true
		}
	}
	return false
}

// Date layouts stored on orders.
const (
	OrderDateLayout = "02/01/2006"
	OrderTimeLayout = "15:04"
)

// Order is an immutable sale. Lines keep the product name and unit price as sold.
type Order struct {
	BaseModel
	OperatorID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"operator_id"`
	SessionID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"session_id"`
	Date          string          `gorm:"type:varchar(10);not null;index" json:"date"` // dd/mm/yyyy in business time
	Time          string          `gorm:"type:varchar(5)" json:"time"`                 // HH:MM
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string {
	return "pedidos"
}

type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	ProductID uuid.UUID       `gorm:"type:uuid" json:"product_id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}

func (OrderItem) TableName() string {
	return "pedido_itens"
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// NewOrder fills in every line subtotal and the grand total. at is expected in business time.
func NewOrder(operatorID, sessionID uuid.UUID, method PaymentMethod, items []OrderItem, at time.Time) *Order {
	total := decimal.Zero
	lines := make([]OrderItem, len(items))
	for i, item := range items {
		item.Subtotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(item.Subtotal)
		lines[i] = item
	}

	return &Order{
		OperatorID:    operatorID,
		SessionID:     sessionID,
		Date:          at.Format(OrderDateLayout),
		Time:          at.Format(OrderTimeLayout),
		PaymentMethod: method,
		Total:         total,
		Items:         lines,
	}
}
