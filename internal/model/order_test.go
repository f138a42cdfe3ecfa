package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewOrder_ComputesSubtotalsAndTotal(t *testing.T) {
	at := time.Date(2024, 1, 5, 13, 7, 0, 0, time.UTC)
	items := []OrderItem{
		{ProductID: uuid.New(), Name: "X-Burguer", Quantity: 2, UnitPrice: decimal.RequireFromString("18.50")},
		{ProductID: uuid.New(), Name: "Refrigerante", Quantity: 3, UnitPrice: decimal.RequireFromString("6.00")},
	}

	order := NewOrder(uuid.New(), uuid.New(), PaymentCash, items, at)

	assert.True(t, decimal.RequireFromString("37.00").Equal(order.Items[0].Subtotal))
	assert.True(t, decimal.RequireFromString("18.00").Equal(order.Items[1].Subtotal))
	assert.True(t, decimal.RequireFromString("55.00").Equal(order.Total))
	assert.Equal(t, "05/01/2024", order.Date)
	assert.Equal(t, "13:07", order.Time)
	assert.True(t, items[0].Subtotal.IsZero(), "caller's slice must not be mutated")
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, PaymentCash.Valid())
	assert.True(t, PaymentDebitCard.Valid())
	assert.True(t, PaymentCreditCard.Valid())
	assert.False(t, PaymentMethod("PIX").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestNewCashSession_OccupiesOpenSlot(t *testing.T) {
	s := NewCashSession(OperatorSnapshot{ID: uuid.New(), Name: "Ana"}, decimal.NewFromInt(50), time.Now())

	assert.True(t, s.IsOpen())
	assert.NotNil(t, s.OpenSlot)
	assert.True(t, s.Total.Equal(s.OpeningAmount))
}
