package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type staff struct {
	Name string    `validate:"required"`
	CPF  string    `validate:"required,cpf"`
	Ref  uuid.UUID `validate:"uuid_required"`
}

func TestValidateStruct(t *testing.T) {
	ok := staff{Name: "Ana", CPF: "529.982.247-25", Ref: uuid.New()}
	assert.Empty(t, ValidateStruct(&ok))

	bad := staff{Name: "Ana", CPF: "11111111111", Ref: uuid.New()}
	errs := ValidateStruct(&bad)
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "staff.CPF", errs[0].FailedField)
		assert.Equal(t, "cpf", errs[0].Tag)
	}

	noRef := staff{Name: "Ana", CPF: "52998224725"}
	errs = ValidateStruct(&noRef)
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "uuid_required", errs[0].Tag)
		assert.Equal(t, "Validation failed: Field 'staff.Ref' failed on tag 'uuid_required'", Message(errs))
	}
}

func TestMessage_Empty(t *testing.T) {
	assert.Equal(t, "", Message(nil))
}

type till struct {
	Amount decimal.Decimal `validate:"gt=0"`
}

func TestValidateStruct_Decimal(t *testing.T) {
	assert.Empty(t, ValidateStruct(&till{Amount: decimal.RequireFromString("0.01")}))

	errs := ValidateStruct(&till{Amount: decimal.Zero})
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "gt", errs[0].Tag)
	}
}

type price struct {
	Value decimal.Decimal `validate:"gte=0,money"`
}

func TestFitsMoney(t *testing.T) {
	cases := map[string]bool{
		"0":                     true,
		"18.50":                 true,
		"1.500":                 true,
		"9999999999.99":         true,
		"1.005":                 false,
		"0.1234567890123456789": false,
		"10000000000":           false,
		"123456789012345678.25": false,
	}
	for raw, want := range cases {
		assert.Equal(t, want, FitsMoney(decimal.RequireFromString(raw)), raw)
	}
}

func TestValidateStruct_MoneyTag(t *testing.T) {
	assert.Empty(t, ValidateStruct(&price{Value: decimal.RequireFromString("12.34")}))

	errs := ValidateStruct(&price{Value: decimal.RequireFromString("12.345")})
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "money", errs[0].Tag)
	}

	errs = ValidateStruct(&price{Value: decimal.RequireFromString("12345678901.00")})
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "money", errs[0].Tag)
	}
}
