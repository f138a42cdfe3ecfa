package model

import "github.com/shopspring/decimal"

// Product is a menu (cardápio) entry.
type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Category    string          `gorm:"type:varchar(100);not null;index" json:"category" validate:"required"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price" validate:"gte=0,money"`
}

func (Product) TableName() string {
	return "produtos"
}
