package model

// StockItem is one line of the stock ledger (estoque). Quantity is only changed through
// increase/decrease adjustments and never drops below zero.
type StockItem struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null;index" json:"name" validate:"required"`
	Description string `gorm:"type:text" json:"description"`
	Quantity    int    `gorm:"not null;default:0" json:"quantity" validate:"gte=0"`
}

func (StockItem) TableName() string {
	return "estoque"
}
