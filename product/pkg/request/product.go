package request

import (
	"github.com/shopspring/decimal"
)

type InsertProduct struct {
	Name        string            `validate:"required"       json:"name"`
	Description string            `                          json:"description"`
	Variations  []InsertVariation `validate:"required,gt=0"  json:"variations"`
}

type InsertVariation struct {
	Size      string           `validate:"required"       json:"size"`
	Color     string           `validate:"required"       json:"color"`
	Price     decimal.Decimal  `validate:"required"       json:"price"`
	SalePrice *decimal.Decimal `                          json:"sale_price"`
	Stock     int32            `validate:"gte=0"          json:"stock"`
	Images    []string         `                          json:"images"`
}
