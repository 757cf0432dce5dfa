package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Cart struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	Status       string          `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	TotalItems   int32           `json:"total_items"`
	CartItems    []CartItem      `json:"cart_items"`
	LastActivity time.Time       `json:"last_activity"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type CartItem struct {
	ID                 uuid.UUID       `json:"id"`
	CartID             uuid.UUID       `json:"cart_id"`
	ProductVariationID uuid.UUID       `json:"product_variation_id"`
	ProductID          uuid.UUID       `json:"product_id"`
	Quantity           int32           `json:"quantity"`
	Price              decimal.Decimal `json:"price"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
