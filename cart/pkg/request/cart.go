package request

import (
	"github.com/google/uuid"
)

type AddCartItem struct {
	ProductVariationId uuid.UUID `validate:"required" json:"product_variation_id"`
	Quantity           int32     `validate:"required,gte=1" json:"quantity"`
}

type UpdateCartItem struct {
	CartItemId uuid.UUID `validate:"required" json:"cart_item_id"`
	Quantity   int32     `json:"quantity"`
}

type RemoveCartItem struct {
	CartItemId uuid.UUID `validate:"required" json:"cart_item_id"`
}
