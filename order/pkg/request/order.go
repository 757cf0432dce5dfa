package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutCart struct {
	CartId          uuid.UUID `validate:"required" json:"cart_id"`
	ShippingAddress string    `validate:"required" json:"shipping_address"`
	ContactInfo     string    `validate:"required" json:"contact_info"`
	PaymentMethod   string    `validate:"required" json:"payment_method"`
}

type BuyNow struct {
	ProductVariationId uuid.UUID `validate:"required"       json:"product_variation_id"`
	Quantity           int32     `validate:"required,gte=1" json:"quantity"`
	ShippingAddress    string    `validate:"required"       json:"shipping_address"`
	ContactInfo        string    `validate:"required"       json:"contact_info"`
	PaymentMethod      string    `validate:"required"       json:"payment_method"`
}

type UpdateOrder struct {
	Status          *string          `json:"status"`
	Total           *decimal.Decimal `json:"total"`
	PaymentMethod   *string          `json:"payment_method"`
	ShippingAddress *string          `json:"shipping_address"`
	ContactInfo     *string          `json:"contact_info"`
}
