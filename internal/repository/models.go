package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type CartStatus string

const (
	CartStatusActive    CartStatus = "ACTIVE"
	CartStatusCompleted CartStatus = "COMPLETED"
	CartStatusAbandoned CartStatus = "ABANDONED"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

// orderTransitions is the allowed status lifecycle. CANCELLED and REFUNDED
// are terminal; cancellation is only reachable before shipment.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusRefunded},
	OrderStatusDelivered:  {OrderStatusRefunded},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type ProductVariation struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Size      string
	Color     string
	Price     pgtype.Numeric
	SalePrice pgtype.Numeric
	Stock     int32
	Images    []string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

// EffectivePrice is the sale price when set and positive, else the base price.
func (v ProductVariation) EffectivePrice() decimal.Decimal {
	sale := DecimalFromNumeric(v.SalePrice)
	if v.SalePrice.Valid && sale.IsPositive() {
		return sale
	}
	return DecimalFromNumeric(v.Price)
}

type Cart struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Status       CartStatus
	TotalAmount  pgtype.Numeric
	TotalItems   int32
	LastActivity pgtype.Timestamptz
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type CartItem struct {
	ID                 uuid.UUID
	CartID             uuid.UUID
	ProductVariationID uuid.UUID
	ProductID          uuid.UUID
	Quantity           int32
	Price              pgtype.Numeric
	CreatedAt          pgtype.Timestamptz
	UpdatedAt          pgtype.Timestamptz
}

type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Status          OrderStatus
	Total           pgtype.Numeric
	PaymentMethod   string
	ShippingAddress string
	ContactInfo     string
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

type OrderItem struct {
	ID                 uuid.UUID
	OrderID            uuid.UUID
	ProductVariationID uuid.UUID
	ProductID          uuid.UUID
	Quantity           int32
	Price              pgtype.Numeric
	CreatedAt          pgtype.Timestamptz
	UpdatedAt          pgtype.Timestamptz
}
