package repository

import (
	cartResponse "github.com/wicaksono/storefront/cart/pkg/response"
	orderResponse "github.com/wicaksono/storefront/order/pkg/response"
	productResponse "github.com/wicaksono/storefront/product/pkg/response"
)

func (p Product) Response(variations []ProductVariation) productResponse.Product {
	mapped := make([]productResponse.ProductVariation, 0, len(variations))
	for _, v := range variations {
		mapped = append(mapped, v.Response())
	}
	return productResponse.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Variations:  mapped,
		CreatedAt:   p.CreatedAt.Time,
		UpdatedAt:   p.UpdatedAt.Time,
	}
}

func (v ProductVariation) Response() productResponse.ProductVariation {
	resp := productResponse.ProductVariation{
		ID:        v.ID,
		ProductID: v.ProductID,
		Size:      v.Size,
		Color:     v.Color,
		Price:     DecimalFromNumeric(v.Price),
		Stock:     v.Stock,
		Images:    v.Images,
		CreatedAt: v.CreatedAt.Time,
		UpdatedAt: v.UpdatedAt.Time,
	}
	if v.SalePrice.Valid {
		sale := DecimalFromNumeric(v.SalePrice)
		resp.SalePrice = &sale
	}
	return resp
}

func (ca Cart) Response(items []CartItem) cartResponse.Cart {
	mapped := make([]cartResponse.CartItem, 0, len(items))
	for _, item := range items {
		mapped = append(mapped, item.Response())
	}
	return cartResponse.Cart{
		ID:           ca.ID,
		UserID:       ca.UserID,
		Status:       string(ca.Status),
		TotalAmount:  DecimalFromNumeric(ca.TotalAmount),
		TotalItems:   ca.TotalItems,
		CartItems:    mapped,
		LastActivity: ca.LastActivity.Time,
		CreatedAt:    ca.CreatedAt.Time,
		UpdatedAt:    ca.UpdatedAt.Time,
	}
}

func (ci CartItem) Response() cartResponse.CartItem {
	return cartResponse.CartItem{
		ID:                 ci.ID,
		CartID:             ci.CartID,
		ProductVariationID: ci.ProductVariationID,
		ProductID:          ci.ProductID,
		Quantity:           ci.Quantity,
		Price:              DecimalFromNumeric(ci.Price),
		CreatedAt:          ci.CreatedAt.Time,
		UpdatedAt:          ci.UpdatedAt.Time,
	}
}

func (o Order) Response(items []OrderItem) orderResponse.Order {
	mapped := make([]orderResponse.OrderItem, 0, len(items))
	for _, item := range items {
		mapped = append(mapped, item.Response())
	}
	return orderResponse.Order{
		ID:              o.ID,
		UserId:          o.UserID,
		Status:          string(o.Status),
		Total:           DecimalFromNumeric(o.Total),
		PaymentMethod:   o.PaymentMethod,
		ShippingAddress: o.ShippingAddress,
		ContactInfo:     o.ContactInfo,
		OrderItems:      mapped,
		CreatedAt:       o.CreatedAt.Time,
		UpdatedAt:       o.UpdatedAt.Time,
	}
}

func (oi OrderItem) Response() orderResponse.OrderItem {
	return orderResponse.OrderItem{
		ID:                 oi.ID,
		OrderId:            oi.OrderID,
		ProductVariationId: oi.ProductVariationID,
		ProductId:          oi.ProductID,
		Quantity:           oi.Quantity,
		Price:              DecimalFromNumeric(oi.Price),
		CreatedAt:          oi.CreatedAt.Time,
		UpdatedAt:          oi.UpdatedAt.Time,
	}
}
