package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusProcessing},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusShipped},
		{OrderStatusProcessing, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusRefunded},
		{OrderStatusShipped, OrderStatusDelivered},
		{OrderStatusShipped, OrderStatusRefunded},
		{OrderStatusDelivered, OrderStatusRefunded},
	}
	for _, tt := range allowed {
		assert.True(t, tt.from.CanTransitionTo(tt.to), "%s -> %s should be allowed", tt.from, tt.to)
	}

	denied := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusCancelled},
		{OrderStatusCancelled, OrderStatusPending},
		{OrderStatusCancelled, OrderStatusProcessing},
		{OrderStatusRefunded, OrderStatusPending},
	}
	for _, tt := range denied {
		assert.False(t, tt.from.CanTransitionTo(tt.to), "%s -> %s should be denied", tt.from, tt.to)
	}
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderStatusPending.Valid())
	assert.True(t, OrderStatusRefunded.Valid())
	assert.False(t, OrderStatus("TELEPORTED").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestEffectivePrice(t *testing.T) {
	base := NumericFromDecimal(mustDecimal(t, "20.00"))

	t.Run("uses sale price when set", func(t *testing.T) {
		v := ProductVariation{Price: base, SalePrice: NumericFromDecimal(mustDecimal(t, "15.00"))}
		assert.Equal(t, "15", v.EffectivePrice().String())
	})

	t.Run("falls back to base price when sale is unset", func(t *testing.T) {
		v := ProductVariation{Price: base}
		assert.Equal(t, "20", v.EffectivePrice().String())
	})

	t.Run("ignores non positive sale price", func(t *testing.T) {
		v := ProductVariation{Price: base, SalePrice: NumericFromDecimal(mustDecimal(t, "0"))}
		assert.Equal(t, "20", v.EffectivePrice().String())
	})
}
