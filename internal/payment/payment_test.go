package payment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	inErrors "github.com/wicaksono/storefront/internal/errors"
)

func TestStubCharge(t *testing.T) {
	c := context.Background()
	stub := NewStub("declined-card")

	t.Run("accepts a positive amount", func(t *testing.T) {
		assert.NoError(t, stub.Charge(c, decimal.NewFromInt(10), "card"))
	})

	t.Run("rejects a declined method", func(t *testing.T) {
		err := stub.Charge(c, decimal.NewFromInt(10), "declined-card")
		assert.ErrorIs(t, err, inErrors.ErrPaymentFailed)
	})

	t.Run("rejects an empty method", func(t *testing.T) {
		err := stub.Charge(c, decimal.NewFromInt(10), "")
		assert.ErrorIs(t, err, inErrors.ErrPaymentFailed)
	})

	t.Run("rejects a non positive amount", func(t *testing.T) {
		err := stub.Charge(c, decimal.Zero, "card")
		assert.ErrorIs(t, err, inErrors.ErrPaymentFailed)
	})
}
