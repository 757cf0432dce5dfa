package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartRequest "github.com/wicaksono/storefront/cart/pkg/request"
	inErrors "github.com/wicaksono/storefront/internal/errors"
	"github.com/wicaksono/storefront/internal/payment"
	"github.com/wicaksono/storefront/internal/repository"
	"github.com/wicaksono/storefront/order/pkg/request"
)

var (
	variationOnSale   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	variationLastUnit = uuid.MustParse("33333333-3333-3333-3333-333333333333")

	productsSeed = filepath.Join("seed", "products.seed.sql")
)

const declinedMethod = "declined-card"

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func strPtr(s string) *string { return &s }

func TestCheckoutCart(t *testing.T) {
	c := testContext()
	env := setup(t, c, payment.NewStub(declinedMethod), productsSeed)
	defer teardown(t, env)

	t.Run("converts cart into pending order without double decrement", func(t *testing.T) {
		userId := uuid.New()
		cart, err := env.carts.AddItem(c, userId, cartRequest.AddCartItem{
			ProductVariationId: variationOnSale,
			Quantity:           2,
		})
		require.NoError(t, err)

		order, err := env.orders.CheckoutCart(c, userId, request.CheckoutCart{
			CartId:          cart.ID,
			ShippingAddress: "Jl. Sudirman 1",
			ContactInfo:     "user@example.com",
			PaymentMethod:   "card",
		})
		require.NoError(t, err)
		assert.Equal(t, string(repository.OrderStatusPending), order.Status)
		assert.True(t, order.Total.Equal(decimal.RequireFromString("30.00")))
		require.Len(t, order.OrderItems, 1)
		assert.EqualValues(t, 2, order.OrderItems[0].Quantity)
		assert.True(t, order.OrderItems[0].Price.Equal(decimal.RequireFromString("15.00")))

		// stock was consumed when the item entered the cart, not at checkout
		variation, err := env.queries.FindVariationById(c, variationOnSale)
		require.NoError(t, err)
		assert.EqualValues(t, 98, variation.Stock)

		completed, err := env.queries.FindCartById(c, cart.ID)
		require.NoError(t, err)
		assert.Equal(t, repository.CartStatusCompleted, completed.Status)
		assert.EqualValues(t, 0, completed.TotalItems)
		items, err := env.queries.FindCartItems(c, cart.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("declined payment aborts checkout and keeps cart intact", func(t *testing.T) {
		userId := uuid.New()
		cart, err := env.carts.AddItem(c, userId, cartRequest.AddCartItem{
			ProductVariationId: variationOnSale,
			Quantity:           3,
		})
		require.NoError(t, err)

		_, err = env.orders.CheckoutCart(c, userId, request.CheckoutCart{
			CartId:          cart.ID,
			ShippingAddress: "Jl. Sudirman 1",
			ContactInfo:     "user@example.com",
			PaymentMethod:   declinedMethod,
		})
		assert.ErrorIs(t, err, inErrors.ErrPaymentFailed)

		active, err := env.queries.FindCartById(c, cart.ID)
		require.NoError(t, err)
		assert.Equal(t, repository.CartStatusActive, active.Status)
		items, err := env.queries.FindCartItems(c, cart.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.EqualValues(t, 3, items[0].Quantity)

		orders, err := env.orders.FindOrders(c, userId)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("empty cart cannot be checked out", func(t *testing.T) {
		userId := uuid.New()
		cart, err := env.carts.FindCart(c, userId)
		require.NoError(t, err)

		_, err = env.orders.CheckoutCart(c, userId, request.CheckoutCart{
			CartId:          cart.ID,
			ShippingAddress: "Jl. Sudirman 1",
			ContactInfo:     "user@example.com",
			PaymentMethod:   "card",
		})
		assert.ErrorIs(t, err, inErrors.ErrInvalidCart)
	})

	t.Run("unknown cart is invalid", func(t *testing.T) {
		_, err := env.orders.CheckoutCart(c, uuid.New(), request.CheckoutCart{
			CartId:          uuid.New(),
			ShippingAddress: "Jl. Sudirman 1",
			ContactInfo:     "user@example.com",
			PaymentMethod:   "card",
		})
		assert.ErrorIs(t, err, inErrors.ErrInvalidCart)
	})

	t.Run("cart of another user is unauthorized", func(t *testing.T) {
		userId := uuid.New()
		cart, err := env.carts.AddItem(c, userId, cartRequest.AddCartItem{
			ProductVariationId: variationOnSale,
			Quantity:           1,
		})
		require.NoError(t, err)

		_, err = env.orders.CheckoutCart(c, uuid.New(), request.CheckoutCart{
			CartId:          cart.ID,
			ShippingAddress: "Jl. Sudirman 1",
			ContactInfo:     "user@example.com",
			PaymentMethod:   "card",
		})
		assert.ErrorIs(t, err, inErrors.ErrUnauthorized)
	})
}

func TestBuyNow(t *testing.T) {
	c := testContext()
	env := setup(t, c, payment.NewStub(declinedMethod), productsSeed)
	defer teardown(t, env)

	userId := uuid.New()

	t.Run("declined payment leaves stock untouched", func(t *testing.T) {
		_, err := env.orders.BuyNow(c, userId, request.BuyNow{
			ProductVariationId: variationLastUnit,
			Quantity:           1,
			ShippingAddress:    "Jl. Sudirman 1",
			ContactInfo:        "user@example.com",
			PaymentMethod:      declinedMethod,
		})
		assert.ErrorIs(t, err, inErrors.ErrPaymentFailed)

		variation, err := env.queries.FindVariationById(c, variationLastUnit)
		require.NoError(t, err)
		assert.EqualValues(t, 1, variation.Stock)
	})

	t.Run("creates single line order and consumes stock", func(t *testing.T) {
		order, err := env.orders.BuyNow(c, userId, request.BuyNow{
			ProductVariationId: variationLastUnit,
			Quantity:           1,
			ShippingAddress:    "Jl. Sudirman 1",
			ContactInfo:        "user@example.com",
			PaymentMethod:      "card",
		})
		require.NoError(t, err)
		assert.Equal(t, string(repository.OrderStatusPending), order.Status)
		assert.True(t, order.Total.Equal(decimal.RequireFromString("10.00")))
		require.Len(t, order.OrderItems, 1)

		variation, err := env.queries.FindVariationById(c, variationLastUnit)
		require.NoError(t, err)
		assert.EqualValues(t, 0, variation.Stock)
	})

	t.Run("sold out variation returns insufficient stock", func(t *testing.T) {
		_, err := env.orders.BuyNow(c, userId, request.BuyNow{
			ProductVariationId: variationLastUnit,
			Quantity:           1,
			ShippingAddress:    "Jl. Sudirman 1",
			ContactInfo:        "user@example.com",
			PaymentMethod:      "card",
		})
		assert.ErrorIs(t, err, inErrors.ErrInsufficientStock)
	})

	t.Run("non positive quantity is rejected", func(t *testing.T) {
		_, err := env.orders.BuyNow(c, userId, request.BuyNow{
			ProductVariationId: variationOnSale,
			Quantity:           0,
			ShippingAddress:    "Jl. Sudirman 1",
			ContactInfo:        "user@example.com",
			PaymentMethod:      "card",
		})
		assert.ErrorIs(t, err, inErrors.ErrInvalidQuantity)
	})

	t.Run("unknown variation returns not found", func(t *testing.T) {
		_, err := env.orders.BuyNow(c, userId, request.BuyNow{
			ProductVariationId: uuid.New(),
			Quantity:           1,
			ShippingAddress:    "Jl. Sudirman 1",
			ContactInfo:        "user@example.com",
			PaymentMethod:      "card",
		})
		assert.ErrorIs(t, err, inErrors.ErrVariationNotFound)
	})
}

func TestUpdateOrder(t *testing.T) {
	c := testContext()
	env := setup(t, c, payment.NewStub(), productsSeed)
	defer teardown(t, env)

	userId := uuid.New()
	order, err := env.orders.BuyNow(c, userId, request.BuyNow{
		ProductVariationId: variationOnSale,
		Quantity:           5,
		ShippingAddress:    "Jl. Sudirman 1",
		ContactInfo:        "user@example.com",
		PaymentMethod:      "card",
	})
	require.NoError(t, err)

	t.Run("patches mutable fields without touching status", func(t *testing.T) {
		updated, err := env.orders.UpdateOrder(c, order.ID, request.UpdateOrder{
			ShippingAddress: strPtr("Jl. Thamrin 2"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Jl. Thamrin 2", updated.ShippingAddress)
		assert.Equal(t, string(repository.OrderStatusPending), updated.Status)
	})

	t.Run("unknown status is an invalid transition", func(t *testing.T) {
		_, err := env.orders.UpdateOrder(c, order.ID, request.UpdateOrder{
			Status: strPtr("TELEPORTED"),
		})
		assert.ErrorIs(t, err, inErrors.ErrInvalidStatusTransition)
	})

	t.Run("pending order cannot jump to delivered", func(t *testing.T) {
		_, err := env.orders.UpdateOrder(c, order.ID, request.UpdateOrder{
			Status: strPtr(string(repository.OrderStatusDelivered)),
		})
		assert.ErrorIs(t, err, inErrors.ErrInvalidStatusTransition)
	})

	t.Run("cancelling a pending order releases its stock", func(t *testing.T) {
		before, err := env.queries.FindVariationById(c, variationOnSale)
		require.NoError(t, err)
		assert.EqualValues(t, 95, before.Stock)

		updated, err := env.orders.UpdateOrder(c, order.ID, request.UpdateOrder{
			Status: strPtr(string(repository.OrderStatusCancelled)),
		})
		require.NoError(t, err)
		assert.Equal(t, string(repository.OrderStatusCancelled), updated.Status)

		after, err := env.queries.FindVariationById(c, variationOnSale)
		require.NoError(t, err)
		assert.EqualValues(t, 100, after.Stock)
	})

	t.Run("cancelled order is terminal", func(t *testing.T) {
		_, err := env.orders.UpdateOrder(c, order.ID, request.UpdateOrder{
			Status: strPtr(string(repository.OrderStatusProcessing)),
		})
		assert.ErrorIs(t, err, inErrors.ErrInvalidStatusTransition)
	})

	t.Run("unknown order returns not found", func(t *testing.T) {
		_, err := env.orders.UpdateOrder(c, uuid.New(), request.UpdateOrder{
			ShippingAddress: strPtr("Jl. Thamrin 2"),
		})
		assert.ErrorIs(t, err, inErrors.ErrOrderNotFound)
	})
}

func TestFindOrders(t *testing.T) {
	c := testContext()
	env := setup(t, c, payment.NewStub(), productsSeed)
	defer teardown(t, env)

	userId := uuid.New()
	order, err := env.orders.BuyNow(c, userId, request.BuyNow{
		ProductVariationId: variationOnSale,
		Quantity:           1,
		ShippingAddress:    "Jl. Sudirman 1",
		ContactInfo:        "user@example.com",
		PaymentMethod:      "card",
	})
	require.NoError(t, err)

	t.Run("finds order by id", func(t *testing.T) {
		found, err := env.orders.FindOrderById(c, userId, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
		require.Len(t, found.OrderItems, 1)
	})

	t.Run("order of another user is unauthorized", func(t *testing.T) {
		_, err := env.orders.FindOrderById(c, uuid.New(), order.ID)
		assert.ErrorIs(t, err, inErrors.ErrUnauthorized)
	})

	t.Run("missing order returns not found", func(t *testing.T) {
		_, err := env.orders.FindOrderById(c, userId, uuid.New())
		assert.ErrorIs(t, err, inErrors.ErrOrderNotFound)
	})

	t.Run("lists orders for the user", func(t *testing.T) {
		orders, err := env.orders.FindOrders(c, userId)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, order.ID, orders[0].ID)
	})

	t.Run("other users see no orders", func(t *testing.T) {
		orders, err := env.orders.FindOrders(c, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestDeleteOrder(t *testing.T) {
	c := testContext()
	env := setup(t, c, payment.NewStub(), productsSeed)
	defer teardown(t, env)

	userId := uuid.New()
	order, err := env.orders.BuyNow(c, userId, request.BuyNow{
		ProductVariationId: variationOnSale,
		Quantity:           1,
		ShippingAddress:    "Jl. Sudirman 1",
		ContactInfo:        "user@example.com",
		PaymentMethod:      "card",
	})
	require.NoError(t, err)

	assert.True(t, env.orders.DeleteOrder(c, order.ID))
	assert.False(t, env.orders.DeleteOrder(c, order.ID))
	assert.False(t, env.orders.DeleteOrder(c, uuid.New()))
}

func TestCheckoutCartChargesCurrentPrice(t *testing.T) {
	c := testContext()
	env := setup(t, c, payment.NewStub(declinedMethod), productsSeed)
	defer teardown(t, env)

	userId := uuid.New()
	cart, err := env.carts.AddItem(c, userId, cartRequest.AddCartItem{
		ProductVariationId: variationOnSale,
		Quantity:           2,
	})
	require.NoError(t, err)
	require.True(t, cart.TotalAmount.Equal(decimal.RequireFromString("30.00")))

	// the sale ends between add and checkout
	_, err = env.pool.Exec(
		c,
		"UPDATE product_variations SET sale_price = NULL WHERE id = $1",
		variationOnSale,
	)
	require.NoError(t, err)

	order, err := env.orders.CheckoutCart(c, userId, request.CheckoutCart{
		CartId:          cart.ID,
		ShippingAddress: "Jl. Sudirman 1",
		ContactInfo:     "user@example.com",
		PaymentMethod:   "card",
	})
	require.NoError(t, err)
	require.Len(t, order.OrderItems, 1)
	assert.True(t, order.OrderItems[0].Price.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, order.Total.Equal(decimal.RequireFromString("40.00")))
}
