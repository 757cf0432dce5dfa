package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/wicaksono/storefront/internal/errors"
	"github.com/wicaksono/storefront/cart/pkg/request"
)

var (
	variationOnSale   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	variationLastUnit = uuid.MustParse("33333333-3333-3333-3333-333333333333")

	productsSeed = filepath.Join("seed", "products.seed.sql")
)

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func TestAddItem(t *testing.T) {
	c := testContext()
	env := setup(t, c, productsSeed)
	defer teardown(t, env)

	userId := uuid.New()

	t.Run("reserves stock and prices at sale price", func(t *testing.T) {
		cart, err := env.service.AddItem(c, userId, request.AddCartItem{
			ProductVariationId: variationOnSale,
			Quantity:           3,
		})
		require.NoError(t, err)
		require.Len(t, cart.CartItems, 1)
		assert.EqualValues(t, 3, cart.CartItems[0].Quantity)
		assert.True(t, cart.CartItems[0].Price.Equal(decimal.RequireFromString("15.00")))
		assert.True(t, cart.TotalAmount.Equal(decimal.RequireFromString("45.00")))
		assert.EqualValues(t, 3, cart.TotalItems)

		variation, err := env.queries.FindVariationById(c, variationOnSale)
		require.NoError(t, err)
		assert.EqualValues(t, 97, variation.Stock)
	})

	t.Run("adding same variation again accumulates quantity", func(t *testing.T) {
		cart, err := env.service.AddItem(c, userId, request.AddCartItem{
			ProductVariationId: variationOnSale,
			Quantity:           2,
		})
		require.NoError(t, err)
		require.Len(t, cart.CartItems, 1)
		assert.EqualValues(t, 5, cart.CartItems[0].Quantity)
		assert.EqualValues(t, 5, cart.TotalItems)

		variation, err := env.queries.FindVariationById(c, variationOnSale)
		require.NoError(t, err)
		assert.EqualValues(t, 95, variation.Stock)
	})

	t.Run("insufficient stock leaves ledger untouched", func(t *testing.T) {
		_, err := env.service.AddItem(c, userId, request.AddCartItem{
			ProductVariationId: variationLastUnit,
			Quantity:           2,
		})
		assert.ErrorIs(t, err, inErrors.ErrInsufficientStock)

		variation, err := env.queries.FindVariationById(c, variationLastUnit)
		require.NoError(t, err)
		assert.EqualValues(t, 1, variation.Stock)
	})

	t.Run("unknown variation returns not found", func(t *testing.T) {
		_, err := env.service.AddItem(c, userId, request.AddCartItem{
			ProductVariationId: uuid.New(),
			Quantity:           1,
		})
		assert.ErrorIs(t, err, inErrors.ErrVariationNotFound)
	})

	t.Run("non positive quantity is rejected", func(t *testing.T) {
		_, err := env.service.AddItem(c, userId, request.AddCartItem{
			ProductVariationId: variationOnSale,
			Quantity:           0,
		})
		assert.ErrorIs(t, err, inErrors.ErrInvalidQuantity)
	})
}

func TestAddItemLastUnitRace(t *testing.T) {
	c := testContext()
	env := setup(t, c, productsSeed)
	defer teardown(t, env)

	users := []uuid.UUID{uuid.New(), uuid.New()}
	errs := make([]error, len(users))

	var wg sync.WaitGroup
	for i, userId := range users {
		wg.Add(1)
		go func(i int, userId uuid.UUID) {
			defer wg.Done()
			_, errs[i] = env.service.AddItem(c, userId, request.AddCartItem{
				ProductVariationId: variationLastUnit,
				Quantity:           1,
			})
		}(i, userId)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, inErrors.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one caller should win the last unit")

	variation, err := env.queries.FindVariationById(c, variationLastUnit)
	require.NoError(t, err)
	assert.EqualValues(t, 0, variation.Stock)
}

func TestUpdateItem(t *testing.T) {
	c := testContext()
	env := setup(t, c, productsSeed)
	defer teardown(t, env)

	userId := uuid.New()
	cart, err := env.service.AddItem(c, userId, request.AddCartItem{
		ProductVariationId: variationOnSale,
		Quantity:           4,
	})
	require.NoError(t, err)
	itemId := cart.CartItems[0].ID

	t.Run("increasing quantity reserves the difference", func(t *testing.T) {
		cart, err := env.service.UpdateItem(c, userId, request.UpdateCartItem{
			CartItemId: itemId,
			Quantity:   6,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 6, cart.CartItems[0].Quantity)

		variation, err := env.queries.FindVariationById(c, variationOnSale)
		require.NoError(t, err)
		assert.EqualValues(t, 94, variation.Stock)
	})

	t.Run("decreasing quantity releases the difference", func(t *testing.T) {
		cart, err := env.service.UpdateItem(c, userId, request.UpdateCartItem{
			CartItemId: itemId,
			Quantity:   2,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, cart.CartItems[0].Quantity)

		variation, err := env.queries.FindVariationById(c, variationOnSale)
		require.NoError(t, err)
		assert.EqualValues(t, 98, variation.Stock)
	})

	t.Run("another user cannot touch the item", func(t *testing.T) {
		_, err := env.service.UpdateItem(c, uuid.New(), request.UpdateCartItem{
			CartItemId: itemId,
			Quantity:   1,
		})
		assert.ErrorIs(t, err, inErrors.ErrUnauthorized)
	})

	t.Run("zero quantity removes the item and releases stock", func(t *testing.T) {
		cart, err := env.service.UpdateItem(c, userId, request.UpdateCartItem{
			CartItemId: itemId,
			Quantity:   0,
		})
		require.NoError(t, err)
		assert.Empty(t, cart.CartItems)
		assert.EqualValues(t, 0, cart.TotalItems)
		assert.True(t, cart.TotalAmount.IsZero())

		variation, err := env.queries.FindVariationById(c, variationOnSale)
		require.NoError(t, err)
		assert.EqualValues(t, 100, variation.Stock)
	})

	t.Run("missing item returns not found", func(t *testing.T) {
		_, err := env.service.UpdateItem(c, userId, request.UpdateCartItem{
			CartItemId: uuid.New(),
			Quantity:   1,
		})
		assert.ErrorIs(t, err, inErrors.ErrCartItemNotFound)
	})
}

func TestRemoveItem(t *testing.T) {
	c := testContext()
	env := setup(t, c, productsSeed)
	defer teardown(t, env)

	userId := uuid.New()
	cart, err := env.service.AddItem(c, userId, request.AddCartItem{
		ProductVariationId: variationOnSale,
		Quantity:           5,
	})
	require.NoError(t, err)

	cart, err = env.service.RemoveItem(c, userId, cart.CartItems[0].ID)
	require.NoError(t, err)
	assert.Empty(t, cart.CartItems)
	assert.True(t, cart.TotalAmount.IsZero())

	variation, err := env.queries.FindVariationById(c, variationOnSale)
	require.NoError(t, err)
	assert.EqualValues(t, 100, variation.Stock)
}

func TestClearCart(t *testing.T) {
	c := testContext()
	env := setup(t, c, productsSeed)
	defer teardown(t, env)

	userId := uuid.New()
	_, err := env.service.AddItem(c, userId, request.AddCartItem{
		ProductVariationId: variationOnSale,
		Quantity:           7,
	})
	require.NoError(t, err)
	_, err = env.service.AddItem(c, userId, request.AddCartItem{
		ProductVariationId: variationLastUnit,
		Quantity:           1,
	})
	require.NoError(t, err)

	cart, err := env.service.ClearCart(c, userId)
	require.NoError(t, err)
	assert.Empty(t, cart.CartItems)
	assert.EqualValues(t, 0, cart.TotalItems)
	assert.True(t, cart.TotalAmount.IsZero())

	onSale, err := env.queries.FindVariationById(c, variationOnSale)
	require.NoError(t, err)
	assert.EqualValues(t, 100, onSale.Stock)
	lastUnit, err := env.queries.FindVariationById(c, variationLastUnit)
	require.NoError(t, err)
	assert.EqualValues(t, 1, lastUnit.Stock)
}

func TestClearCartWithoutCart(t *testing.T) {
	c := testContext()
	env := setup(t, c, productsSeed)
	defer teardown(t, env)

	_, err := env.service.ClearCart(c, uuid.New())
	assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
}

func TestFindCart(t *testing.T) {
	c := testContext()
	env := setup(t, c, productsSeed)
	defer teardown(t, env)

	userId := uuid.New()

	t.Run("creates an empty cart on first read", func(t *testing.T) {
		cart, err := env.service.FindCart(c, userId)
		require.NoError(t, err)
		assert.Equal(t, userId, cart.UserID)
		assert.Empty(t, cart.CartItems)
	})

	t.Run("reflects mutations after cache invalidation", func(t *testing.T) {
		_, err := env.service.AddItem(c, userId, request.AddCartItem{
			ProductVariationId: variationOnSale,
			Quantity:           2,
		})
		require.NoError(t, err)

		cart, err := env.service.FindCart(c, userId)
		require.NoError(t, err)
		require.Len(t, cart.CartItems, 1)
		assert.EqualValues(t, 2, cart.CartItems[0].Quantity)
	})
}

func TestUpdateItemRepricesDriftedItem(t *testing.T) {
	c := testContext()
	env := setup(t, c, productsSeed)
	defer teardown(t, env)

	userId := uuid.New()
	cart, err := env.service.AddItem(c, userId, request.AddCartItem{
		ProductVariationId: variationOnSale,
		Quantity:           2,
	})
	require.NoError(t, err)
	require.True(t, cart.CartItems[0].Price.Equal(decimal.RequireFromString("15.00")))
	itemId := cart.CartItems[0].ID

	t.Run("picks up a sale price changed after the add", func(t *testing.T) {
		_, err := env.pool.Exec(
			c,
			"UPDATE product_variations SET sale_price = 12.50 WHERE id = $1",
			variationOnSale,
		)
		require.NoError(t, err)

		cart, err := env.service.UpdateItem(c, userId, request.UpdateCartItem{
			CartItemId: itemId,
			Quantity:   3,
		})
		require.NoError(t, err)
		require.Len(t, cart.CartItems, 1)
		assert.True(t, cart.CartItems[0].Price.Equal(decimal.RequireFromString("12.50")))
		assert.True(t, cart.TotalAmount.Equal(decimal.RequireFromString("37.50")))
	})

	t.Run("falls back to the base price when the sale ends", func(t *testing.T) {
		_, err := env.pool.Exec(
			c,
			"UPDATE product_variations SET sale_price = NULL WHERE id = $1",
			variationOnSale,
		)
		require.NoError(t, err)

		cart, err := env.service.UpdateItem(c, userId, request.UpdateCartItem{
			CartItemId: itemId,
			Quantity:   2,
		})
		require.NoError(t, err)
		assert.True(t, cart.CartItems[0].Price.Equal(decimal.RequireFromString("20.00")))
		assert.True(t, cart.TotalAmount.Equal(decimal.RequireFromString("40.00")))
	})
}

func TestAddItemConcurrentCartCreation(t *testing.T) {
	c := testContext()
	env := setup(t, c, productsSeed)
	defer teardown(t, env)

	userId := uuid.New()
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.service.AddItem(c, userId, request.AddCartItem{
				ProductVariationId: variationOnSale,
				Quantity:           1,
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoErrorf(t, err, "add %d should join the single active cart", i)
	}

	cart, err := env.service.FindCart(c, userId)
	require.NoError(t, err)
	require.Len(t, cart.CartItems, 1)
	assert.EqualValues(t, 2, cart.CartItems[0].Quantity)
	assert.EqualValues(t, 2, cart.TotalItems)

	variation, err := env.queries.FindVariationById(c, variationOnSale)
	require.NoError(t, err)
	assert.EqualValues(t, 98, variation.Stock)
}
