package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/wicaksono/storefront/cart/otel"
	"github.com/wicaksono/storefront/cart/pkg/request"
	"github.com/wicaksono/storefront/cart/pkg/response"
	inErrors "github.com/wicaksono/storefront/internal/errors"
	"github.com/wicaksono/storefront/internal/log"
	"github.com/wicaksono/storefront/internal/repository"
)

const keyCartByUser = "carts:user:%s"

type CartService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
}

func NewCartService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
) *CartService {
	return &CartService{pool: pool, queries: queries, cache: cache}
}

// AddItem reserves stock for the requested quantity and adds it to the
// caller's active cart as one transaction. A cart is created transparently
// when the caller has none.
func (s *CartService) AddItem(
	c context.Context,
	userID uuid.UUID,
	param request.AddCartItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyVariationID, param.ProductVariationId.String()).
		Int32(log.KeyQuantity, param.Quantity).
		Logger()

	if param.Quantity < 1 {
		err := fmt.Errorf(
			"failed adding quantity=%d with error=%w",
			param.Quantity,
			inErrors.ErrInvalidQuantity,
		)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("initialized transaction")
	defer rollback(c, tx, span, logger)

	q := s.queries.WithTx(tx)

	logger = logger.With().Str(log.KeyProcess, "finding active cart").Logger()
	logger.Info().Msg("finding active cart")
	cart, err := getOrCreateCart(c, q, userID)
	if err != nil {
		err = fmt.Errorf("failed finding active cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger = logger.With().Str(log.KeyCartID, cart.ID.String()).Logger()
	logger.Info().Msg("found active cart")

	logger = logger.With().Str(log.KeyProcess, "finding variation").Logger()
	logger.Info().Msg("finding variation")
	variation, err := q.FindVariationById(c, param.ProductVariationId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrVariationNotFound
		}
		err = fmt.Errorf(
			"failed finding variationId=%s with error=%w",
			param.ProductVariationId.String(),
			err,
		)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger = logger.With().Int32(log.KeyStock, variation.Stock).Logger()
	logger.Info().Msg("found variation")

	logger = logger.With().Str(log.KeyProcess, "reserving stock").Logger()
	logger.Info().Msg("reserving stock")
	_, err = q.DecreaseVariationStock(c, repository.AdjustVariationStockParams{
		ID:       variation.ID,
		Quantity: param.Quantity,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrInsufficientStock
		}
		err = fmt.Errorf(
			"failed reserving stock=%d for variationId=%s with error=%w",
			param.Quantity,
			variation.ID.String(),
			err,
		)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("reserved stock")

	price := variation.EffectivePrice()
	logger = logger.With().
		Str(log.KeyProcess, "upserting cart item").
		Str(log.KeyPrice, price.String()).
		Logger()
	logger.Info().Msg("upserting cart item")
	_, err = q.UpsertCartItem(c, repository.UpsertCartItemParams{
		ID:                 uuid.New(),
		CartID:             cart.ID,
		ProductVariationID: variation.ID,
		ProductID:          variation.ProductID,
		Quantity:           param.Quantity,
		Price:              repository.NumericFromDecimal(price),
	})
	if err != nil {
		err = fmt.Errorf("failed upserting cart item with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("upserted cart item")

	hydrated, err := s.refreshAndHydrate(c, q, cart.ID, span, logger)
	if err != nil {
		return response.Cart{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("committed transaction")

	s.invalidateCache(c, userID)
	return hydrated, nil
}

// UpdateItem changes an item's quantity. Driving the quantity to zero or
// below removes the item and releases its whole reservation; growing it
// reserves only the difference.
func (s *CartService) UpdateItem(
	c context.Context,
	userID uuid.UUID,
	param request.UpdateCartItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateItem").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyCartItemID, param.CartItemId.String()).
		Int32(log.KeyQuantity, param.Quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("initialized transaction")
	defer rollback(c, tx, span, logger)

	q := s.queries.WithTx(tx)

	item, cart, err := s.findOwnedItem(c, q, userID, param.CartItemId, span, logger)
	if err != nil {
		return response.Cart{}, err
	}

	if param.Quantity <= 0 {
		logger = logger.With().Str(log.KeyProcess, "removing item on zero quantity").Logger()
		logger.Info().Msg("releasing reservation and removing item")
		_, err = q.IncreaseVariationStock(c, repository.AdjustVariationStockParams{
			ID:       item.ProductVariationID,
			Quantity: item.Quantity,
		})
		if err != nil {
			err = fmt.Errorf("failed releasing stock with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		_, err = q.DeleteCartItem(c, item.ID)
		if err != nil {
			err = fmt.Errorf("failed deleting cart item with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		logger.Info().Msg("released reservation and removed item")
	} else {
		diff := param.Quantity - item.Quantity
		logger = logger.With().
			Str(log.KeyProcess, "adjusting reservation").
			Int32("diff", diff).
			Logger()
		logger.Info().Msg("adjusting reservation")
		if diff > 0 {
			_, err = q.DecreaseVariationStock(c, repository.AdjustVariationStockParams{
				ID:       item.ProductVariationID,
				Quantity: diff,
			})
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					err = inErrors.ErrInsufficientStock
				}
				err = fmt.Errorf("failed reserving additional stock=%d with error=%w", diff, err)
				inErrors.HandleError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				return response.Cart{}, err
			}
		} else if diff < 0 {
			_, err = q.IncreaseVariationStock(c, repository.AdjustVariationStockParams{
				ID:       item.ProductVariationID,
				Quantity: -diff,
			})
			if err != nil {
				err = fmt.Errorf("failed releasing stock=%d with error=%w", -diff, err)
				inErrors.HandleError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				return response.Cart{}, err
			}
		}
		logger.Info().Msg("adjusted reservation")

		variation, err := q.FindVariationById(c, item.ProductVariationID)
		if err != nil {
			err = fmt.Errorf("failed finding variation with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		logger = logger.With().Str(log.KeyProcess, "updating cart item").Logger()
		logger.Info().Msg("updating cart item")
		_, err = q.UpdateCartItem(c, repository.UpdateCartItemParams{
			ID:       item.ID,
			Quantity: param.Quantity,
			Price:    repository.NumericFromDecimal(variation.EffectivePrice()),
		})
		if err != nil {
			err = fmt.Errorf("failed updating cart item with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		logger.Info().Msg("updated cart item")
	}

	hydrated, err := s.refreshAndHydrate(c, q, cart.ID, span, logger)
	if err != nil {
		return response.Cart{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("committed transaction")

	s.invalidateCache(c, userID)
	return hydrated, nil
}

// RemoveItem deletes a cart item and releases its whole reservation.
func (s *CartService) RemoveItem(
	c context.Context,
	userID uuid.UUID,
	cartItemID uuid.UUID,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyCartItemID, cartItemID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("initialized transaction")
	defer rollback(c, tx, span, logger)

	q := s.queries.WithTx(tx)

	item, cart, err := s.findOwnedItem(c, q, userID, cartItemID, span, logger)
	if err != nil {
		return response.Cart{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "releasing reservation").Logger()
	logger.Info().Msg("releasing reservation")
	_, err = q.IncreaseVariationStock(c, repository.AdjustVariationStockParams{
		ID:       item.ProductVariationID,
		Quantity: item.Quantity,
	})
	if err != nil {
		err = fmt.Errorf("failed releasing stock with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("released reservation")

	logger = logger.With().Str(log.KeyProcess, "deleting cart item").Logger()
	logger.Info().Msg("deleting cart item")
	_, err = q.DeleteCartItem(c, item.ID)
	if err != nil {
		err = fmt.Errorf("failed deleting cart item with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("deleted cart item")

	hydrated, err := s.refreshAndHydrate(c, q, cart.ID, span, logger)
	if err != nil {
		return response.Cart{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("committed transaction")

	s.invalidateCache(c, userID)
	return hydrated, nil
}

// ClearCart releases every item's reservation and removes all items. Clearing
// is a release operation and never fails on the stock side.
func (s *CartService) ClearCart(c context.Context, userID uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ClearCart").
		Str(log.KeyUserID, userID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("initialized transaction")
	defer rollback(c, tx, span, logger)

	q := s.queries.WithTx(tx)

	logger = logger.With().Str(log.KeyProcess, "finding active cart").Logger()
	logger.Info().Msg("finding active cart")
	cart, err := q.FindActiveCartByUserId(c, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCartNotFound
		}
		err = fmt.Errorf("failed finding active cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger = logger.With().Str(log.KeyCartID, cart.ID.String()).Logger()
	logger.Info().Msg("found active cart")

	logger = logger.With().Str(log.KeyProcess, "releasing reservations").Logger()
	logger.Info().Msg("releasing reservations")
	items, err := q.FindCartItems(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	for _, item := range items {
		_, err = q.IncreaseVariationStock(c, repository.AdjustVariationStockParams{
			ID:       item.ProductVariationID,
			Quantity: item.Quantity,
		})
		if err != nil {
			err = fmt.Errorf(
				"failed releasing stock for variationId=%s with error=%w",
				item.ProductVariationID.String(),
				err,
			)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
	}
	logger.Info().Msgf("released reservations for %d items", len(items))

	logger = logger.With().Str(log.KeyProcess, "deleting cart items").Logger()
	logger.Info().Msg("deleting cart items")
	deleted, err := q.DeleteCartItems(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed deleting cart items with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msgf("deleted %d cart items", deleted)

	hydrated, err := s.refreshAndHydrate(c, q, cart.ID, span, logger)
	if err != nil {
		return response.Cart{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("committed transaction")

	s.invalidateCache(c, userID)
	return hydrated, nil
}

// FindCart returns the caller's active cart, creating an empty one when none
// exists. The read path never touches stock.
func (s *CartService) FindCart(c context.Context, userID uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCart")
	defer span.End()

	cacheKey := fmt.Sprintf(keyCartByUser, userID.String())
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService FindCart").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart in cache").Logger()
	logger.Info().Msg("finding cart in cache")
	jsonString, err := s.cache.Get(c, cacheKey).Result()
	if err == nil {
		cart := response.Cart{}
		err = json.Unmarshal([]byte(jsonString), &cart)
		if err == nil {
			logger.Info().Msg("found cart in cache")
			return cart, nil
		}
		logger.Info().Err(err).Msg("failed unmarshaling cached cart, falling back to db")
	}

	logger = logger.With().Str(log.KeyProcess, "finding cart in db").Logger()
	logger.Info().Msg("finding cart in db")
	cart, err := getOrCreateCart(c, s.queries, userID)
	if err != nil {
		err = fmt.Errorf("failed finding cart in db with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	items, err := s.queries.FindCartItems(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	hydrated := cart.Response(items)
	logger.Info().Msg("found cart in db")

	logger = logger.With().Str(log.KeyProcess, "inserting cart to cache").Logger()
	logger.Info().Msg("inserting cart to cache")
	cartJson, err := json.Marshal(hydrated)
	if err != nil {
		err = fmt.Errorf("failed marshaling cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	err = s.cache.Set(c, cacheKey, cartJson, time.Hour).Err()
	if err != nil {
		err = fmt.Errorf("failed inserting cart to cache with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("inserted cart to cache")

	return hydrated, nil
}

func getOrCreateCart(
	c context.Context,
	q *repository.Queries,
	userID uuid.UUID,
) (repository.Cart, error) {
	cart, err := q.FindActiveCartByUserId(c, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return repository.Cart{}, err
	}
	cart, err = q.InsertCart(c, repository.InsertCartParams{ID: uuid.New(), UserID: userID})
	if err == nil {
		return cart, nil
	}
	// No returned row means another request created the active cart between
	// the read and the insert. Read the winner's cart instead.
	if errors.Is(err, pgx.ErrNoRows) {
		return q.FindActiveCartByUserId(c, userID)
	}
	return repository.Cart{}, err
}

// refreshAndHydrate is the single funnel every mutating operation goes
// through: re-price remaining items, derive the totals from the rows, and
// return the fully hydrated cart.
func (s *CartService) refreshAndHydrate(
	c context.Context,
	q *repository.Queries,
	cartID uuid.UUID,
	span trace.Span,
	logger zerolog.Logger,
) (response.Cart, error) {
	logger = logger.With().Str(log.KeyProcess, "recomputing totals").Logger()
	logger.Info().Msg("recomputing totals")
	_, err := q.RefreshCartItemPrices(c, cartID)
	if err != nil {
		err = fmt.Errorf("failed refreshing cart item prices with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	cart, err := q.UpdateCartTotals(c, cartID)
	if err != nil {
		err = fmt.Errorf("failed updating cart totals with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	items, err := q.FindCartItems(c, cartID)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().
		Str(log.KeyTotalAmount, repository.DecimalFromNumeric(cart.TotalAmount).String()).
		Int32(log.KeyTotalItems, cart.TotalItems).
		Msg("recomputed totals")
	return cart.Response(items), nil
}

func (s *CartService) findOwnedItem(
	c context.Context,
	q *repository.Queries,
	userID uuid.UUID,
	cartItemID uuid.UUID,
	span trace.Span,
	logger zerolog.Logger,
) (repository.CartItem, repository.Cart, error) {
	logger = logger.With().Str(log.KeyProcess, "finding cart item").Logger()
	logger.Info().Msg("finding cart item")
	item, err := q.FindCartItemById(c, cartItemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCartItemNotFound
		}
		err = fmt.Errorf("failed finding cartItemId=%s with error=%w", cartItemID.String(), err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.CartItem{}, repository.Cart{}, err
	}
	cart, err := q.FindCartById(c, item.CartID)
	if err != nil {
		err = fmt.Errorf("failed finding cartId=%s with error=%w", item.CartID.String(), err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.CartItem{}, repository.Cart{}, err
	}
	if cart.UserID != userID {
		err = fmt.Errorf(
			"cartId=%s does not belong to userId=%s with error=%w",
			cart.ID.String(),
			userID.String(),
			inErrors.ErrUnauthorized,
		)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.CartItem{}, repository.Cart{}, err
	}
	logger.Info().Msg("found cart item")
	return item, cart, nil
}

func (s *CartService) invalidateCache(c context.Context, userID uuid.UUID) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService invalidateCache").
		Logger()
	err := s.cache.Del(c, fmt.Sprintf(keyCartByUser, userID.String())).Err()
	if err != nil {
		logger.Info().Err(err).Msg("failed deleting cart from cache")
	}
}

func rollback(c context.Context, tx pgx.Tx, span trace.Span, logger zerolog.Logger) {
	l := logger.With().Str(log.KeyProcess, "rolling back transaction").Logger()
	err := tx.Rollback(c)
	if err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return
		}
		err = fmt.Errorf("failed rolling back transaction with error=%w", err)
		inErrors.HandleError(err, span)
		l.Error().Err(err).Msg(err.Error())
		return
	}
	l.Info().Msg("rolled back transaction")
}
