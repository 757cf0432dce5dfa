package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"

	inErrors "github.com/wicaksono/storefront/internal/errors"
	"github.com/wicaksono/storefront/internal/log"
	"github.com/wicaksono/storefront/internal/payment"
	"github.com/wicaksono/storefront/internal/repository"
	"github.com/wicaksono/storefront/order/otel"
	"github.com/wicaksono/storefront/order/pkg/request"
	"github.com/wicaksono/storefront/order/pkg/response"
)

const (
	keyOrderById    = "orders:%s"
	keyCartByUser   = "carts:user:%s"
	keyOrdersByUser = "orders:user:%s"
)

type OrderService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
	charger payment.Charger
}

func NewOrderService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
	charger payment.Charger,
) *OrderService {
	return &OrderService{pool: pool, queries: queries, cache: cache, charger: charger}
}

// CheckoutCart converts the caller's cart into an order as one all-or-nothing
// sequence: validate the cart, re-check the ledger, charge payment, snapshot
// line items, and clear the cart. Stock was already reserved when the items
// entered the cart, so no second decrement happens here.
func (s *OrderService) CheckoutCart(
	c context.Context,
	userID uuid.UUID,
	param request.CheckoutCart,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService CheckoutCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService CheckoutCart").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyCartID, param.CartId.String()).
		Str(log.KeyPaymentMethod, param.PaymentMethod).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("initialized transaction")
	defer rollback(c, tx, span, logger)

	q := s.queries.WithTx(tx)

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	cart, err := q.FindCartById(c, param.CartId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrInvalidCart
		}
		err = fmt.Errorf("failed finding cartId=%s with error=%w", param.CartId.String(), err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
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
		return response.Order{}, err
	}
	if cart.Status != repository.CartStatusActive {
		err = fmt.Errorf("cartId=%s is not active with error=%w", cart.ID.String(), inErrors.ErrInvalidCart)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("found cart")

	logger = logger.With().Str(log.KeyProcess, "finding cart items").Logger()
	logger.Info().Msg("finding cart items")
	items, err := q.FindCartItems(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	if len(items) == 0 {
		err = fmt.Errorf("cartId=%s is empty with error=%w", cart.ID.String(), inErrors.ErrInvalidCart)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msgf("found %d cart items", len(items))

	logger = logger.With().Str(log.KeyProcess, "re-validating ledger").Logger()
	logger.Info().Msg("re-validating ledger")
	for _, item := range items {
		variation, err := q.FindVariationById(c, item.ProductVariationID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = inErrors.ErrVariationNotFound
			}
			err = fmt.Errorf(
				"failed re-validating variationId=%s with error=%w",
				item.ProductVariationID.String(),
				err,
			)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		if variation.Stock < 0 {
			err = fmt.Errorf(
				"variationId=%s ledger went negative with error=%w",
				variation.ID.String(),
				inErrors.ErrInsufficientStock,
			)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
	}
	logger.Info().Msg("re-validated ledger")

	logger = logger.With().Str(log.KeyProcess, "recomputing totals").Logger()
	logger.Info().Msg("recomputing totals")
	_, err = q.RefreshCartItemPrices(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed refreshing cart item prices with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	cart, err = q.UpdateCartTotals(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed updating cart totals with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	items, err = q.FindCartItems(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed finding refreshed cart items with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	total := repository.DecimalFromNumeric(cart.TotalAmount)
	logger = logger.With().Str(log.KeyTotalAmount, total.String()).Logger()
	logger.Info().Msg("recomputed totals")

	logger = logger.With().Str(log.KeyProcess, "charging payment").Logger()
	logger.Info().Msg("charging payment")
	err = s.charger.Charge(c, total, param.PaymentMethod)
	if err != nil {
		err = fmt.Errorf("failed charging payment with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("charged payment")

	logger = logger.With().Str(log.KeyProcess, "inserting order").Logger()
	logger.Info().Msg("inserting order")
	order, err := q.InsertOrder(c, repository.InsertOrderParams{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          repository.OrderStatusPending,
		Total:           cart.TotalAmount,
		PaymentMethod:   param.PaymentMethod,
		ShippingAddress: param.ShippingAddress,
		ContactInfo:     param.ContactInfo,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger = logger.With().Str(log.KeyOrderID, order.ID.String()).Logger()
	logger.Info().Msg("inserted order")

	logger = logger.With().Str(log.KeyProcess, "inserting order items").Logger()
	logger.Info().Msg("inserting order items")
	args := make([]repository.InsertOrderItemsParams, len(items))
	for i, item := range items {
		args[i] = repository.InsertOrderItemsParams{
			ID:                 uuid.New(),
			OrderID:            order.ID,
			ProductVariationID: item.ProductVariationID,
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			Price:              item.Price,
		}
	}
	insertedCount, err := q.InsertOrderItems(c, args)
	if err != nil {
		err = fmt.Errorf("failed inserting order items with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msgf("inserted %d order items", insertedCount)

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	_, err = q.DeleteCartItems(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed deleting cart items with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	_, err = q.UpdateCartTotals(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed zeroing cart totals with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	_, err = q.UpdateCartStatus(c, repository.UpdateCartStatusParams{
		ID:     cart.ID,
		Status: repository.CartStatusCompleted,
	})
	if err != nil {
		err = fmt.Errorf("failed completing cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("cleared cart")

	logger = logger.With().Str(log.KeyProcess, "loading order items").Logger()
	orderItems, err := q.FindOrderItems(c, order.ID)
	if err != nil {
		err = fmt.Errorf("failed loading order items with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("committed transaction")

	s.invalidateCaches(c, userID, order.ID)
	return order.Response(orderItems), nil
}

// BuyNow creates a single-line order without touching any cart. Stock is
// consumed once, by the conditional decrement, after payment is accepted.
func (s *OrderService) BuyNow(
	c context.Context,
	userID uuid.UUID,
	param request.BuyNow,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService BuyNow")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService BuyNow").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyVariationID, param.ProductVariationId.String()).
		Int32(log.KeyQuantity, param.Quantity).
		Str(log.KeyPaymentMethod, param.PaymentMethod).
		Logger()

	if param.Quantity < 1 {
		err := fmt.Errorf(
			"failed buying quantity=%d with error=%w",
			param.Quantity,
			inErrors.ErrInvalidQuantity,
		)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("initialized transaction")
	defer rollback(c, tx, span, logger)

	q := s.queries.WithTx(tx)

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
		return response.Order{}, err
	}
	if variation.Stock < param.Quantity {
		err = fmt.Errorf(
			"variationId=%s stock=%d below quantity=%d with error=%w",
			variation.ID.String(),
			variation.Stock,
			param.Quantity,
			inErrors.ErrInsufficientStock,
		)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("found variation")

	price := variation.EffectivePrice()
	total := price.Mul(decimalFromInt32(param.Quantity))
	logger = logger.With().
		Str(log.KeyPrice, price.String()).
		Str(log.KeyTotalAmount, total.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "charging payment").Logger()
	logger.Info().Msg("charging payment")
	err = s.charger.Charge(c, total, param.PaymentMethod)
	if err != nil {
		err = fmt.Errorf("failed charging payment with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("charged payment")

	logger = logger.With().Str(log.KeyProcess, "consuming stock").Logger()
	logger.Info().Msg("consuming stock")
	_, err = q.DecreaseVariationStock(c, repository.AdjustVariationStockParams{
		ID:       variation.ID,
		Quantity: param.Quantity,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrInsufficientStock
		}
		err = fmt.Errorf(
			"failed consuming stock=%d for variationId=%s with error=%w",
			param.Quantity,
			variation.ID.String(),
			err,
		)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("consumed stock")

	logger = logger.With().Str(log.KeyProcess, "inserting order").Logger()
	logger.Info().Msg("inserting order")
	order, err := q.InsertOrder(c, repository.InsertOrderParams{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          repository.OrderStatusPending,
		Total:           repository.NumericFromDecimal(total),
		PaymentMethod:   param.PaymentMethod,
		ShippingAddress: param.ShippingAddress,
		ContactInfo:     param.ContactInfo,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	_, err = q.InsertOrderItems(c, []repository.InsertOrderItemsParams{{
		ID:                 uuid.New(),
		OrderID:            order.ID,
		ProductVariationID: variation.ID,
		ProductID:          variation.ProductID,
		Quantity:           param.Quantity,
		Price:              repository.NumericFromDecimal(price),
	}})
	if err != nil {
		err = fmt.Errorf("failed inserting order item with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	orderItems, err := q.FindOrderItems(c, order.ID)
	if err != nil {
		err = fmt.Errorf("failed loading order items with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger = logger.With().Str(log.KeyOrderID, order.ID.String()).Logger()
	logger.Info().Msg("inserted order")

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("committed transaction")

	s.invalidateCaches(c, userID, order.ID)
	return order.Response(orderItems), nil
}

func (s *OrderService) FindOrderById(
	c context.Context,
	userID uuid.UUID,
	orderID uuid.UUID,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderById")
	defer span.End()

	cacheKey := fmt.Sprintf(keyOrderById, orderID.String())
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrderById").
		Str(log.KeyOrderID, orderID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding order in cache").Logger()
	logger.Info().Msg("finding order in cache")
	jsonString, err := s.cache.Get(c, cacheKey).Result()
	if err == nil {
		order := response.Order{}
		err = json.Unmarshal([]byte(jsonString), &order)
		if err == nil && order.UserId == userID {
			logger.Info().Msg("found order in cache")
			return order, nil
		}
		logger.Info().Msg("cached order unusable, falling back to db")
	}

	logger = logger.With().Str(log.KeyProcess, "finding order in db").Logger()
	logger.Info().Msg("finding order in db")
	order, err := s.queries.FindOrderById(c, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrOrderNotFound
		}
		err = fmt.Errorf("failed finding orderId=%s with error=%w", orderID.String(), err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	if order.UserID != userID {
		err = fmt.Errorf(
			"orderId=%s does not belong to userId=%s with error=%w",
			orderID.String(),
			userID.String(),
			inErrors.ErrUnauthorized,
		)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	items, err := s.queries.FindOrderItems(c, orderID)
	if err != nil {
		err = fmt.Errorf("failed finding order items with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	hydrated := order.Response(items)
	logger.Info().Msg("found order in db")

	logger = logger.With().Str(log.KeyProcess, "inserting order to cache").Logger()
	orderJson, err := json.Marshal(hydrated)
	if err == nil {
		err = s.cache.Set(c, cacheKey, orderJson, time.Hour).Err()
	}
	if err != nil {
		logger.Info().Err(err).Msg("failed inserting order to cache")
	}

	return hydrated, nil
}

func (s *OrderService) FindOrders(c context.Context, userID uuid.UUID) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrders").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProcess, "finding orders").
		Logger()

	logger.Info().Msg("finding orders")
	orders, err := s.queries.FindOrdersByUserId(c, userID)
	if err != nil {
		err = fmt.Errorf("failed finding orders for userId=%s with error=%w", userID.String(), err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	responses := make([]response.Order, 0, len(orders))
	for _, order := range orders {
		items, err := s.queries.FindOrderItems(c, order.ID)
		if err != nil {
			err = fmt.Errorf(
				"failed finding items for orderId=%s with error=%w",
				order.ID.String(),
				err,
			)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		responses = append(responses, order.Response(items))
	}
	logger.Info().Msgf("found %d orders", len(responses))

	return responses, nil
}

// UpdateOrder applies a partial patch. Status changes are validated against
// the lifecycle table; cancelling an unshipped order releases its stock.
func (s *OrderService) UpdateOrder(
	c context.Context,
	orderID uuid.UUID,
	param request.UpdateOrder,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService UpdateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService UpdateOrder").
		Str(log.KeyOrderID, orderID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("initialized transaction")
	defer rollback(c, tx, span, logger)

	q := s.queries.WithTx(tx)

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	logger.Info().Msg("finding order")
	order, err := q.FindOrderById(c, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrOrderNotFound
		}
		err = fmt.Errorf("failed finding orderId=%s with error=%w", orderID.String(), err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("found order")

	arg := repository.UpdateOrderParams{ID: orderID}
	if param.Status != nil {
		next := repository.OrderStatus(*param.Status)
		logger = logger.With().
			Str(log.KeyOrderStatus, string(next)).
			Str(log.KeyProcess, "validating status transition").
			Logger()
		logger.Info().Msg("validating status transition")
		if !next.Valid() || !order.Status.CanTransitionTo(next) {
			err = fmt.Errorf(
				"transition %s -> %s with error=%w",
				order.Status,
				next,
				inErrors.ErrInvalidStatusTransition,
			)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		if next == repository.OrderStatusCancelled {
			logger = logger.With().Str(log.KeyProcess, "releasing cancelled stock").Logger()
			logger.Info().Msg("releasing cancelled stock")
			items, err := q.FindOrderItems(c, orderID)
			if err != nil {
				err = fmt.Errorf("failed finding order items with error=%w", err)
				inErrors.HandleError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				return response.Order{}, err
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
					return response.Order{}, err
				}
			}
			logger.Info().Msg("released cancelled stock")
		}
		arg.Status = pgtype.Text{String: *param.Status, Valid: true}
	}
	if param.Total != nil {
		arg.Total = repository.NumericFromDecimal(*param.Total)
	}
	if param.PaymentMethod != nil {
		arg.PaymentMethod = pgtype.Text{String: *param.PaymentMethod, Valid: true}
	}
	if param.ShippingAddress != nil {
		arg.ShippingAddress = pgtype.Text{String: *param.ShippingAddress, Valid: true}
	}
	if param.ContactInfo != nil {
		arg.ContactInfo = pgtype.Text{String: *param.ContactInfo, Valid: true}
	}

	logger = logger.With().Str(log.KeyProcess, "updating order").Logger()
	logger.Info().Msg("updating order")
	updated, err := q.UpdateOrder(c, arg)
	if err != nil {
		err = fmt.Errorf("failed updating orderId=%s with error=%w", orderID.String(), err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	items, err := q.FindOrderItems(c, orderID)
	if err != nil {
		err = fmt.Errorf("failed finding order items with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("updated order")

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("committed transaction")

	s.invalidateCaches(c, updated.UserID, orderID)
	return updated.Response(items), nil
}

// DeleteOrder hard-deletes an order. The caller gets a boolean success flag
// instead of an error for persistence-level failures.
func (s *OrderService) DeleteOrder(c context.Context, orderID uuid.UUID) bool {
	c, span := otel.Tracer.Start(c, "OrderService DeleteOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService DeleteOrder").
		Str(log.KeyOrderID, orderID.String()).
		Str(log.KeyProcess, "deleting order").
		Logger()

	logger.Info().Msg("deleting order")
	deleted, err := s.queries.DeleteOrder(c, orderID)
	if err != nil {
		err = fmt.Errorf("failed deleting orderId=%s with error=%w", orderID.String(), err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false
	}
	if deleted == 0 {
		logger.Info().Msg("order not found, nothing deleted")
		return false
	}
	logger.Info().Msg("deleted order")

	err = s.cache.Del(c, fmt.Sprintf(keyOrderById, orderID.String())).Err()
	if err != nil {
		logger.Info().Err(err).Msg("failed deleting order from cache")
	}
	return true
}

func (s *OrderService) invalidateCaches(c context.Context, userID uuid.UUID, orderID uuid.UUID) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService invalidateCaches").
		Logger()
	err := s.cache.Del(
		c,
		fmt.Sprintf(keyOrderById, orderID.String()),
		fmt.Sprintf(keyOrdersByUser, userID.String()),
		fmt.Sprintf(keyCartByUser, userID.String()),
	).Err()
	if err != nil {
		logger.Info().Err(err).Msg("failed invalidating caches")
	}
}

func decimalFromInt32(n int32) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
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
