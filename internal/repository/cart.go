package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const cartColumns = `id, user_id, status, total_amount, total_items, last_activity, created_at, updated_at`

const cartItemColumns = `id, cart_id, product_variation_id, product_id, quantity, price, created_at, updated_at`

func scanCart(row interface{ Scan(dest ...interface{}) error }) (Cart, error) {
	var ca Cart
	err := row.Scan(
		&ca.ID,
		&ca.UserID,
		&ca.Status,
		&ca.TotalAmount,
		&ca.TotalItems,
		&ca.LastActivity,
		&ca.CreatedAt,
		&ca.UpdatedAt,
	)
	return ca, err
}

func scanCartItem(row interface{ Scan(dest ...interface{}) error }) (CartItem, error) {
	var ci CartItem
	err := row.Scan(
		&ci.ID,
		&ci.CartID,
		&ci.ProductVariationID,
		&ci.ProductID,
		&ci.Quantity,
		&ci.Price,
		&ci.CreatedAt,
		&ci.UpdatedAt,
	)
	return ci, err
}

const findActiveCartByUserId = `
SELECT ` + cartColumns + ` FROM carts WHERE user_id = $1 AND status = 'ACTIVE'`

func (q *Queries) FindActiveCartByUserId(c context.Context, userID uuid.UUID) (Cart, error) {
	return scanCart(q.db.QueryRow(c, findActiveCartByUserId, userID))
}

const findCartById = `SELECT ` + cartColumns + ` FROM carts WHERE id = $1`

func (q *Queries) FindCartById(c context.Context, id uuid.UUID) (Cart, error) {
	return scanCart(q.db.QueryRow(c, findCartById, id))
}

// insertCart relies on the partial unique index on (user_id) WHERE status =
// 'ACTIVE'. On conflict no row is returned and the caller re-reads the
// existing active cart, so losing the insert race never aborts a transaction.
const insertCart = `
INSERT INTO carts (id, user_id) VALUES ($1, $2)
ON CONFLICT (user_id) WHERE status = 'ACTIVE' DO NOTHING
RETURNING ` + cartColumns

type InsertCartParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) InsertCart(c context.Context, arg InsertCartParams) (Cart, error) {
	return scanCart(q.db.QueryRow(c, insertCart, arg.ID, arg.UserID))
}

const findCartItems = `
SELECT ` + cartItemColumns + ` FROM cart_items WHERE cart_id = $1 ORDER BY created_at`

func (q *Queries) FindCartItems(c context.Context, cartID uuid.UUID) ([]CartItem, error) {
	rows, err := q.db.Query(c, findCartItems, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

const findCartItemById = `SELECT ` + cartItemColumns + ` FROM cart_items WHERE id = $1`

func (q *Queries) FindCartItemById(c context.Context, id uuid.UUID) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(c, findCartItemById, id))
}

// UpsertCartItem keeps at most one row per (cart, variation) pair; adding the
// same variation again increments the existing row and refreshes its price
// snapshot.
const upsertCartItem = `
INSERT INTO cart_items (id, cart_id, product_variation_id, product_id, quantity, price)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (cart_id, product_variation_id) DO UPDATE
SET quantity = cart_items.quantity + EXCLUDED.quantity,
    price = EXCLUDED.price,
    updated_at = now()
RETURNING ` + cartItemColumns

type UpsertCartItemParams struct {
	ID                 uuid.UUID
	CartID             uuid.UUID
	ProductVariationID uuid.UUID
	ProductID          uuid.UUID
	Quantity           int32
	Price              pgtype.Numeric
}

func (q *Queries) UpsertCartItem(c context.Context, arg UpsertCartItemParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(
		c,
		upsertCartItem,
		arg.ID,
		arg.CartID,
		arg.ProductVariationID,
		arg.ProductID,
		arg.Quantity,
		arg.Price,
	))
}

const updateCartItem = `
UPDATE cart_items
SET quantity = $2, price = $3, updated_at = now()
WHERE id = $1
RETURNING ` + cartItemColumns

type UpdateCartItemParams struct {
	ID       uuid.UUID
	Quantity int32
	Price    pgtype.Numeric
}

func (q *Queries) UpdateCartItem(c context.Context, arg UpdateCartItemParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(c, updateCartItem, arg.ID, arg.Quantity, arg.Price))
}

const deleteCartItem = `DELETE FROM cart_items WHERE id = $1`

func (q *Queries) DeleteCartItem(c context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(c, deleteCartItem, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteCartItems = `DELETE FROM cart_items WHERE cart_id = $1`

func (q *Queries) DeleteCartItems(c context.Context, cartID uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(c, deleteCartItems, cartID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RefreshCartItemPrices re-prices every remaining item in the cart to its
// variation's current effective price.
const refreshCartItemPrices = `
UPDATE cart_items ci
SET price = CASE
        WHEN v.sale_price IS NOT NULL AND v.sale_price > 0 THEN v.sale_price
        ELSE v.price
    END,
    updated_at = now()
FROM product_variations v
WHERE ci.product_variation_id = v.id AND ci.cart_id = $1`

func (q *Queries) RefreshCartItemPrices(c context.Context, cartID uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(c, refreshCartItemPrices, cartID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpdateCartTotals derives total_items and total_amount from the item rows so
// the aggregate can never drift from its source rows.
const updateCartTotals = `
UPDATE carts
SET total_items = COALESCE((SELECT SUM(quantity) FROM cart_items WHERE cart_id = $1), 0),
    total_amount = COALESCE((SELECT SUM(price * quantity) FROM cart_items WHERE cart_id = $1), 0),
    last_activity = now(),
    updated_at = now()
WHERE id = $1
RETURNING ` + cartColumns

func (q *Queries) UpdateCartTotals(c context.Context, cartID uuid.UUID) (Cart, error) {
	return scanCart(q.db.QueryRow(c, updateCartTotals, cartID))
}

const updateCartStatus = `
UPDATE carts SET status = $2, updated_at = now() WHERE id = $1 RETURNING ` + cartColumns

type UpdateCartStatusParams struct {
	ID     uuid.UUID
	Status CartStatus
}

func (q *Queries) UpdateCartStatus(c context.Context, arg UpdateCartStatusParams) (Cart, error) {
	return scanCart(q.db.QueryRow(c, updateCartStatus, arg.ID, arg.Status))
}
