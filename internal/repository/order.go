package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, user_id, status, total, payment_method, shipping_address, contact_info, created_at, updated_at`

const orderItemColumns = `id, order_id, product_variation_id, product_id, quantity, price, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...interface{}) error }) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Status,
		&o.Total,
		&o.PaymentMethod,
		&o.ShippingAddress,
		&o.ContactInfo,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

func scanOrderItem(row interface{ Scan(dest ...interface{}) error }) (OrderItem, error) {
	var oi OrderItem
	err := row.Scan(
		&oi.ID,
		&oi.OrderID,
		&oi.ProductVariationID,
		&oi.ProductID,
		&oi.Quantity,
		&oi.Price,
		&oi.CreatedAt,
		&oi.UpdatedAt,
	)
	return oi, err
}

const insertOrder = `
INSERT INTO orders (id, user_id, status, total, payment_method, shipping_address, contact_info)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + orderColumns

type InsertOrderParams struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Status          OrderStatus
	Total           pgtype.Numeric
	PaymentMethod   string
	ShippingAddress string
	ContactInfo     string
}

func (q *Queries) InsertOrder(c context.Context, arg InsertOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(
		c,
		insertOrder,
		arg.ID,
		arg.UserID,
		arg.Status,
		arg.Total,
		arg.PaymentMethod,
		arg.ShippingAddress,
		arg.ContactInfo,
	))
}

type InsertOrderItemsParams struct {
	ID                 uuid.UUID
	OrderID            uuid.UUID
	ProductVariationID uuid.UUID
	ProductID          uuid.UUID
	Quantity           int32
	Price              pgtype.Numeric
}

func (q *Queries) InsertOrderItems(c context.Context, arg []InsertOrderItemsParams) (int64, error) {
	return q.db.CopyFrom(
		c,
		pgx.Identifier{"order_items"},
		[]string{"id", "order_id", "product_variation_id", "product_id", "quantity", "price"},
		pgx.CopyFromSlice(len(arg), func(i int) ([]interface{}, error) {
			return []interface{}{
				arg[i].ID,
				arg[i].OrderID,
				arg[i].ProductVariationID,
				arg[i].ProductID,
				arg[i].Quantity,
				arg[i].Price,
			}, nil
		}),
	)
}

const findOrderById = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

func (q *Queries) FindOrderById(c context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(c, findOrderById, id))
}

const findOrdersByUserId = `
SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

func (q *Queries) FindOrdersByUserId(c context.Context, userID uuid.UUID) ([]Order, error) {
	rows, err := q.db.Query(c, findOrdersByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const findOrderItems = `
SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY created_at`

func (q *Queries) FindOrderItems(c context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(c, findOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderItem{}
	for rows.Next() {
		oi, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, oi)
	}
	return items, rows.Err()
}

// UpdateOrder applies any subset of the mutable order fields; NULL parameters
// leave the column untouched.
const updateOrder = `
UPDATE orders
SET status = COALESCE($2::order_status, status),
    total = COALESCE($3, total),
    payment_method = COALESCE($4, payment_method),
    shipping_address = COALESCE($5, shipping_address),
    contact_info = COALESCE($6, contact_info),
    updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

type UpdateOrderParams struct {
	ID              uuid.UUID
	Status          pgtype.Text
	Total           pgtype.Numeric
	PaymentMethod   pgtype.Text
	ShippingAddress pgtype.Text
	ContactInfo     pgtype.Text
}

func (q *Queries) UpdateOrder(c context.Context, arg UpdateOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(
		c,
		updateOrder,
		arg.ID,
		arg.Status,
		arg.Total,
		arg.PaymentMethod,
		arg.ShippingAddress,
		arg.ContactInfo,
	))
}

const deleteOrder = `DELETE FROM orders WHERE id = $1`

func (q *Queries) DeleteOrder(c context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(c, deleteOrder, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
