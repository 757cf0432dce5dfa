package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const productColumns = `id, name, description, created_at, updated_at`

const variationColumns = `id, product_id, size, color, price, sale_price, stock, images, created_at, updated_at`

func scanProduct(row interface{ Scan(dest ...interface{}) error }) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanVariation(row interface{ Scan(dest ...interface{}) error }) (ProductVariation, error) {
	var v ProductVariation
	err := row.Scan(
		&v.ID,
		&v.ProductID,
		&v.Size,
		&v.Color,
		&v.Price,
		&v.SalePrice,
		&v.Stock,
		&v.Images,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	return v, err
}

const findProducts = `SELECT ` + productColumns + ` FROM products ORDER BY created_at`

func (q *Queries) FindProducts(c context.Context) ([]Product, error) {
	rows, err := q.db.Query(c, findProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

const findProductById = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

func (q *Queries) FindProductById(c context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(c, findProductById, id))
}

const insertProduct = `
INSERT INTO products (id, name, description)
VALUES ($1, $2, $3)
RETURNING ` + productColumns

type InsertProductParams struct {
	ID          uuid.UUID
	Name        string
	Description string
}

func (q *Queries) InsertProduct(c context.Context, arg InsertProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(c, insertProduct, arg.ID, arg.Name, arg.Description))
}

const findVariationById = `SELECT ` + variationColumns + ` FROM product_variations WHERE id = $1`

func (q *Queries) FindVariationById(c context.Context, id uuid.UUID) (ProductVariation, error) {
	return scanVariation(q.db.QueryRow(c, findVariationById, id))
}

const findVariationsByProductId = `
SELECT ` + variationColumns + ` FROM product_variations WHERE product_id = $1 ORDER BY created_at`

func (q *Queries) FindVariationsByProductId(
	c context.Context,
	productID uuid.UUID,
) ([]ProductVariation, error) {
	rows, err := q.db.Query(c, findVariationsByProductId, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	variations := []ProductVariation{}
	for rows.Next() {
		v, err := scanVariation(rows)
		if err != nil {
			return nil, err
		}
		variations = append(variations, v)
	}
	return variations, rows.Err()
}

const insertProductVariation = `
INSERT INTO product_variations (id, product_id, size, color, price, sale_price, stock, images)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + variationColumns

type InsertProductVariationParams struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Size      string
	Color     string
	Price     pgtype.Numeric
	SalePrice pgtype.Numeric
	Stock     int32
	Images    []string
}

func (q *Queries) InsertProductVariation(
	c context.Context,
	arg InsertProductVariationParams,
) (ProductVariation, error) {
	return scanVariation(q.db.QueryRow(
		c,
		insertProductVariation,
		arg.ID,
		arg.ProductID,
		arg.Size,
		arg.Color,
		arg.Price,
		arg.SalePrice,
		arg.Stock,
		arg.Images,
	))
}

// DecreaseVariationStock reserves or consumes stock with a conditional update
// so that concurrent reservations of the last unit cannot both commit. A
// pgx.ErrNoRows result means the remaining stock was smaller than quantity.
const decreaseVariationStock = `
UPDATE product_variations
SET stock = stock - $2, updated_at = now()
WHERE id = $1 AND stock >= $2
RETURNING ` + variationColumns

type AdjustVariationStockParams struct {
	ID       uuid.UUID
	Quantity int32
}

func (q *Queries) DecreaseVariationStock(
	c context.Context,
	arg AdjustVariationStockParams,
) (ProductVariation, error) {
	return scanVariation(q.db.QueryRow(c, decreaseVariationStock, arg.ID, arg.Quantity))
}

// IncreaseVariationStock releases reserved stock. Releases are unconditional
// and never fail on the stock side.
const increaseVariationStock = `
UPDATE product_variations
SET stock = stock + $2, updated_at = now()
WHERE id = $1
RETURNING ` + variationColumns

func (q *Queries) IncreaseVariationStock(
	c context.Context,
	arg AdjustVariationStockParams,
) (ProductVariation, error) {
	return scanVariation(q.db.QueryRow(c, increaseVariationStock, arg.ID, arg.Quantity))
}
