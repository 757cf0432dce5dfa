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

	inErrors "github.com/wicaksono/storefront/internal/errors"
	"github.com/wicaksono/storefront/internal/log"
	"github.com/wicaksono/storefront/internal/repository"
	"github.com/wicaksono/storefront/product/otel"
	"github.com/wicaksono/storefront/product/pkg/request"
	"github.com/wicaksono/storefront/product/pkg/response"
)

const keyProductById = "products:%s"

type ProductService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
}

func NewProductService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
) *ProductService {
	return &ProductService{pool: pool, queries: queries, cache: cache}
}

func (s *ProductService) FindProducts(c context.Context) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProducts").
		Str(log.KeyProcess, "finding products").
		Logger()

	logger.Info().Msg("finding products")
	products, err := s.queries.FindProducts(c)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	responses := make([]response.Product, 0, len(products))
	for _, product := range products {
		variations, err := s.queries.FindVariationsByProductId(c, product.ID)
		if err != nil {
			err = fmt.Errorf(
				"failed finding variations for productId=%s with error=%w",
				product.ID.String(),
				err,
			)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		responses = append(responses, product.Response(variations))
	}
	logger.Info().Msgf("found %d products", len(responses))

	return responses, nil
}

func (s *ProductService) FindProductById(
	c context.Context,
	productID uuid.UUID,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	cacheKey := fmt.Sprintf(keyProductById, productID.String())
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductById").
		Str(log.KeyProductID, productID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product in cache").Logger()
	logger.Info().Msg("finding product in cache")
	jsonString, err := s.cache.Get(c, cacheKey).Result()
	if err == nil {
		product := response.Product{}
		err = json.Unmarshal([]byte(jsonString), &product)
		if err == nil {
			logger.Info().Msg("found product in cache")
			return product, nil
		}
		logger.Info().Msg("cached product unusable, falling back to db")
	}

	logger = logger.With().Str(log.KeyProcess, "finding product in db").Logger()
	logger.Info().Msg("finding product in db")
	product, err := s.queries.FindProductById(c, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrProductNotFound
		}
		err = fmt.Errorf("failed finding productId=%s with error=%w", productID.String(), err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	variations, err := s.queries.FindVariationsByProductId(c, productID)
	if err != nil {
		err = fmt.Errorf("failed finding variations with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	hydrated := product.Response(variations)
	logger.Info().Msg("found product in db")

	logger = logger.With().Str(log.KeyProcess, "inserting product to cache").Logger()
	productJson, err := json.Marshal(hydrated)
	if err == nil {
		err = s.cache.Set(c, cacheKey, productJson, time.Hour).Err()
	}
	if err != nil {
		logger.Info().Err(err).Msg("failed inserting product to cache")
	}

	return hydrated, nil
}

func (s *ProductService) FindVariationById(
	c context.Context,
	variationID uuid.UUID,
) (response.ProductVariation, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindVariationById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindVariationById").
		Str(log.KeyVariationID, variationID.String()).
		Str(log.KeyProcess, "finding variation").
		Logger()

	logger.Info().Msg("finding variation")
	variation, err := s.queries.FindVariationById(c, variationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrVariationNotFound
		}
		err = fmt.Errorf("failed finding variationId=%s with error=%w", variationID.String(), err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.ProductVariation{}, err
	}
	logger.Info().Msg("found variation")

	return variation.Response(), nil
}

// InsertProduct creates a product and all of its variations in one
// transaction so a half-written catalog entry never becomes visible.
func (s *ProductService) InsertProduct(
	c context.Context,
	param request.InsertProduct,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService InsertProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService InsertProduct").
		Str(log.KeyProductName, param.Name).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("initialized transaction")
	defer rollback(c, tx, span, logger)

	q := s.queries.WithTx(tx)

	logger = logger.With().Str(log.KeyProcess, "inserting product").Logger()
	logger.Info().Msg("inserting product")
	product, err := q.InsertProduct(c, repository.InsertProductParams{
		ID:          uuid.New(),
		Name:        param.Name,
		Description: param.Description,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting product with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger = logger.With().Str(log.KeyProductID, product.ID.String()).Logger()
	logger.Info().Msg("inserted product")

	logger = logger.With().Str(log.KeyProcess, "inserting variations").Logger()
	logger.Info().Msg("inserting variations")
	variations := make([]repository.ProductVariation, 0, len(param.Variations))
	for _, v := range param.Variations {
		arg := repository.InsertProductVariationParams{
			ID:        uuid.New(),
			ProductID: product.ID,
			Size:      v.Size,
			Color:     v.Color,
			Price:     repository.NumericFromDecimal(v.Price),
			Stock:     v.Stock,
			Images:    v.Images,
		}
		if v.SalePrice != nil {
			arg.SalePrice = repository.NumericFromDecimal(*v.SalePrice)
		}
		variation, err := q.InsertProductVariation(c, arg)
		if err != nil {
			err = fmt.Errorf("failed inserting variation with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Product{}, err
		}
		variations = append(variations, variation)
	}
	logger.Info().Msgf("inserted %d variations", len(variations))

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("committed transaction")

	return product.Response(variations), nil
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
