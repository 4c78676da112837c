package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"motel/config"
	"motel/infras/otel"
	"motel/internal/accesscontrol"
	"motel/internal/domains/inventory/model"
	"motel/internal/domains/inventory/model/dto"
	"motel/internal/domains/inventory/repository"
	"motel/internal/events"
	"motel/permissions"
	"motel/shared"
	"motel/shared/cache"
	"motel/shared/constant"
	gDto "motel/shared/dto"
	"motel/shared/failure"
)

const (
	cacheGetCategory    = "inventory_category:get"
	cacheGetAllCategory = "inventory_category:gets"
	cacheGetProduct     = "inventory_product:get"
	cacheGetAllProduct  = "inventory_product:gets"
	cacheCountProduct   = "inventory_product:count"
)

type Inventory interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) error
	GetCategories(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCategoriesResponse, error)
	UpdateCategory(ctx context.Context, req dto.UpdateCategoryRequest, id string) error
	DeleteCategory(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, req dto.CreateProductRequest) error
	GetProducts(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetProductsResponse, error)
	CountProducts(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	GetProduct(ctx context.Context, id string) (dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, req dto.UpdateProductRequest, id string) error
	DeleteProduct(ctx context.Context, id string) error

	AdjustStock(ctx context.Context, productID string, req dto.AdjustStockRequest) (dto.StockMovementResponse, error)
	GetMovements(ctx context.Context, productID string, params gDto.QueryParams) (dto.GetStockMovementsResponse, error)
}

type serviceImpl struct {
	categories repository.Category
	products   repository.Product
	movements  repository.StockMovement
	guard      accesscontrol.Guard
	events     events.Publisher
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	categories repository.Category,
	products repository.Product,
	movements repository.StockMovement,
	guard accesscontrol.Guard,
	events events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Inventory {
	return &serviceImpl{
		categories: categories,
		products:   products,
		movements:  movements,
		guard:      guard,
		events:     events,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateCategory")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.Require(ctx, permissions.CapManageInventory)
	if err != nil {
		return err
	}

	exist, err := s.categories.Exist(ctx, filterByField(model.CategoryFieldName, req.Name, model.CategoryTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check category name")

		return fmt.Errorf("failed to check category name: %w", err)
	}

	if exist {
		return failure.Conflict("category name already exists") //nolint:wrapcheck
	}

	if err = s.categories.Insert(ctx, req.ToModel(actor.ID)); err != nil {
		return err
	}

	s.invalidateCategoryCaches(ctx)

	return nil
}

func (s *serviceImpl) GetCategories(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCategoriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetCategories")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCategory, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for categories")

		return res, nil
	}

	total, err := s.categories.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count categories")

		return res, fmt.Errorf("failed to count categories: %w", err)
	}

	models, err := s.categories.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get categories")

		return res, fmt.Errorf("failed to get categories: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save categories to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateCategory(ctx context.Context, req dto.UpdateCategoryRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateCategory")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.Require(ctx, permissions.CapManageInventory)
	if err != nil {
		return err
	}

	filter := shared.FilterByID(id, model.CategoryFieldID, model.CategoryTableName)

	current, err := s.categories.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check category existence")

		return err
	}

	if current.ID == constant.Empty {
		return failure.NotFound("category not found") //nolint:wrapcheck
	}

	if err := s.categories.Update(ctx, shared.TransformFields(req, actor.ID), filter); err != nil {
		log.Error().Err(err).Msg("failed to update category")

		return fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidateCategoryCaches(ctx)

	return nil
}

func (s *serviceImpl) DeleteCategory(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteCategory")
	defer scope.End()
	defer scope.TraceIfError(err)

	_, err = s.guard.Require(ctx, permissions.CapManageInventory)
	if err != nil {
		return err
	}

	exist, err := s.categories.Exist(ctx, shared.FilterByID(id, model.CategoryFieldID, model.CategoryTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if category exists")

		return fmt.Errorf("failed to check if category exists: %w", err)
	}

	if !exist {
		return failure.NotFound("category not found") //nolint:wrapcheck
	}

	inUse, err := s.products.Exist(ctx, filterByField(model.ProductFieldCategoryID, id, model.ProductTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check category usage")

		return fmt.Errorf("failed to check category usage: %w", err)
	}

	if inUse {
		return failure.Conflict("category still has products") //nolint:wrapcheck
	}

	if err := s.categories.Delete(ctx, shared.FilterByID(id, model.CategoryFieldID, model.CategoryTableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete category")

		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.invalidateCategoryCaches(ctx)

	return nil
}

func (s *serviceImpl) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateProduct")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.Require(ctx, permissions.CapManageInventory)
	if err != nil {
		return err
	}

	categoryExist, err := s.categories.Exist(ctx, shared.FilterByID(req.CategoryID, model.CategoryFieldID, model.CategoryTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check category")

		return fmt.Errorf("failed to check category: %w", err)
	}

	if !categoryExist {
		return failure.NotFound("category not found") //nolint:wrapcheck
	}

	if err = s.products.Insert(ctx, req.ToModel(actor.ID)); err != nil {
		return err
	}

	s.invalidateProductCaches(ctx, constant.Empty)

	return nil
}

func (s *serviceImpl) GetProducts(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetProductsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetProducts")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllProduct, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for products")

		return res, nil
	}

	total, err := s.CountProducts(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count products")

		return res, fmt.Errorf("failed to count products: %w", err)
	}

	models, err := s.products.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get products")

		return res, fmt.Errorf("failed to get products: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save products to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) CountProducts(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountProducts")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountProduct, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for product count")

		return res, nil
	}

	res, err = s.products.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count products")

		return res, fmt.Errorf("failed to count products: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save product count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetProduct(ctx context.Context, id string) (res dto.ProductResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetProduct")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetProduct, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for product")

		return res, nil
	}

	product, err := s.products.Get(ctx, shared.FilterByID(id, model.ProductFieldID, model.ProductTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get product")

		return res, fmt.Errorf("failed to get product: %w", err)
	}

	if product.ID == constant.Empty {
		return res, failure.NotFound("product not found") //nolint:wrapcheck
	}

	res.FromModel(product)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save product to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateProduct(ctx context.Context, req dto.UpdateProductRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateProduct")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.Require(ctx, permissions.CapManageInventory)
	if err != nil {
		return err
	}

	filter := shared.FilterByID(id, model.ProductFieldID, model.ProductTableName)

	current, err := s.products.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check product existence")

		return err
	}

	if current.ID == constant.Empty {
		return failure.NotFound("product not found") //nolint:wrapcheck
	}

	if req.CategoryID != constant.Empty && req.CategoryID != current.CategoryID {
		categoryExist, err := s.categories.Exist(ctx, shared.FilterByID(req.CategoryID, model.CategoryFieldID, model.CategoryTableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check category")

			return fmt.Errorf("failed to check category: %w", err)
		}

		if !categoryExist {
			return failure.NotFound("category not found") //nolint:wrapcheck
		}
	}

	if err := s.products.Update(ctx, shared.TransformFields(req, actor.ID), filter); err != nil {
		log.Error().Err(err).Msg("failed to update product")

		return fmt.Errorf("failed to update product: %w", err)
	}

	s.invalidateProductCaches(ctx, id)

	return nil
}

func (s *serviceImpl) DeleteProduct(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteProduct")
	defer scope.End()
	defer scope.TraceIfError(err)

	_, err = s.guard.Require(ctx, permissions.CapManageInventory)
	if err != nil {
		return err
	}

	exist, err := s.products.Exist(ctx, shared.FilterByID(id, model.ProductFieldID, model.ProductTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if product exists")

		return fmt.Errorf("failed to check if product exists: %w", err)
	}

	if !exist {
		return failure.NotFound("product not found") //nolint:wrapcheck
	}

	if err := s.products.Delete(ctx, shared.FilterByID(id, model.ProductFieldID, model.ProductTableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete product")

		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.invalidateProductCaches(ctx, id)

	return nil
}

// AdjustStock applies one movement and returns what actually happened.
// Removals larger than the current stock clamp at zero instead of failing,
// and the returned movement reports the clamped quantity.
func (s *serviceImpl) AdjustStock(ctx context.Context, productID string, req dto.AdjustStockRequest) (res dto.StockMovementResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AdjustStock")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.Require(ctx, permissions.CapManageInventory)
	if err != nil {
		return res, err
	}

	movement, err := s.products.AdjustStock(ctx, productID, req.MovementType, req.Quantity, req.Reason, actor.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return res, failure.NotFound("product not found") //nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to adjust stock")

		return res, fmt.Errorf("failed to adjust stock: %w", err)
	}

	s.events.PublishStockMoved(ctx, events.StockMoved{
		ProductID:     movement.ProductID,
		MovementType:  movement.MovementType,
		Quantity:      movement.Quantity,
		PreviousStock: movement.PreviousStock,
		NewStock:      movement.NewStock,
		Reason:        movement.Reason,
		CreatedBy:     movement.CreatedBy,
		CreatedAt:     movement.CreatedAt,
	})

	s.invalidateProductCaches(ctx, productID)

	res.FromModel(movement)

	return res, nil
}

func (s *serviceImpl) GetMovements(ctx context.Context, productID string, params gDto.QueryParams) (res dto.GetStockMovementsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMovements")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.products.Exist(ctx, shared.FilterByID(productID, model.ProductFieldID, model.ProductTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if product exists")

		return res, fmt.Errorf("failed to check if product exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("product not found") //nolint:wrapcheck
	}

	if params.SortBy == constant.Empty {
		params.SortBy = model.MovementFieldCreatedAt
		params.SortDir = constant.DefaultValueSortDir
	}

	filter := filterByField(model.MovementFieldProductID, productID, model.MovementTableName)

	total, err := s.movements.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count stock movements")

		return res, fmt.Errorf("failed to count stock movements: %w", err)
	}

	models, err := s.movements.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get stock movements")

		return res, fmt.Errorf("failed to get stock movements: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) invalidateCategoryCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetCategory)
		shared.InvalidateCaches(c, s.cache, cacheGetAllCategory)
	}()
}

func (s *serviceImpl) invalidateProductCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetProduct, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete product cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllProduct)
		shared.InvalidateCaches(c, s.cache, cacheCountProduct)
	}()
}

func filterByField(field string, value any, table string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    field,
				Value:    value,
				Operator: gDto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}
