package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"motel/infras/otel"
	"motel/internal/domains/inventory/model"
	"motel/internal/domains/inventory/model/dto"
	"motel/internal/domains/inventory/service"
	"motel/shared/constant"
	gDto "motel/shared/dto"
	"motel/shared/validator"
	"motel/transport/http/response"
)

type Handler struct {
	service service.Inventory
	otel    otel.Otel
}

func New(service service.Inventory, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/inventory", func(routerGroup chi.Router) {
		routerGroup.Route("/categories", func(categories chi.Router) {
			categories.Post("/", handler.CreateCategory)
			categories.Get("/", handler.GetCategories)
			categories.Patch("/{id}", handler.UpdateCategory)
			categories.Delete("/{id}", handler.DeleteCategory)
		})

		routerGroup.Route("/products", func(products chi.Router) {
			products.Post("/", handler.CreateProduct)
			products.Get("/", handler.GetProducts)
			products.Get("/{id}", handler.GetProductByID)
			products.Patch("/{id}", handler.UpdateProduct)
			products.Delete("/{id}", handler.DeleteProduct)
			products.Post("/{id}/adjust-stock", handler.AdjustStock)
			products.Get("/{id}/movements", handler.GetStockMovements)
		})
	})
}

// CreateCategory handles the creation of a new inventory category.
// @Summary Create a new inventory category
// @Description Create a new inventory category with the provided details.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Create Category Request"
// @Success 201 {object} response.Message "Category created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventory/categories [post]
// @Security BearerAuth
func (handler *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCategory")
	defer scope.End()

	req := dto.CreateCategoryRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.CreateCategory(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create category")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Category created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Category created successfully")
}

// GetCategories retrieves all inventory categories.
// @Summary Get all inventory categories
// @Description Retrieve all inventory categories with optional name filtering.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param name query string false "Filter by name"
// @Success 200 {object} dto.GetCategoriesResponse "List of categories"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventory/categories [get]
// @Security BearerAuth
func (handler *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCategories")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.CategoryFieldName,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.CategoryFieldName),
				Table:    model.CategoryTableName,
			},
		},
	}

	categories, err := handler.service.GetCategories(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get categories")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Categories retrieved successfully")

	response.WithJSON(w, http.StatusOK, categories)
}

// UpdateCategory updates an existing inventory category by its ID.
// @Summary Update an inventory category by ID
// @Description Update the details of an existing inventory category.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body dto.UpdateCategoryRequest true "Update Category Request"
// @Success 200 {object} response.Message "Category updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventory/categories/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateCategory")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateCategoryRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateCategory(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update category")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Category updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Category updated successfully")
}

// DeleteCategory deletes an inventory category by its ID.
// @Summary Delete an inventory category by ID
// @Description Delete an inventory category that has no products.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} response.Message "Category deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventory/categories/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteCategory")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.DeleteCategory(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete category")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Category deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Category deleted successfully")
}

// CreateProduct handles the creation of a new product.
// @Summary Create a new product
// @Description Create a new product in an existing inventory category.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body dto.CreateProductRequest true "Create Product Request"
// @Success 201 {object} response.Message "Product created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventory/products [post]
// @Security BearerAuth
func (handler *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateProduct")
	defer scope.End()

	req := dto.CreateProductRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.CreateProduct(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create product")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Product created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Product created successfully")
}

// GetProducts retrieves all products based on query parameters.
// @Summary Get all products
// @Description Retrieve all products with optional filtering by name and category.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param name query string false "Filter by name"
// @Param category_id query string false "Filter by category"
// @Success 200 {object} dto.GetProductsResponse "List of products"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventory/products [get]
// @Security BearerAuth
func (handler *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProducts")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.ProductFieldName,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.ProductFieldName),
				Table:    model.ProductTableName,
			},
		},
	}

	if categoryID := r.URL.Query().Get(model.ProductFieldCategoryID); categoryID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.ProductFieldCategoryID,
			Operator: gDto.FilterOperatorEq,
			Value:    categoryID,
			Table:    model.ProductTableName,
		})
	}

	products, err := handler.service.GetProducts(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get products")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Products retrieved successfully")

	response.WithJSON(w, http.StatusOK, products)
}

// GetProductByID retrieves a product by its ID.
// @Summary Get a product by ID
// @Description Retrieve a product by its unique identifier.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} dto.ProductResponse "Product details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventory/products/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProductByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	product, err := handler.service.GetProduct(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get product by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Product retrieved successfully")

	response.WithJSON(w, http.StatusOK, product)
}

// UpdateProduct updates an existing product by its ID.
// @Summary Update a product by ID
// @Description Update the details of an existing product. Stock is only changed through adjustments.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body dto.UpdateProductRequest true "Update Product Request"
// @Success 200 {object} response.Message "Product updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventory/products/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProduct")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateProductRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateProduct(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update product")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Product updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Product updated successfully")
}

// DeleteProduct deletes a product by its ID.
// @Summary Delete a product by ID
// @Description Delete a product using its unique identifier.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} response.Message "Product deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventory/products/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteProduct")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.DeleteProduct(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete product")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Product deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Product deleted successfully")
}

// AdjustStock applies a stock movement to a product.
// @Summary Adjust product stock
// @Description Apply an in or out stock movement. Removals never take stock below zero; the recorded movement reflects the applied quantity.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body dto.AdjustStockRequest true "Adjust Stock Request"
// @Success 200 {object} dto.StockMovementResponse "Recorded stock movement"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventory/products/{id}/adjust-stock [post]
// @Security BearerAuth
func (handler *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AdjustStock")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AdjustStockRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	movement, err := handler.service.AdjustStock(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to adjust stock")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Stock adjusted successfully by user " + user)

	response.WithJSON(w, http.StatusOK, movement)
}

// GetStockMovements retrieves the movement history of a product.
// @Summary Get stock movements
// @Description Retrieve the stock movement history of a product, most recent first.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} dto.GetStockMovementsResponse "Stock movements"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventory/products/{id}/movements [get]
// @Security BearerAuth
func (handler *Handler) GetStockMovements(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStockMovements")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	movements, err := handler.service.GetMovements(ctx, id, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get stock movements")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Stock movements retrieved successfully")

	response.WithJSON(w, http.StatusOK, movements)
}
