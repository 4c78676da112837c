package dto

import (
	"time"

	"motel/internal/domains/inventory/model"
	"motel/shared"
	gDto "motel/shared/dto"
	gModel "motel/shared/model"
	"motel/shared/timezone"

	"github.com/google/uuid"
)

type CreateCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Icon        string  `json:"icon"        validate:"omitempty,max=50"`
}

func (c *CreateCategoryRequest) ToModel(user string) model.Category {
	icon := c.Icon
	if icon == "" {
		icon = "📦"
	}

	return model.Category{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: c.Description,
		Icon:        icon,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateCategoryRequest struct {
	Name        string  `db:"name"        json:"name"        validate:"omitempty,max=100"`
	Description *string `db:"description" json:"description" validate:"omitempty,max=500"`
	Icon        string  `db:"icon"        json:"icon"        validate:"omitempty,max=50"`
}

type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Icon        string  `json:"icon"`
	gDto.Metadata
}

func (r *CategoryResponse) FromModel(model model.Category) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Icon = model.Icon
	r.Metadata.FromModel(model.Metadata)
}

type GetCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (g *GetCategoriesResponse) FromModels(models []model.Category, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Categories = make([]CategoryResponse, len(models))
	for i, mod := range models {
		g.Categories[i].FromModel(mod)
	}
}

type CreateProductRequest struct {
	CategoryID string  `json:"category_id" validate:"required,uuid"`
	Name       string  `json:"name"        validate:"required,max=100"`
	Price      float64 `json:"price"       validate:"gte=0"`
	Stock      int     `json:"stock"       validate:"gte=0"`
	MinStock   int     `json:"min_stock"   validate:"gte=0"`
	Unit       string  `json:"unit"        validate:"omitempty,max=20"`
}

func (c *CreateProductRequest) ToModel(user string) model.Product {
	unit := c.Unit
	if unit == "" {
		unit = "pcs"
	}

	return model.Product{
		ID:         uuid.NewString(),
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Price:      c.Price,
		Stock:      c.Stock,
		MinStock:   c.MinStock,
		Unit:       unit,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateProductRequest struct {
	CategoryID string   `db:"category_id" json:"category_id" validate:"omitempty,uuid"`
	Name       string   `db:"name"        json:"name"        validate:"omitempty,max=100"`
	Price      *float64 `db:"price"       json:"price"       validate:"omitempty,gte=0"`
	MinStock   *int     `db:"min_stock"   json:"min_stock"   validate:"omitempty,gte=0"`
	Unit       string   `db:"unit"        json:"unit"        validate:"omitempty,max=20"`
}

type ProductResponse struct {
	ID         string  `json:"id"`
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
	MinStock   int     `json:"min_stock"`
	Unit       string  `json:"unit"`
	LowStock   bool    `json:"low_stock"`
	gDto.Metadata
}

func (r *ProductResponse) FromModel(model model.Product) {
	r.ID = model.ID
	r.CategoryID = model.CategoryID
	r.Name = model.Name
	r.Price = model.Price
	r.Stock = model.Stock
	r.MinStock = model.MinStock
	r.Unit = model.Unit
	r.LowStock = model.LowStock()
	r.Metadata.FromModel(model.Metadata)
}

type GetProductsResponse struct {
	Products  []ProductResponse `json:"products"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (g *GetProductsResponse) FromModels(models []model.Product, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Products = make([]ProductResponse, len(models))
	for i, mod := range models {
		g.Products[i].FromModel(mod)
	}
}

type AdjustStockRequest struct {
	MovementType string `json:"movement_type" validate:"required,oneof=in out"`
	Quantity     int    `json:"quantity"      validate:"required,gt=0"`
	Reason       string `json:"reason"        validate:"required,max=200"`
}

type StockMovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	MovementType  string    `json:"movement_type"`
	Quantity      int       `json:"quantity"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Reason        string    `json:"reason"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *StockMovementResponse) FromModel(movement model.StockMovement) {
	s.ID = movement.ID
	s.ProductID = movement.ProductID
	s.MovementType = movement.MovementType
	s.Quantity = movement.Quantity
	s.PreviousStock = movement.PreviousStock
	s.NewStock = movement.NewStock
	s.Reason = movement.Reason
	s.CreatedBy = movement.CreatedBy
	s.CreatedAt = movement.CreatedAt
}

type GetStockMovementsResponse struct {
	Movements []StockMovementResponse `json:"movements"`
	TotalPage int                     `json:"total_page"`
	TotalData int                     `json:"total_data"`
}

func (g *GetStockMovementsResponse) FromModels(models []model.StockMovement, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Movements = make([]StockMovementResponse, len(models))
	for i, mod := range models {
		g.Movements[i].FromModel(mod)
	}
}
