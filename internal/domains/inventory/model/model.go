package model

import (
	"time"

	"motel/shared/model"
)

const (
	CategoryTableName  = "inventory_categories"
	CategoryEntityName = "inventory_category"

	CategoryFieldID          = "id"
	CategoryFieldName        = "name"
	CategoryFieldDescription = "description"
	CategoryFieldIcon        = "icon"
)

const (
	ProductTableName  = "inventory_products"
	ProductEntityName = "inventory_product"

	ProductFieldID         = "id"
	ProductFieldCategoryID = "category_id"
	ProductFieldName       = "name"
	ProductFieldPrice      = "price"
	ProductFieldStock      = "stock"
	ProductFieldMinStock   = "min_stock"
	ProductFieldUnit       = "unit"
)

const (
	MovementTableName  = "stock_movements"
	MovementEntityName = "stock_movement"

	MovementFieldID            = "id"
	MovementFieldProductID     = "product_id"
	MovementFieldType          = "movement_type"
	MovementFieldQuantity      = "quantity"
	MovementFieldPreviousStock = "previous_stock"
	MovementFieldNewStock      = "new_stock"
	MovementFieldReason        = "reason"
	MovementFieldCreatedBy     = "created_by"
	MovementFieldCreatedAt     = "created_at"
)

const (
	MovementIn  = "in"
	MovementOut = "out"
)

type Category struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Icon        string  `db:"icon"`
	model.Metadata
}

type Product struct {
	ID         string  `db:"id"`
	CategoryID string  `db:"category_id"`
	Name       string  `db:"name"`
	Price      float64 `db:"price"`
	Stock      int     `db:"stock"`
	MinStock   int     `db:"min_stock"`
	Unit       string  `db:"unit"`
	model.Metadata
}

// LowStock reports whether the product has fallen to or below its threshold.
func (p *Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// StockMovement records one applied stock change. Quantity is the amount
// actually applied, which can be smaller than requested when a removal was
// clamped at zero.
type StockMovement struct {
	ID            string    `db:"id"`
	ProductID     string    `db:"product_id"`
	MovementType  string    `db:"movement_type"`
	Quantity      int       `db:"quantity"`
	PreviousStock int       `db:"previous_stock"`
	NewStock      int       `db:"new_stock"`
	Reason        string    `db:"reason"`
	CreatedBy     string    `db:"created_by"`
	CreatedAt     time.Time `db:"created_at"`
}
