package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"motel/infras/otel"
	"motel/infras/postgres"
	"motel/internal/domains/inventory/model"
	"motel/shared/constant"
	gDto "motel/shared/dto"
	"motel/shared/logger"
	gRepo "motel/shared/repository"
	"motel/shared/timezone"
)

type Category interface {
	Insert(ctx context.Context, model model.Category) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Category, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Category, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type Product interface {
	Insert(ctx context.Context, model model.Product) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Product, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Product, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	AdjustStock(ctx context.Context, productID, movementType string, quantity int, reason, actor string) (model.StockMovement, error)
}

type StockMovement interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.StockMovement, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type categoryImpl struct {
	gRepo.Repository[model.Category]
}

func NewCategory(db *postgres.Connection, otel otel.Otel) Category {
	return &categoryImpl{
		Repository: gRepo.NewRepository[model.Category](model.CategoryEntityName, model.CategoryTableName, model.CategoryFieldID, db, otel),
	}
}

type productImpl struct {
	gRepo.Repository[model.Product]
	movements gRepo.Repository[model.StockMovement]
	db        *postgres.Connection
	otel      otel.Otel
}

func NewProduct(db *postgres.Connection, otel otel.Otel) Product {
	return &productImpl{
		Repository: gRepo.NewRepository[model.Product](model.ProductEntityName, model.ProductTableName, model.ProductFieldID, db, otel),
		movements:  gRepo.NewRepository[model.StockMovement](model.MovementEntityName, model.MovementTableName, model.MovementFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type movementImpl struct {
	gRepo.Repository[model.StockMovement]
}

func NewStockMovement(db *postgres.Connection, otel otel.Otel) StockMovement {
	return &movementImpl{
		Repository: gRepo.NewRepository[model.StockMovement](model.MovementEntityName, model.MovementTableName, model.MovementFieldID, db, otel),
	}
}

// AdjustStock applies one stock change and records its movement in the same
// transaction. The product row is locked first, so concurrent adjustments on
// the same product serialize while other products proceed in parallel.
// Removals clamp at zero and the movement records the quantity actually
// removed.
func (repo *productImpl) AdjustStock(ctx context.Context, productID, movementType string, quantity int, reason, actor string) (model.StockMovement, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".inventory_product.AdjustStock")
	defer scope.End()

	var movement model.StockMovement

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return movement, fmt.Errorf("failed to begin transaction (%s): %w", model.ProductEntityName, err)
	}
	defer tx.Rollback() //nolint:errcheck

	var previousStock int

	lockQuery := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 FOR UPDATE",
		model.ProductFieldStock, model.ProductTableName, model.ProductFieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, lockQuery)

	err = tx.QueryRowxContext(ctx, lockQuery, productID).Scan(&previousStock)
	if err != nil {
		scope.TraceError(err)

		return movement, err //nolint:wrapcheck
	}

	applied := quantity
	newStock := previousStock

	switch movementType {
	case model.MovementIn:
		newStock = previousStock + quantity
	case model.MovementOut:
		if applied > previousStock {
			applied = previousStock
		}

		newStock = previousStock - applied
	}

	createdAt := timezone.Now()

	updateQuery := fmt.Sprintf("UPDATE %s SET %s = $1, modified_at = $2, modified_by = $3 WHERE %s = $4",
		model.ProductTableName, model.ProductFieldStock, model.ProductFieldID)

	_, err = tx.ExecContext(ctx, updateQuery, newStock, createdAt, actor, productID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return movement, fmt.Errorf("failed to update stock (%s): %w", model.ProductEntityName, err)
	}

	movement = model.StockMovement{
		ID:            uuid.NewString(),
		ProductID:     productID,
		MovementType:  movementType,
		Quantity:      applied,
		PreviousStock: previousStock,
		NewStock:      newStock,
		Reason:        reason,
		CreatedBy:     actor,
		CreatedAt:     createdAt,
	}

	err = repo.movements.InsertTx(ctx, tx, movement)
	if err != nil {
		scope.TraceError(err)

		return model.StockMovement{}, err //nolint:wrapcheck
	}

	err = tx.Commit()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return model.StockMovement{}, fmt.Errorf("failed to commit transaction (%s): %w", model.ProductEntityName, err)
	}

	return movement, nil
}
