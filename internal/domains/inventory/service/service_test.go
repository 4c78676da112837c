package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"motel/config"
	"motel/infras/otel/mocks"
	"motel/internal/accesscontrol"
	acMocks "motel/internal/accesscontrol/mocks"
	inventoryMocks "motel/internal/domains/inventory/mocks"
	"motel/internal/domains/inventory/model"
	"motel/internal/domains/inventory/model/dto"
	"motel/internal/domains/inventory/service"
	"motel/internal/events"
	eventMocks "motel/internal/events/mocks"
	"motel/permissions"
	cacheMocks "motel/shared/cache/mocks"
	"motel/shared/constant"
	gDto "motel/shared/dto"
	"motel/shared/failure"
	"motel/shared/timezone"
)

type inventoryServiceMocks struct {
	categories *inventoryMocks.MockCategory
	products   *inventoryMocks.MockProduct
	movements  *inventoryMocks.MockStockMovement
	guard      *acMocks.MockGuard
	events     *eventMocks.MockPublisher
	cache      *cacheMocks.MockRedisCache
}

func newInventoryService(ctrl *gomock.Controller) (service.Inventory, inventoryServiceMocks) {
	m := inventoryServiceMocks{
		categories: inventoryMocks.NewMockCategory(ctrl),
		products:   inventoryMocks.NewMockProduct(ctrl),
		movements:  inventoryMocks.NewMockStockMovement(ctrl),
		guard:      acMocks.NewMockGuard(ctrl),
		events:     eventMocks.NewMockPublisher(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.categories, m.products, m.movements, m.guard, m.events, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func adminActor() accesscontrol.Actor {
	return accesscontrol.Actor{
		ID:       "admin-id",
		Username: "admin",
		Role:     permissions.RoleAdmin,
	}
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
}

func TestInventoryService_AdjustStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newInventoryService(ctrl)

	t.Run("restock publishes movement", func(t *testing.T) {
		movement := model.StockMovement{
			ID:            "movement-id",
			ProductID:     "product-id",
			MovementType:  model.MovementIn,
			Quantity:      10,
			PreviousStock: 5,
			NewStock:      15,
			Reason:        "weekly delivery",
			CreatedBy:     "admin-id",
			CreatedAt:     timezone.Now(),
		}

		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageInventory).
			Return(adminActor(), nil)

		m.products.EXPECT().
			AdjustStock(gomock.Any(), "product-id", model.MovementIn, 10, "weekly delivery", "admin-id").
			Return(movement, nil)

		m.events.EXPECT().
			PublishStockMoved(gomock.Any(), events.StockMoved{
				ProductID:     movement.ProductID,
				MovementType:  movement.MovementType,
				Quantity:      movement.Quantity,
				PreviousStock: movement.PreviousStock,
				NewStock:      movement.NewStock,
				Reason:        movement.Reason,
				CreatedBy:     movement.CreatedBy,
				CreatedAt:     movement.CreatedAt,
			})

		res, err := svc.AdjustStock(testContext(), "product-id", dto.AdjustStockRequest{
			MovementType: model.MovementIn,
			Quantity:     10,
			Reason:       "weekly delivery",
		})

		assert.NoError(t, err)
		assert.Equal(t, 15, res.NewStock)
	})

	t.Run("clamped removal reports actual quantity", func(t *testing.T) {
		// Removing 10 from a stock of 3 removes 3 and lands on zero.
		movement := model.StockMovement{
			ID:            "movement-id",
			ProductID:     "product-id",
			MovementType:  model.MovementOut,
			Quantity:      3,
			PreviousStock: 3,
			NewStock:      0,
			Reason:        "spoiled",
			CreatedBy:     "admin-id",
			CreatedAt:     timezone.Now(),
		}

		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageInventory).
			Return(adminActor(), nil)

		m.products.EXPECT().
			AdjustStock(gomock.Any(), "product-id", model.MovementOut, 10, "spoiled", "admin-id").
			Return(movement, nil)

		m.events.EXPECT().
			PublishStockMoved(gomock.Any(), gomock.Any())

		res, err := svc.AdjustStock(testContext(), "product-id", dto.AdjustStockRequest{
			MovementType: model.MovementOut,
			Quantity:     10,
			Reason:       "spoiled",
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, res.Quantity)
		assert.Equal(t, 0, res.NewStock)
	})

	t.Run("product not found", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageInventory).
			Return(adminActor(), nil)

		m.products.EXPECT().
			AdjustStock(gomock.Any(), "missing-product", model.MovementOut, 1, "usage", "admin-id").
			Return(model.StockMovement{}, sql.ErrNoRows)

		_, err := svc.AdjustStock(testContext(), "missing-product", dto.AdjustStockRequest{
			MovementType: model.MovementOut,
			Quantity:     1,
			Reason:       "usage",
		})

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})

	t.Run("permission denied", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageInventory).
			Return(accesscontrol.Actor{}, failure.ForbiddenError)

		_, err := svc.AdjustStock(testContext(), "product-id", dto.AdjustStockRequest{
			MovementType: model.MovementIn,
			Quantity:     1,
			Reason:       "restock",
		})

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindPermission))
	})
}

func TestInventoryService_CreateProduct(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newInventoryService(ctrl)

	t.Run("successful creation", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageInventory).
			Return(adminActor(), nil)

		m.categories.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.products.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, product model.Product) error {
				assert.Equal(t, "Mineral Water", product.Name)
				assert.Equal(t, 24, product.Stock)
				assert.Equal(t, "pcs", product.Unit)

				return nil
			})

		err := svc.CreateProduct(testContext(), dto.CreateProductRequest{
			CategoryID: "category-id",
			Name:       "Mineral Water",
			Price:      5000,
			Stock:      24,
			MinStock:   6,
		})

		assert.NoError(t, err)
	})

	t.Run("category not found", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageInventory).
			Return(adminActor(), nil)

		m.categories.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.CreateProduct(testContext(), dto.CreateProductRequest{
			CategoryID: "missing-category",
			Name:       "Mineral Water",
		})

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})
}

func TestInventoryService_DeleteCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newInventoryService(ctrl)

	t.Run("category with products is vetoed", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageInventory).
			Return(adminActor(), nil)

		m.categories.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.products.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.DeleteCategory(testContext(), "category-id")

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindDuplicate))
	})

	t.Run("empty category deleted", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageInventory).
			Return(adminActor(), nil)

		m.categories.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.products.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		m.categories.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.DeleteCategory(testContext(), "category-id")

		assert.NoError(t, err)
	})
}

func TestInventoryService_GetMovements(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newInventoryService(ctrl)

	m.products.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(true, nil)

	m.movements.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(2, nil)

	m.movements.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.StockMovement{
			{ID: "m2", MovementType: model.MovementOut, Quantity: 2},
			{ID: "m1", MovementType: model.MovementIn, Quantity: 10},
		}, nil)

	res, err := svc.GetMovements(testContext(), "product-id", gDto.QueryParams{Page: 1, Limit: 10})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Len(t, res.Movements, 2)
}
