package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"motel/config"
	"motel/infras/otel/mocks"
	"motel/internal/accesscontrol"
	acMocks "motel/internal/accesscontrol/mocks"
	roomMocks "motel/internal/domains/room/mocks"
	roomTypeMocks "motel/internal/domains/roomtype/mocks"
	"motel/internal/domains/roomtype/model"
	"motel/internal/domains/roomtype/model/dto"
	"motel/internal/domains/roomtype/service"
	"motel/permissions"
	cacheMocks "motel/shared/cache/mocks"
	"motel/shared/constant"
	"motel/shared/failure"
	gModel "motel/shared/model"
	"motel/shared/timezone"
)

type roomTypeServiceMocks struct {
	repo  *roomTypeMocks.MockRoomType
	rooms *roomMocks.MockRoom
	guard *acMocks.MockGuard
	cache *cacheMocks.MockRedisCache
}

func newRoomTypeService(ctrl *gomock.Controller) (service.RoomType, roomTypeServiceMocks) {
	m := roomTypeServiceMocks{
		repo:  roomTypeMocks.NewMockRoomType(ctrl),
		rooms: roomMocks.NewMockRoom(ctrl),
		guard: acMocks.NewMockGuard(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.rooms, m.guard, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func superAdminActor() accesscontrol.Actor {
	return accesscontrol.Actor{
		ID:       "super-admin-id",
		Username: "root",
		Role:     permissions.RoleSuperAdmin,
	}
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "super-admin-id")
}

func TestRoomTypeService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomTypeService(ctrl)

	tests := []struct {
		name      string
		req       dto.CreateRoomTypeRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful creation",
			req: dto.CreateRoomTypeRequest{
				Name:           "Standard",
				BasePrice:      40000,
				IncludedHours:  3,
				ExtraHourPrice: 5000,
			},
			setupMock: func() {
				m.guard.EXPECT().
					Require(gomock.Any(), permissions.CapManageRoomTypes).
					Return(superAdminActor(), nil)

				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "duplicate name",
			req: dto.CreateRoomTypeRequest{
				Name:          "Standard",
				BasePrice:     40000,
				IncludedHours: 3,
			},
			setupMock: func() {
				m.guard.EXPECT().
					Require(gomock.Any(), permissions.CapManageRoomTypes).
					Return(superAdminActor(), nil)

				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr: true,
		},
		{
			name: "permission denied",
			req: dto.CreateRoomTypeRequest{
				Name:          "Deluxe",
				IncludedHours: 3,
			},
			setupMock: func() {
				m.guard.EXPECT().
					Require(gomock.Any(), permissions.CapManageRoomTypes).
					Return(accesscontrol.Actor{}, failure.ForbiddenError)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Create(testContext(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomTypeService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomTypeService(ctrl)

	t.Run("found", func(t *testing.T) {
		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.RoomType{
				ID:            "type-id",
				Name:          "Standard",
				BasePrice:     40000,
				IncludedHours: 3,
				Metadata: gModel.Metadata{
					CreatedAt: timezone.Now(),
				},
			}, nil)

		res, err := svc.Get(testContext(), "type-id")

		assert.NoError(t, err)
		assert.Equal(t, "Standard", res.Name)
		assert.Equal(t, 40000.0, res.BasePrice)
	})

	t.Run("not found", func(t *testing.T) {
		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.RoomType{}, nil)

		_, err := svc.Get(testContext(), "missing-id")

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})
}

func TestRoomTypeService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomTypeService(ctrl)

	basePrice := 55000.0

	t.Run("price edit does not touch rooms", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageRoomTypes).
			Return(superAdminActor(), nil)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.RoomType{ID: "type-id", Name: "Standard"}, nil)

		// No call on the rooms repository is expected here.
		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Update(testContext(), dto.UpdateRoomTypeRequest{BasePrice: &basePrice}, "type-id")

		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageRoomTypes).
			Return(superAdminActor(), nil)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.RoomType{}, nil)

		err := svc.Update(testContext(), dto.UpdateRoomTypeRequest{BasePrice: &basePrice}, "missing-id")

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})

	t.Run("rename to taken name", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageRoomTypes).
			Return(superAdminActor(), nil)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.RoomType{ID: "type-id", Name: "Standard"}, nil)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.Update(testContext(), dto.UpdateRoomTypeRequest{Name: "Deluxe"}, "type-id")

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindDuplicate))
	})
}

func TestRoomTypeService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomTypeService(ctrl)

	t.Run("referenced by rooms", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageRoomTypes).
			Return(superAdminActor(), nil)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.rooms.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.Delete(testContext(), "type-id")

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindDuplicate))
	})

	t.Run("successful deletion", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageRoomTypes).
			Return(superAdminActor(), nil)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.rooms.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		m.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Delete(testContext(), "type-id")

		assert.NoError(t, err)
	})
}
