package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"motel/config"
	"motel/infras/otel/mocks"
	"motel/internal/accesscontrol"
	acMocks "motel/internal/accesscontrol/mocks"
	reservationMocks "motel/internal/domains/reservation/mocks"
	roomMocks "motel/internal/domains/room/mocks"
	"motel/internal/domains/room/model"
	"motel/internal/domains/room/model/dto"
	"motel/internal/domains/room/service"
	roomTypeMocks "motel/internal/domains/roomtype/mocks"
	roomTypeModel "motel/internal/domains/roomtype/model"
	"motel/internal/events"
	eventMocks "motel/internal/events/mocks"
	"motel/permissions"
	cacheMocks "motel/shared/cache/mocks"
	"motel/shared/constant"
	"motel/shared/failure"
	"motel/shared/timezone"
	"motel/shared/validator"
)

type roomServiceMocks struct {
	repo         *roomMocks.MockRoom
	history      *roomMocks.MockStatusHistory
	roomTypes    *roomTypeMocks.MockRoomType
	reservations *reservationMocks.MockReservation
	guard        *acMocks.MockGuard
	events       *eventMocks.MockPublisher
	cache        *cacheMocks.MockRedisCache
}

func newRoomService(ctrl *gomock.Controller) (service.Room, roomServiceMocks) {
	m := roomServiceMocks{
		repo:         roomMocks.NewMockRoom(ctrl),
		history:      roomMocks.NewMockStatusHistory(ctrl),
		roomTypes:    roomTypeMocks.NewMockRoomType(ctrl),
		reservations: reservationMocks.NewMockReservation(ctrl),
		guard:        acMocks.NewMockGuard(ctrl),
		events:       eventMocks.NewMockPublisher(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
	}

	// Cache invalidation happens on a detached context after mutations.
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.history, m.roomTypes, m.reservations, m.guard, m.events, cfg, m.cache, mocks.NewOtel())

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

func TestRoomService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	roomType := roomTypeModel.RoomType{
		ID:             "type-id",
		Name:           "Standard",
		BasePrice:      40000,
		IncludedHours:  3,
		ExtraHourPrice: 5000,
	}

	tests := []struct {
		name      string
		req       dto.CreateRoomRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful creation snapshots pricing",
			req: dto.CreateRoomRequest{
				Number:     "101",
				RoomTypeID: "type-id",
				Floor:      1,
			},
			setupMock: func() {
				m.guard.EXPECT().
					Require(gomock.Any(), permissions.CapManageRooms).
					Return(adminActor(), nil)

				m.roomTypes.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomType, nil)

				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, "101", room.Number)
						assert.Equal(t, model.StatusAvailable, room.Status)
						assert.Equal(t, 40000.0, room.BasePrice)
						assert.Equal(t, 3, room.IncludedHours)
						assert.Equal(t, 5000.0, room.ExtraHourPrice)
						assert.True(t, room.ExtraHourBilling)

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "room type not found",
			req: dto.CreateRoomRequest{
				Number:     "102",
				RoomTypeID: "missing-type",
			},
			setupMock: func() {
				m.guard.EXPECT().
					Require(gomock.Any(), permissions.CapManageRooms).
					Return(adminActor(), nil)

				m.roomTypes.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomTypeModel.RoomType{}, nil)
			},
			wantErr: true,
		},
		{
			name: "duplicate room number",
			req: dto.CreateRoomRequest{
				Number:     "101",
				RoomTypeID: "type-id",
			},
			setupMock: func() {
				m.guard.EXPECT().
					Require(gomock.Any(), permissions.CapManageRooms).
					Return(adminActor(), nil)

				m.roomTypes.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomType, nil)

				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr: true,
		},
		{
			name: "permission denied",
			req: dto.CreateRoomRequest{
				Number:     "103",
				RoomTypeID: "type-id",
			},
			setupMock: func() {
				m.guard.EXPECT().
					Require(gomock.Any(), permissions.CapManageRooms).
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

func TestRoomService_ChangeStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	t.Run("successful transition publishes audit event", func(t *testing.T) {
		change := model.StatusChange{
			RoomID:         "room-id",
			RoomNumber:     "101",
			PreviousStatus: model.StatusAvailable,
			NewStatus:      model.StatusCleaning,
			ChangedBy:      "admin-id",
			ChangedAt:      timezone.Now(),
		}

		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapChangeRoomStatus).
			Return(adminActor(), nil)

		m.repo.EXPECT().
			ChangeStatus(gomock.Any(), "room-id", model.StatusCleaning, "admin-id").
			Return(change, nil)

		m.events.EXPECT().
			PublishRoomStatusChanged(gomock.Any(), events.RoomStatusChanged{
				RoomID:         change.RoomID,
				RoomNumber:     change.RoomNumber,
				PreviousStatus: change.PreviousStatus,
				NewStatus:      change.NewStatus,
				ChangedBy:      change.ChangedBy,
				ChangedAt:      change.ChangedAt,
			})

		res, err := svc.ChangeStatus(testContext(), "room-id", dto.ChangeStatusRequest{Status: model.StatusCleaning})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusAvailable, res.PreviousStatus)
		assert.Equal(t, model.StatusCleaning, res.NewStatus)
	})

	t.Run("repeating the occupied transition records an audit row each time", func(t *testing.T) {
		transitions := 0

		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapChangeRoomStatus).
			Return(adminActor(), nil).
			Times(2)

		m.repo.EXPECT().
			ChangeStatus(gomock.Any(), "room-id", model.StatusOccupied, "admin-id").
			DoAndReturn(func(_ context.Context, roomID, newStatus, actor string) (model.StatusChange, error) {
				transitions++

				previous := model.StatusAvailable
				if transitions > 1 {
					previous = model.StatusOccupied
				}

				return model.StatusChange{
					RoomID:         roomID,
					RoomNumber:     "101",
					PreviousStatus: previous,
					NewStatus:      newStatus,
					ChangedBy:      actor,
					ChangedAt:      timezone.Now(),
				}, nil
			}).
			Times(2)

		m.events.EXPECT().
			PublishRoomStatusChanged(gomock.Any(), gomock.Any()).
			Times(2)

		first, err := svc.ChangeStatus(testContext(), "room-id", dto.ChangeStatusRequest{Status: model.StatusOccupied})
		assert.NoError(t, err)
		assert.Equal(t, model.StatusAvailable, first.PreviousStatus)
		assert.Equal(t, model.StatusOccupied, first.NewStatus)

		second, err := svc.ChangeStatus(testContext(), "room-id", dto.ChangeStatusRequest{Status: model.StatusOccupied})
		assert.NoError(t, err)
		assert.Equal(t, model.StatusOccupied, second.PreviousStatus)
		assert.Equal(t, model.StatusOccupied, second.NewStatus)

		assert.Equal(t, 2, transitions)
	})

	t.Run("status outside the enum is rejected before any write", func(t *testing.T) {
		_, err := svc.ChangeStatus(testContext(), "room-id", dto.ChangeStatusRequest{Status: "demolished"})

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindInvalidStatus))
	})

	t.Run("room not found", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapChangeRoomStatus).
			Return(adminActor(), nil)

		m.repo.EXPECT().
			ChangeStatus(gomock.Any(), "missing-room", model.StatusOccupied, "admin-id").
			Return(model.StatusChange{}, sql.ErrNoRows)

		_, err := svc.ChangeStatus(testContext(), "missing-room", dto.ChangeStatusRequest{Status: model.StatusOccupied})

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})

	t.Run("permission denied", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapChangeRoomStatus).
			Return(accesscontrol.Actor{}, failure.ForbiddenError)

		_, err := svc.ChangeStatus(testContext(), "room-id", dto.ChangeStatusRequest{Status: model.StatusOccupied})

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindPermission))
	})
}

func TestRoomService_Quote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	room := model.Room{
		ID:               "room-id",
		Number:           "101",
		BasePrice:        40000,
		IncludedHours:    3,
		ExtraHourPrice:   5000,
		ExtraHourBilling: true,
	}

	t.Run("within included hours", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(room, nil)

		res, err := svc.Quote(testContext(), "room-id", dto.QuoteRequest{Hours: 2})

		assert.NoError(t, err)
		assert.Equal(t, 40000.0, res.TotalPrice)
	})

	t.Run("proportional overage", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(room, nil)

		res, err := svc.Quote(testContext(), "room-id", dto.QuoteRequest{Hours: 5.5})

		assert.NoError(t, err)
		assert.Equal(t, 52500.0, res.TotalPrice)
	})

	t.Run("invalid duration", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(room, nil)

		_, err := svc.Quote(testContext(), "room-id", dto.QuoteRequest{Hours: -2})

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindInvalidDuration))
	})

	t.Run("zero duration passes validation and fails as invalid duration", func(t *testing.T) {
		req := dto.QuoteRequest{Hours: 0}

		assert.NoError(t, validator.ValidateStruct(&req))

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(room, nil)

		_, err := svc.Quote(testContext(), "room-id", req)

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindInvalidDuration))
	})

	t.Run("room not found", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Room{}, nil)

		_, err := svc.Quote(testContext(), "missing-room", dto.QuoteRequest{Hours: 2})

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})
}

func TestRoomService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	t.Run("active reservation vetoes deletion", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageRooms).
			Return(adminActor(), nil)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.reservations.EXPECT().
			ExistActiveForRoom(gomock.Any(), "room-id").
			Return(true, nil)

		err := svc.Delete(testContext(), "room-id")

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindDuplicate))
	})

	t.Run("successful deletion", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageRooms).
			Return(adminActor(), nil)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.reservations.EXPECT().
			ExistActiveForRoom(gomock.Any(), "room-id").
			Return(false, nil)

		m.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Delete(testContext(), "room-id")

		assert.NoError(t, err)
	})

	t.Run("room not found", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageRooms).
			Return(adminActor(), nil)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Delete(testContext(), "missing-room")

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})
}

func TestRoomService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	m.cache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	m.repo.EXPECT().
		CountByStatus(gomock.Any()).
		Return([]model.StatusCount{
			{Status: model.StatusAvailable, Count: 5},
			{Status: model.StatusOccupied, Count: 3},
		}, nil)

	m.repo.EXPECT().
		CountByType(gomock.Any()).
		Return([]model.TypeCount{
			{Name: "Standard", Count: 6},
			{Name: "Deluxe", Count: 2},
		}, nil)

	res, err := svc.Stats(testContext())

	assert.NoError(t, err)
	assert.Equal(t, 8, res.TotalRooms)
	assert.Equal(t, 5, res.ByStatus[model.StatusAvailable])
	assert.Equal(t, 0, res.ByStatus[model.StatusCleaning])
	assert.Equal(t, 6, res.ByType["Standard"])
}

func TestRoomService_SyncPricing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	room := model.Room{
		ID:            "room-id",
		RoomTypeID:    "type-id",
		BasePrice:     40000,
		IncludedHours: 3,
	}

	roomType := roomTypeModel.RoomType{
		ID:             "type-id",
		BasePrice:      60000,
		IncludedHours:  4,
		ExtraHourPrice: 7500,
	}

	m.guard.EXPECT().
		Require(gomock.Any(), permissions.CapManageRooms).
		Return(adminActor(), nil)

	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(room, nil)

	m.roomTypes.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(roomType, nil)

	m.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, 60000.0, fields[model.FieldBasePrice])
			assert.Equal(t, 4, fields[model.FieldIncludedHours])
			assert.Equal(t, 7500.0, fields[model.FieldExtraHourPrice])

			return nil
		})

	err := svc.SyncPricing(testContext(), "room-id")

	assert.NoError(t, err)
}
