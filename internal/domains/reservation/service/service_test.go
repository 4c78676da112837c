package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"motel/config"
	"motel/infras/otel/mocks"
	"motel/internal/accesscontrol"
	acMocks "motel/internal/accesscontrol/mocks"
	reservationMocks "motel/internal/domains/reservation/mocks"
	"motel/internal/domains/reservation/model"
	"motel/internal/domains/reservation/model/dto"
	"motel/internal/domains/reservation/repository"
	"motel/internal/domains/reservation/service"
	roomMocks "motel/internal/domains/room/mocks"
	roomModel "motel/internal/domains/room/model"
	eventMocks "motel/internal/events/mocks"
	"motel/permissions"
	cacheMocks "motel/shared/cache/mocks"
	"motel/shared/constant"
	"motel/shared/failure"
	"motel/shared/timezone"
)

type reservationServiceMocks struct {
	repo   *reservationMocks.MockReservation
	rooms  *roomMocks.MockRoom
	guard  *acMocks.MockGuard
	events *eventMocks.MockPublisher
	cache  *cacheMocks.MockRedisCache
}

func newReservationService(ctrl *gomock.Controller) (service.Reservation, reservationServiceMocks) {
	m := reservationServiceMocks{
		repo:   reservationMocks.NewMockReservation(ctrl),
		rooms:  roomMocks.NewMockRoom(ctrl),
		guard:  acMocks.NewMockGuard(ctrl),
		events: eventMocks.NewMockPublisher(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
	}

	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.rooms, m.guard, m.events, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func receptionistActor() accesscontrol.Actor {
	return accesscontrol.Actor{
		ID:       "receptionist-id",
		Username: "frontdesk",
		Role:     permissions.RoleReceptionist,
	}
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "receptionist-id")
}

func availableRoom() roomModel.Room {
	return roomModel.Room{
		ID:               "room-id",
		Number:           "101",
		Status:           roomModel.StatusAvailable,
		BasePrice:        40000,
		IncludedHours:    3,
		ExtraHourPrice:   5000,
		ExtraHourBilling: true,
	}
}

func TestReservationService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newReservationService(ctrl)

	t.Run("successful check-in prices the stay and occupies the room", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageReservations).
			Return(receptionistActor(), nil)

		m.rooms.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableRoom(), nil)

		m.repo.EXPECT().
			CreateOccupying(gomock.Any(), gomock.Any(), "receptionist-id").
			DoAndReturn(func(_ context.Context, reservation model.Reservation, actor string) (roomModel.StatusChange, error) {
				assert.Equal(t, model.StatusActive, reservation.Status)
				assert.Equal(t, 50000.0, reservation.TotalPrice)

				return roomModel.StatusChange{
					RoomID:         reservation.RoomID,
					RoomNumber:     "101",
					PreviousStatus: roomModel.StatusAvailable,
					NewStatus:      roomModel.StatusOccupied,
					ChangedBy:      actor,
					ChangedAt:      timezone.Now(),
				}, nil
			})

		m.events.EXPECT().
			PublishRoomStatusChanged(gomock.Any(), gomock.Any())

		res, err := svc.Create(testContext(), dto.CreateReservationRequest{
			RoomID:        "room-id",
			GuestName:     "Guest",
			ExpectedHours: 5,
		})

		assert.NoError(t, err)
		assert.Equal(t, 50000.0, res.TotalPrice)
		assert.Equal(t, model.StatusActive, res.Status)
	})

	t.Run("room loses availability under the row lock", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageReservations).
			Return(receptionistActor(), nil)

		m.rooms.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableRoom(), nil)

		m.repo.EXPECT().
			CreateOccupying(gomock.Any(), gomock.Any(), "receptionist-id").
			Return(roomModel.StatusChange{}, repository.ErrRoomNotAvailable)

		_, err := svc.Create(testContext(), dto.CreateReservationRequest{
			RoomID:        "room-id",
			GuestName:     "Guest",
			ExpectedHours: 2,
		})

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindInvalidStatus))
	})

	t.Run("room not found", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageReservations).
			Return(receptionistActor(), nil)

		m.rooms.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(roomModel.Room{}, nil)

		_, err := svc.Create(testContext(), dto.CreateReservationRequest{
			RoomID:        "missing-room",
			GuestName:     "Guest",
			ExpectedHours: 2,
		})

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})

	t.Run("invalid duration", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageReservations).
			Return(receptionistActor(), nil)

		m.rooms.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availableRoom(), nil)

		_, err := svc.Create(testContext(), dto.CreateReservationRequest{
			RoomID:        "room-id",
			GuestName:     "Guest",
			ExpectedHours: -1,
		})

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindInvalidDuration))
	})
}

func TestReservationService_Complete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newReservationService(ctrl)

	t.Run("check-out sends the room to cleaning", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageReservations).
			Return(receptionistActor(), nil)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{
				ID:     "reservation-id",
				RoomID: "room-id",
				Status: model.StatusActive,
			}, nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusCompleted, fields[model.FieldStatus])
				assert.NotNil(t, fields[model.FieldCheckOut])

				return nil
			})

		m.rooms.EXPECT().
			ChangeStatus(gomock.Any(), "room-id", roomModel.StatusCleaning, "receptionist-id").
			Return(roomModel.StatusChange{
				RoomID:         "room-id",
				PreviousStatus: roomModel.StatusOccupied,
				NewStatus:      roomModel.StatusCleaning,
			}, nil)

		m.events.EXPECT().
			PublishRoomStatusChanged(gomock.Any(), gomock.Any())

		err := svc.Complete(testContext(), "reservation-id")

		assert.NoError(t, err)
	})

	t.Run("already completed", func(t *testing.T) {
		m.guard.EXPECT().
			Require(gomock.Any(), permissions.CapManageReservations).
			Return(receptionistActor(), nil)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{
				ID:     "reservation-id",
				RoomID: "room-id",
				Status: model.StatusCompleted,
			}, nil)

		err := svc.Complete(testContext(), "reservation-id")

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindInvalidStatus))
	})
}

func TestReservationService_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newReservationService(ctrl)

	m.guard.EXPECT().
		Require(gomock.Any(), permissions.CapManageReservations).
		Return(receptionistActor(), nil)

	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(model.Reservation{
			ID:     "reservation-id",
			RoomID: "room-id",
			Status: model.StatusActive,
		}, nil)

	m.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])

			return nil
		})

	m.rooms.EXPECT().
		ChangeStatus(gomock.Any(), "room-id", roomModel.StatusAvailable, "receptionist-id").
		Return(roomModel.StatusChange{
			RoomID:         "room-id",
			PreviousStatus: roomModel.StatusOccupied,
			NewStatus:      roomModel.StatusAvailable,
		}, nil)

	m.events.EXPECT().
		PublishRoomStatusChanged(gomock.Any(), gomock.Any())

	err := svc.Cancel(testContext(), "reservation-id")

	assert.NoError(t, err)
}
