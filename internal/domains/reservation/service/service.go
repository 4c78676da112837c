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
	"motel/internal/domains/reservation/model"
	"motel/internal/domains/reservation/model/dto"
	"motel/internal/domains/reservation/repository"
	roomModel "motel/internal/domains/room/model"
	roomRepo "motel/internal/domains/room/repository"
	"motel/internal/events"
	"motel/permissions"
	"motel/shared"
	"motel/shared/cache"
	"motel/shared/constant"
	gDto "motel/shared/dto"
	"motel/shared/failure"
	"motel/shared/timezone"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) error
	Complete(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo   repository.Reservation
	rooms  roomRepo.Room
	guard  accesscontrol.Guard
	events events.Publisher
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
}

func New(
	repo repository.Reservation,
	rooms roomRepo.Room,
	guard accesscontrol.Guard,
	events events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:   repo,
		rooms:  rooms,
		guard:  guard,
		events: events,
		cfg:    cfg,
		cache:  cache,
		otel:   otel,
	}
}

// Create checks a guest into an available room. The total price is computed
// once from the room's pricing snapshot; the availability check, the occupied
// transition with its audit record and the reservation insert all happen
// under one row lock so concurrent check-ins on the same room cannot both win.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.Require(ctx, permissions.CapManageReservations)
	if err != nil {
		return res, err
	}

	room, err := s.rooms.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	totalPrice, err := room.TotalPrice(req.ExpectedHours)
	if err != nil {
		return res, err
	}

	reservation := req.ToModel(totalPrice, actor.ID)

	change, err := s.repo.CreateOccupying(ctx, reservation, actor.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	if errors.Is(err, repository.ErrRoomNotAvailable) {
		return res, failure.InvalidStatus("room is not available") //nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create reservation")

		return res, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.publishStatusChange(ctx, change)
	s.invalidateCaches(ctx, reservation.ID)

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") //nolint:wrapcheck
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.Require(ctx, permissions.CapManageReservations)
	if err != nil {
		return err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check reservation existence")

		return err
	}

	if current.ID == constant.Empty {
		return failure.NotFound("reservation not found") //nolint:wrapcheck
	}

	if err := s.repo.Update(ctx, shared.TransformFields(req, actor.ID), filter); err != nil {
		log.Error().Err(err).Msg("failed to update reservation")

		return fmt.Errorf("failed to update reservation: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

// Complete checks the guest out. The reservation closes and the room moves
// to cleaning.
func (s *serviceImpl) Complete(ctx context.Context, id string) error {
	return s.close(ctx, id, model.StatusCompleted, roomModel.StatusCleaning)
}

// Cancel voids an active reservation and frees the room.
func (s *serviceImpl) Cancel(ctx context.Context, id string) error {
	return s.close(ctx, id, model.StatusCancelled, roomModel.StatusAvailable)
}

func (s *serviceImpl) close(ctx context.Context, id, reservationStatus, roomStatus string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".close")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.Require(ctx, permissions.CapManageReservations)
	if err != nil {
		return err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	reservation, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return failure.NotFound("reservation not found") //nolint:wrapcheck
	}

	if !reservation.IsActive() {
		return failure.InvalidStatus("reservation is not active") //nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldStatus:        reservationStatus,
		model.FieldCheckOut:      timezone.Now(),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor.ID,
	}

	if err := s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to close reservation")

		return fmt.Errorf("failed to close reservation: %w", err)
	}

	change, err := s.rooms.ChangeStatus(ctx, reservation.RoomID, roomStatus, actor.ID)
	if errors.Is(err, sql.ErrNoRows) {
		// The room was deleted under the reservation. The reservation is
		// already closed, so only log it.
		log.Warn().Str("room_id", reservation.RoomID).Msg("room missing while closing reservation")
	} else if err != nil {
		log.Error().Err(err).Msg("failed to release room")

		return fmt.Errorf("failed to release room: %w", err)
	} else {
		s.publishStatusChange(ctx, change)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

func (s *serviceImpl) publishStatusChange(ctx context.Context, change roomModel.StatusChange) {
	s.events.PublishRoomStatusChanged(ctx, events.RoomStatusChanged{
		RoomID:         change.RoomID,
		RoomNumber:     change.RoomNumber,
		PreviousStatus: change.PreviousStatus,
		NewStatus:      change.NewStatus,
		ChangedBy:      change.ChangedBy,
		ChangedAt:      change.ChangedAt,
	})
}

func (s *serviceImpl) invalidateCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)

		// Room listings expose status, which changed alongside.
		shared.InvalidateCaches(c, s.cache, "room")
	}()
}
