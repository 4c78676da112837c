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
	"motel/internal/domains/reservation/repository"
	"motel/internal/domains/room/model"
	"motel/internal/domains/room/model/dto"
	roomRepo "motel/internal/domains/room/repository"
	roomTypeModel "motel/internal/domains/roomtype/model"
	roomTypeRepo "motel/internal/domains/roomtype/repository"
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
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"
	cacheRoomStats  = "room:stats"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	Delete(ctx context.Context, id string) error
	ChangeStatus(ctx context.Context, id string, req dto.ChangeStatusRequest) (dto.StatusChangeResponse, error)
	Quote(ctx context.Context, id string, req dto.QuoteRequest) (dto.QuoteResponse, error)
	GetHistory(ctx context.Context, roomID string, params gDto.QueryParams) (dto.GetStatusHistoryResponse, error)
	Stats(ctx context.Context) (dto.RoomStatsResponse, error)
	SyncPricing(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         roomRepo.Room
	history      roomRepo.StatusHistory
	roomTypes    roomTypeRepo.RoomType
	reservations repository.Reservation
	guard        accesscontrol.Guard
	events       events.Publisher
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo roomRepo.Room,
	history roomRepo.StatusHistory,
	roomTypes roomTypeRepo.RoomType,
	reservations repository.Reservation,
	guard accesscontrol.Guard,
	events events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Room {
	return &serviceImpl{
		repo:         repo,
		history:      history,
		roomTypes:    roomTypes,
		reservations: reservations,
		guard:        guard,
		events:       events,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.Require(ctx, permissions.CapManageRooms)
	if err != nil {
		return err
	}

	roomType, err := s.roomTypes.Get(ctx, shared.FilterByID(req.RoomTypeID, roomTypeModel.FieldID, roomTypeModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room type")

		return fmt.Errorf("failed to get room type: %w", err)
	}

	if roomType.ID == constant.Empty {
		return failure.NotFound("room type not found") //nolint:wrapcheck
	}

	exist, err := s.repo.Exist(ctx, filterByNumber(req.Number))
	if err != nil {
		log.Error().Err(err).Msg("failed to check room number")

		return fmt.Errorf("failed to check room number: %w", err)
	}

	if exist {
		return failure.Conflict("room number already exists") //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(roomType, actor.ID)); err != nil {
		return err
	}

	s.invalidateListCaches(ctx)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.Require(ctx, permissions.CapManageRooms)
	if err != nil {
		return err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room existence")

		return err
	}

	if current.ID == constant.Empty {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	if req.Number != constant.Empty && req.Number != current.Number {
		exist, err := s.repo.Exist(ctx, filterByNumber(req.Number))
		if err != nil {
			log.Error().Err(err).Msg("failed to check room number")

			return fmt.Errorf("failed to check room number: %w", err)
		}

		if exist {
			return failure.Conflict("room number already exists") //nolint:wrapcheck
		}
	}

	if err := s.repo.Update(ctx, shared.TransformFields(req, actor.ID), filter); err != nil {
		log.Error().Err(err).Msg("failed to update room")

		return fmt.Errorf("failed to update room: %w", err)
	}

	s.invalidateRoomCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	_, err = s.guard.Require(ctx, permissions.CapManageRooms)
	if err != nil {
		return err
	}

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	activeStay, err := s.reservations.ExistActiveForRoom(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to check active reservations")

		return fmt.Errorf("failed to check active reservations: %w", err)
	}

	if activeStay {
		return failure.Conflict("room has an active reservation") //nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.invalidateRoomCaches(ctx, id)

	return nil
}

// ChangeStatus applies a transition and returns the audit record. Any status
// may move to any other status, so only enum membership is checked.
func (s *serviceImpl) ChangeStatus(ctx context.Context, id string, req dto.ChangeStatusRequest) (res dto.StatusChangeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangeStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !model.ValidStatus(req.Status) {
		return res, failure.InvalidStatus(fmt.Sprintf("invalid room status: %s", req.Status)) //nolint:wrapcheck
	}

	actor, err := s.guard.Require(ctx, permissions.CapChangeRoomStatus)
	if err != nil {
		return res, err
	}

	change, err := s.repo.ChangeStatus(ctx, id, req.Status, actor.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to change room status")

		return res, fmt.Errorf("failed to change room status: %w", err)
	}

	s.events.PublishRoomStatusChanged(ctx, events.RoomStatusChanged{
		RoomID:         change.RoomID,
		RoomNumber:     change.RoomNumber,
		PreviousStatus: change.PreviousStatus,
		NewStatus:      change.NewStatus,
		ChangedBy:      change.ChangedBy,
		ChangedAt:      change.ChangedAt,
	})

	s.invalidateRoomCaches(ctx, id)

	res.FromModel(change)

	return res, nil
}

// Quote prices a hypothetical stay without touching the room.
func (s *serviceImpl) Quote(ctx context.Context, id string, req dto.QuoteRequest) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Quote")
	defer scope.End()
	defer scope.TraceIfError(err)

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	total, err := room.TotalPrice(req.Hours)
	if err != nil {
		return res, err
	}

	return dto.QuoteResponse{
		RoomID:        room.ID,
		RoomNumber:    room.Number,
		Hours:         req.Hours,
		IncludedHours: room.IncludedHours,
		BasePrice:     room.BasePrice,
		TotalPrice:    total,
	}, nil
}

func (s *serviceImpl) GetHistory(ctx context.Context, roomID string, params gDto.QueryParams) (res dto.GetStatusHistoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetHistory")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(roomID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return res, fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	if params.SortBy == constant.Empty {
		params.SortBy = model.HistoryFieldChangedAt
		params.SortDir = constant.DefaultValueSortDir
	}

	filter := shared.FilterByID(roomID, model.HistoryFieldRoomID, model.HistoryTableName)

	total, err := s.history.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count status history")

		return res, fmt.Errorf("failed to count status history: %w", err)
	}

	models, err := s.history.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get status history")

		return res, fmt.Errorf("failed to get status history: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) Stats(ctx context.Context) (res dto.RoomStatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := cacheRoomStats

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room stats")

		return res, nil
	}

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms by status")

		return res, fmt.Errorf("failed to count rooms by status: %w", err)
	}

	byType, err := s.repo.CountByType(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms by type")

		return res, fmt.Errorf("failed to count rooms by type: %w", err)
	}

	res.FromCounts(byStatus, byType)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room stats to cache")
		}
	}()

	return res, nil
}

// SyncPricing re-copies the pricing snapshot from the room's current room
// type. This is the only way a room type price edit reaches existing rooms.
func (s *serviceImpl) SyncPricing(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SyncPricing")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.Require(ctx, permissions.CapManageRooms)
	if err != nil {
		return err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	room, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	roomType, err := s.roomTypes.Get(ctx, shared.FilterByID(room.RoomTypeID, roomTypeModel.FieldID, roomTypeModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room type")

		return fmt.Errorf("failed to get room type: %w", err)
	}

	if roomType.ID == constant.Empty {
		return failure.NotFound("room type not found") //nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldBasePrice:      roomType.BasePrice,
		model.FieldIncludedHours:  roomType.IncludedHours,
		model.FieldExtraHourPrice: roomType.ExtraHourPrice,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  actor.ID,
	}

	if err := s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to sync room pricing")

		return fmt.Errorf("failed to sync room pricing: %w", err)
	}

	s.invalidateRoomCaches(ctx, id)

	return nil
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
		shared.InvalidateCaches(c, s.cache, cacheRoomStats)
	}()
}

func (s *serviceImpl) invalidateRoomCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
		shared.InvalidateCaches(c, s.cache, cacheRoomStats)
	}()
}

func filterByNumber(number string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldNumber,
				Value:    number,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}
