package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"motel/infras/otel"
	"motel/infras/postgres"
	"motel/internal/domains/reservation/model"
	roomModel "motel/internal/domains/room/model"
	"motel/shared/constant"
	gDto "motel/shared/dto"
	"motel/shared/logger"
	gRepo "motel/shared/repository"
	"motel/shared/timezone"
)

// ErrRoomNotAvailable is returned when a check-in races another stay and the
// room is no longer available by the time its row is locked.
var ErrRoomNotAvailable = errors.New("room is not available")

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	ExistActiveForRoom(ctx context.Context, roomID string) (bool, error)
	CreateOccupying(ctx context.Context, reservation model.Reservation, actor string) (roomModel.StatusChange, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	history gRepo.Repository[roomModel.StatusHistory]
	db      *postgres.Connection
	otel    otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		history:    gRepo.NewRepository[roomModel.StatusHistory](roomModel.HistoryEntityName, roomModel.HistoryTableName, roomModel.HistoryFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ExistActiveForRoom reports whether a room still has an active stay. Used to
// veto room deletion.
func (repo *repositoryImpl) ExistActiveForRoom(ctx context.Context, roomID string) (bool, error) {
	return repo.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Value:    roomID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    model.StatusActive,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	})
}

// CreateOccupying inserts the reservation and moves its room to occupied in
// one transaction. The room row is locked before the availability check so
// two concurrent check-ins on the same room serialize and the loser gets
// ErrRoomNotAvailable instead of a double booking.
func (repo *repositoryImpl) CreateOccupying(ctx context.Context, reservation model.Reservation, actor string) (roomModel.StatusChange, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.CreateOccupying")
	defer scope.End()

	var change roomModel.StatusChange

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return change, fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}
	defer tx.Rollback() //nolint:errcheck

	var (
		number         string
		previousStatus string
	)

	lockQuery := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = $1 FOR UPDATE",
		roomModel.FieldNumber, roomModel.FieldStatus, roomModel.TableName, roomModel.FieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, lockQuery)

	err = tx.QueryRowxContext(ctx, lockQuery, reservation.RoomID).Scan(&number, &previousStatus)
	if err != nil {
		scope.TraceError(err)

		return change, err //nolint:wrapcheck
	}

	if previousStatus != roomModel.StatusAvailable {
		return change, ErrRoomNotAvailable
	}

	changedAt := timezone.Now()

	updateQuery := fmt.Sprintf("UPDATE %s SET %s = $1, modified_at = $2, modified_by = $3 WHERE %s = $4",
		roomModel.TableName, roomModel.FieldStatus, roomModel.FieldID)

	_, err = tx.ExecContext(ctx, updateQuery, roomModel.StatusOccupied, changedAt, actor, reservation.RoomID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return change, fmt.Errorf("failed to occupy room (%s): %w", model.EntityName, err)
	}

	err = repo.history.InsertTx(ctx, tx, roomModel.StatusHistory{
		ID:             uuid.NewString(),
		RoomID:         reservation.RoomID,
		PreviousStatus: previousStatus,
		NewStatus:      roomModel.StatusOccupied,
		ChangedBy:      actor,
		ChangedAt:      changedAt,
	})
	if err != nil {
		scope.TraceError(err)

		return change, err //nolint:wrapcheck
	}

	err = repo.Repository.InsertTx(ctx, tx, reservation)
	if err != nil {
		scope.TraceError(err)

		return change, err //nolint:wrapcheck
	}

	err = tx.Commit()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return change, fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return roomModel.StatusChange{
		RoomID:         reservation.RoomID,
		RoomNumber:     number,
		PreviousStatus: previousStatus,
		NewStatus:      roomModel.StatusOccupied,
		ChangedBy:      actor,
		ChangedAt:      changedAt,
	}, nil
}
