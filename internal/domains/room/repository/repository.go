package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"motel/infras/otel"
	"motel/infras/postgres"
	"motel/internal/domains/room/model"
	"motel/shared/constant"
	gDto "motel/shared/dto"
	"motel/shared/logger"
	gRepo "motel/shared/repository"
	"motel/shared/timezone"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	ChangeStatus(ctx context.Context, roomID, newStatus, actor string) (model.StatusChange, error)
	CountByStatus(ctx context.Context) ([]model.StatusCount, error)
	CountByType(ctx context.Context) ([]model.TypeCount, error)
}

type StatusHistory interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.StatusHistory, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	history gRepo.Repository[model.StatusHistory]
	db      *postgres.Connection
	otel    otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		history:    gRepo.NewRepository[model.StatusHistory](model.HistoryEntityName, model.HistoryTableName, model.HistoryFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type historyImpl struct {
	gRepo.Repository[model.StatusHistory]
}

func NewStatusHistory(db *postgres.Connection, otel otel.Otel) StatusHistory {
	return &historyImpl{
		Repository: gRepo.NewRepository[model.StatusHistory](model.HistoryEntityName, model.HistoryTableName, model.HistoryFieldID, db, otel),
	}
}

// ChangeStatus applies the transition and writes its audit row in one
// transaction. The room row is locked first so concurrent transitions
// serialize and every audit row records the true previous status.
func (repo *repositoryImpl) ChangeStatus(ctx context.Context, roomID, newStatus, actor string) (model.StatusChange, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.ChangeStatus")
	defer scope.End()

	var change model.StatusChange

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
		model.FieldNumber, model.FieldStatus, model.TableName, model.FieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, lockQuery)

	err = tx.QueryRowxContext(ctx, lockQuery, roomID).Scan(&number, &previousStatus)
	if err != nil {
		scope.TraceError(err)

		return change, err //nolint:wrapcheck
	}

	changedAt := timezone.Now()

	updateQuery := fmt.Sprintf("UPDATE %s SET %s = $1, modified_at = $2, modified_by = $3 WHERE %s = $4",
		model.TableName, model.FieldStatus, model.FieldID)

	_, err = tx.ExecContext(ctx, updateQuery, newStatus, changedAt, actor, roomID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return change, fmt.Errorf("failed to update status (%s): %w", model.EntityName, err)
	}

	err = repo.history.InsertTx(ctx, tx, model.StatusHistory{
		ID:             uuid.NewString(),
		RoomID:         roomID,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
		ChangedBy:      actor,
		ChangedAt:      changedAt,
	})
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

	return model.StatusChange{
		RoomID:         roomID,
		RoomNumber:     number,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
		ChangedBy:      actor,
		ChangedAt:      changedAt,
	}, nil
}

func (repo *repositoryImpl) CountByStatus(ctx context.Context) ([]model.StatusCount, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.CountByStatus")
	defer scope.End()

	query := fmt.Sprintf("SELECT %s, COUNT(*) AS count FROM %s GROUP BY %s",
		model.FieldStatus, model.TableName, model.FieldStatus)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var counts []model.StatusCount

	err := repo.db.Read.SelectContext(ctx, &counts, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to count by status (%s): %w", model.EntityName, err)
	}

	return counts, nil
}

func (repo *repositoryImpl) CountByType(ctx context.Context) ([]model.TypeCount, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.CountByType")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT rt.name, COUNT(r.id) AS count FROM %s r JOIN room_types rt ON rt.id = r.%s GROUP BY rt.name",
		model.TableName, model.FieldRoomTypeID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var counts []model.TypeCount

	err := repo.db.Read.SelectContext(ctx, &counts, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to count by room type (%s): %w", model.EntityName, err)
	}

	return counts, nil
}
