package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"motel/config"
	"motel/infras/otel"
	"motel/internal/accesscontrol"
	"motel/internal/domains/user/model"
	"motel/internal/domains/user/model/dto"
	"motel/internal/domains/user/repository"
	"motel/permissions"
	"motel/shared"
	"motel/shared/cache"
	"motel/shared/constant"
	gDto "motel/shared/dto"
	"motel/shared/failure"
	"motel/shared/password"
)

const (
	cacheGetUser    = "user:get"
	cacheGetAllUser = "user:gets"
	cacheCountUser  = "user:count"
)

type User interface {
	Create(ctx context.Context, req dto.CreateUserRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Update(ctx context.Context, req dto.UpdateUserRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.User
	guard accesscontrol.Guard
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, guard accesscontrol.Guard, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		guard: guard,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Create registers a user with the requested role. The caller must outrank
// the role it hands out.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateUserRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.RequireManage(ctx, req.TargetRole())
	if err != nil {
		return err
	}

	exist, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters: []any{
			gDto.Filter{
				ArgName:  "username",
				Field:    model.FieldUsername,
				Value:    req.Username,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "email",
				Field:    model.FieldEmail,
				Value:    req.Email,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check user uniqueness")

		return fmt.Errorf("failed to check user uniqueness: %w", err)
	}

	if exist {
		return failure.Conflict("username or email already registered") //nolint:wrapcheck
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err = s.repo.Insert(ctx, req.ToModel(actor.ID, hashed)); err != nil {
		return err
	}

	s.invalidateCaches(ctx, constant.Empty)

	return nil
}

// GetAll lists users the caller may see: super admins see everyone, admins
// see everyone below super admin, receptionists see only themselves.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.Actor(ctx)
	if err != nil {
		return res, err
	}

	filter = scopeFilter(actor, filter)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllUser, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for users")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save users to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.Actor(ctx)
	if err != nil {
		return res, err
	}

	if actor.Role == permissions.RoleReceptionist && actor.ID != id {
		return res, failure.ResourceRestrictedError
	}

	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return res, failure.NotFound("user not found") //nolint:wrapcheck
	}

	if actor.Role == permissions.RoleAdmin && user.RoleValue() == permissions.RoleSuperAdmin {
		return res, failure.ResourceRestrictedError
	}

	res.FromModel(user)

	return res, nil
}

// Update edits a user the caller outranks. Role changes additionally require
// the caller to outrank the new role, and nobody edits their own role.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateUserRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.Actor(ctx)
	if err != nil {
		return err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	target, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if target.ID == constant.Empty {
		return failure.NotFound("user not found") //nolint:wrapcheck
	}

	if _, err := s.guard.RequireManage(ctx, target.RoleValue()); err != nil {
		return err
	}

	if req.Role != constant.Empty && req.Role != target.Role {
		if actor.ID == id {
			return failure.Forbidden("cannot change own role") //nolint:wrapcheck
		}

		if _, err := s.guard.RequireManage(ctx, permissions.Role(req.Role)); err != nil {
			return err
		}
	}

	if err := s.repo.Update(ctx, shared.TransformFields(req, actor.ID), filter); err != nil {
		log.Error().Err(err).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := s.guard.Actor(ctx)
	if err != nil {
		return err
	}

	if actor.ID == id {
		return failure.Forbidden("cannot delete own account") //nolint:wrapcheck
	}

	target, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if target.ID == constant.Empty {
		return failure.NotFound("user not found") //nolint:wrapcheck
	}

	if _, err := s.guard.RequireManage(ctx, target.RoleValue()); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete user")

		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

func (s *serviceImpl) invalidateCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetUser, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete user cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllUser)
		shared.InvalidateCaches(c, s.cache, cacheCountUser)
	}()
}

func scopeFilter(actor accesscontrol.Actor, filter gDto.FilterGroup) gDto.FilterGroup {
	switch actor.Role {
	case permissions.RoleSuperAdmin:
		return filter
	case permissions.RoleAdmin:
		filter.Operator = gDto.FilterGroupOperatorAnd
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldRole,
			Value:    string(permissions.RoleSuperAdmin),
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})

		return filter
	default:
		filter.Operator = gDto.FilterGroupOperatorAnd
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldID,
			Value:    actor.ID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})

		return filter
	}
}
