package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"motel/config"
	"motel/infras/jwt"
	"motel/infras/otel"
	"motel/internal/domains/auth/model/dto"
	userModel "motel/internal/domains/user/model"
	userDto "motel/internal/domains/user/model/dto"
	userRepo "motel/internal/domains/user/repository"
	"motel/permissions"
	"motel/shared"
	"motel/shared/constant"
	gDto "motel/shared/dto"
	"motel/shared/failure"
	"motel/shared/password"
	"motel/shared/timezone"
)

type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) error
	Bootstrap(ctx context.Context) error
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.userRepo.Get(ctx, filterByUsername(req.Username))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		log.Warn().Str("username", req.Username).Msg("login attempt with unknown username")

		return res, failure.BadRequestFromString("invalid username or password")
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("username", req.Username).Msg("login attempt with wrong password")

		return res, failure.BadRequestFromString("invalid username or password")
	}

	if !user.Active {
		return res, failure.BadRequestFromString("user account is deactivated")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	lastLogin := dto.UpdateLastLoginRequest{LastLogin: timezone.Now()}
	updatedFields := shared.TransformFields(lastLogin, user.Username)

	if err := s.userRepo.Update(ctx, updatedFields, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		// The session is already established, a missed stamp is not fatal.
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	}

	res.FromTokenPair(tokenPair, user)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	tokenPair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token")
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(userID, userModel.FieldID, userModel.TableName)

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return failure.NotFound("user")
	}

	if err := password.Verify(req.CurrentPassword, user.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect")
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatePassword := dto.UpdatePasswordRequest{Password: hashedPassword}
	updatedFields := shared.TransformFields(updatePassword, user.Username)

	if err = s.userRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// Bootstrap seeds the initial super admin account. It is a no-op when any
// super admin already exists or when bootstrap credentials are not configured.
func (s *serviceImpl) Bootstrap(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Bootstrap")
	defer scope.End()
	defer scope.TraceIfError(err)

	exists, err := s.userRepo.Exist(ctx, filterByRole(string(permissions.RoleSuperAdmin)))
	if err != nil {
		log.Error().Err(err).Msg("failed to check for existing super admin")

		return fmt.Errorf("failed to check for existing super admin: %w", err)
	}

	if exists {
		return nil
	}

	if s.cfg.Bootstrap.Username == constant.Empty || s.cfg.Bootstrap.Password == constant.Empty {
		log.Warn().Msg("no super admin exists and bootstrap credentials are not configured")

		return nil
	}

	hashedPassword, err := password.Hash(s.cfg.Bootstrap.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash bootstrap password")

		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	seed := userDto.CreateUserRequest{
		Username: s.cfg.Bootstrap.Username,
		Email:    s.cfg.Bootstrap.Email,
		Role:     string(permissions.RoleSuperAdmin),
	}

	if err = s.userRepo.Insert(ctx, seed.ToModel(constant.ContextSystem, hashedPassword)); err != nil {
		log.Error().Err(err).Msg("failed to create bootstrap super admin")

		return fmt.Errorf("failed to create bootstrap super admin: %w", err)
	}

	log.Info().Str("username", s.cfg.Bootstrap.Username).Msg("bootstrap super admin created")

	return nil
}

func filterByUsername(username string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldUsername,
				Operator: gDto.FilterOperatorEq,
				Value:    username,
				Table:    userModel.TableName,
			},
		},
	}
}

func filterByRole(role string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldRole,
				Operator: gDto.FilterOperatorEq,
				Value:    role,
				Table:    userModel.TableName,
			},
		},
	}
}
