package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"motel/config"
	"motel/infras/jwt"
	jwtMocks "motel/infras/jwt/mocks"
	"motel/infras/otel/mocks"
	"motel/internal/domains/auth/model/dto"
	"motel/internal/domains/auth/service"
	userMocks "motel/internal/domains/user/mocks"
	userModel "motel/internal/domains/user/model"
	"motel/permissions"
	gDto "motel/shared/dto"
	"motel/shared/failure"
	gModel "motel/shared/model"
	"motel/shared/password"
	"motel/shared/timezone"
)

type authServiceMocks struct {
	userRepo *userMocks.MockUser
	jwt      *jwtMocks.MockJWT
}

func newAuthService(t *testing.T, cfg *config.Config) (service.Auth, authServiceMocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := authServiceMocks{
		userRepo: userMocks.NewMockUser(ctrl),
		jwt:      jwtMocks.NewMockJWT(ctrl),
	}

	if cfg == nil {
		cfg = &config.Config{}
	}

	return service.New(m.userRepo, cfg, mocks.NewOtel(), m.jwt), m
}

func hashedPassword(t *testing.T, plain string) string {
	t.Helper()

	hash, err := password.Hash(plain)
	assert.NoError(t, err)

	return hash
}

func TestAuthService_Login(t *testing.T) {
	hash := hashedPassword(t, "s3cret-pass")

	activeUser := userModel.User{
		ID:       "user-id-123",
		Username: "frontdesk",
		Email:    "frontdesk@example.com",
		Password: hash,
		Role:     string(permissions.RoleReceptionist),
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "system",
			ModifiedBy: "system",
		},
	}

	tokenPair := &jwt.TokenPair{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	t.Run("successful login stamps last_login and returns role claims", func(t *testing.T) {
		svc, m := newAuthService(t, nil)

		m.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeUser, nil)
		m.jwt.EXPECT().
			GenerateTokenPair(activeUser.ID, activeUser.Username, activeUser.Role).
			Return(tokenPair, nil)
		m.userRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Contains(t, fields, "last_login")

				return nil
			})

		res, err := svc.Login(context.Background(), dto.LoginRequest{Username: "frontdesk", Password: "s3cret-pass"})

		assert.NoError(t, err)
		assert.Equal(t, tokenPair.AccessToken, res.AccessToken)
		assert.Equal(t, tokenPair.RefreshToken, res.RefreshToken)
		assert.Equal(t, activeUser.Username, res.User.Username)
		assert.Equal(t, activeUser.Role, res.User.Role)
	})

	t.Run("unknown username", func(t *testing.T) {
		svc, m := newAuthService(t, nil)

		m.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{}, nil)

		_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "s3cret-pass"})

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindValidation))
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, m := newAuthService(t, nil)

		m.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeUser, nil)

		_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "frontdesk", Password: "wrong-pass"})

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindValidation))
	})

	t.Run("deactivated account", func(t *testing.T) {
		svc, m := newAuthService(t, nil)

		inactive := activeUser
		inactive.Active = false

		m.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(inactive, nil)

		_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "frontdesk", Password: "s3cret-pass"})

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindValidation))
	})

	t.Run("missed last_login stamp does not fail login", func(t *testing.T) {
		svc, m := newAuthService(t, nil)

		m.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeUser, nil)
		m.jwt.EXPECT().
			GenerateTokenPair(activeUser.ID, activeUser.Username, activeUser.Role).
			Return(tokenPair, nil)
		m.userRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(assert.AnError)

		res, err := svc.Login(context.Background(), dto.LoginRequest{Username: "frontdesk", Password: "s3cret-pass"})

		assert.NoError(t, err)
		assert.Equal(t, tokenPair.AccessToken, res.AccessToken)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("successful refresh", func(t *testing.T) {
		svc, m := newAuthService(t, nil)

		tokenPair := &jwt.TokenPair{
			AccessToken:  "rotated-access",
			RefreshToken: "rotated-refresh",
			TokenType:    "Bearer",
			ExpiresIn:    900,
		}

		m.jwt.EXPECT().
			RefreshTokens("valid-refresh").
			Return(tokenPair, nil)

		res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "valid-refresh"})

		assert.NoError(t, err)
		assert.Equal(t, tokenPair.AccessToken, res.AccessToken)
		assert.Equal(t, tokenPair.RefreshToken, res.RefreshToken)
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		svc, m := newAuthService(t, nil)

		m.jwt.EXPECT().
			RefreshTokens("bogus").
			Return(nil, jwt.ErrInvalidToken)

		_, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "bogus"})

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindUnauthorized))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	hash := hashedPassword(t, "old-password")

	user := userModel.User{
		ID:       "user-id-123",
		Username: "frontdesk",
		Password: hash,
		Role:     string(permissions.RoleReceptionist),
		Active:   true,
	}

	t.Run("successful change rehashes the password", func(t *testing.T) {
		svc, m := newAuthService(t, nil)

		m.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(user, nil)
		m.userRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				stored, ok := fields["password"].(string)
				assert.True(t, ok)
				assert.NotEqual(t, "new-password-1", stored)
				assert.NoError(t, password.Verify("new-password-1", stored))

				return nil
			})

		err := svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{
			CurrentPassword: "old-password",
			NewPassword:     "new-password-1",
		}, user.ID)

		assert.NoError(t, err)
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, m := newAuthService(t, nil)

		m.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(user, nil)

		err := svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{
			CurrentPassword: "not-the-old-one",
			NewPassword:     "new-password-1",
		}, user.ID)

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindValidation))
	})

	t.Run("user not found", func(t *testing.T) {
		svc, m := newAuthService(t, nil)

		m.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{}, nil)

		err := svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{
			CurrentPassword: "old-password",
			NewPassword:     "new-password-1",
		}, "missing-id")

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})
}

func TestAuthService_Bootstrap(t *testing.T) {
	bootstrapConfig := func() *config.Config {
		cfg := &config.Config{}
		cfg.Bootstrap.Username = "root-admin"
		cfg.Bootstrap.Email = "root@example.com"
		cfg.Bootstrap.Password = "bootstrap-pass"

		return cfg
	}

	t.Run("creates the initial super admin", func(t *testing.T) {
		svc, m := newAuthService(t, bootstrapConfig())

		m.userRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)
		m.userRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user userModel.User) error {
				assert.Equal(t, "root-admin", user.Username)
				assert.Equal(t, string(permissions.RoleSuperAdmin), user.Role)
				assert.True(t, user.Active)
				assert.Equal(t, "system", user.CreatedBy)
				assert.NotEqual(t, "bootstrap-pass", user.Password)
				assert.NoError(t, password.Verify("bootstrap-pass", user.Password))

				return nil
			})

		err := svc.Bootstrap(context.Background())

		assert.NoError(t, err)
	})

	t.Run("no-op when a super admin already exists", func(t *testing.T) {
		svc, m := newAuthService(t, bootstrapConfig())

		m.userRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.Bootstrap(context.Background())

		assert.NoError(t, err)
	})

	t.Run("no-op when credentials are not configured", func(t *testing.T) {
		svc, m := newAuthService(t, nil)

		m.userRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Bootstrap(context.Background())

		assert.NoError(t, err)
	})
}
