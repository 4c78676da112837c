package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"motel/infras/jwt"
	"motel/internal/domains/auth/model/dto"
	userModel "motel/internal/domains/user/model"
	"motel/shared/timezone"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	user := userModel.User{
		ID:       "user-1",
		Username: "frontdesk",
		Role:     "receptionist",
		Active:   true,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair, user)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, tokenPair.ExpiresIn, response.ExpiresIn)
	assert.Equal(t, user.Username, response.User.Username)
	assert.Equal(t, user.Role, response.User.Role)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
	}

	var response dto.RefreshTokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestUpdateLastLoginRequest(t *testing.T) {
	now := timezone.Now()

	req := dto.UpdateLastLoginRequest{
		LastLogin: now,
	}

	assert.Equal(t, now, req.LastLogin)
}
