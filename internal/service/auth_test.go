package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotenko/storefront/internal/tokens"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newTestRepo(t))
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, "secret", user.PasswordHash)

	res, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)
	assert.False(t, res.IsAdmin)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "user", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(accessTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newTestRepo(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "another")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newTestRepo(t))
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "secret"},
		{name: "empty password", username: "alice", password: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Register(ctx, tt.username, tt.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newTestRepo(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "alice", "not-the-password")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newTestRepo(t))

	res, err := svc.Login(context.Background(), "nobody", "secret")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Refresh_RotatesTokens(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newTestRepo(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	login, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// the old token is revoked by rotation and cannot be replayed
	_, err = svc.Refresh(ctx, login.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newTestRepo(t))

	res, err := svc.Refresh(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LogOut(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newTestRepo(t))
	ctx := context.Background()

	require.NoError(t, svc.LogOut(ctx, ""))

	_, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)
	login, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.LogOut(ctx, login.RefreshToken))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
