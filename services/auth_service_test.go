package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"gin-bytemarket/dto"
	"gin-bytemarket/infra"
	"gin-bytemarket/migrations"
	"gin-bytemarket/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) IAuthService {
	t.Helper()
	t.Setenv("SECRET_KEY", "test-secret")
	tokenDB, err := infra.NewMemoryDB()
	require.NoError(t, err)
	require.NoError(t, migrations.MigrateTokens(tokenDB))
	return NewAuthService(repositories.NewAuthRepository(newTestDB(t)), repositories.NewTokenRepository(tokenDB))
}

func signupInput(username, email string) dto.SignupInput {
	return dto.SignupInput{
		Username:        username,
		Email:           email,
		Password:        "password123",
		ConfirmPassword: "password123",
	}
}

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	user, err := svc.Signup(ctx, signupInput("alice", "Alice@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, "buyer", user.Role)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "password123", user.Password)

	_, err = svc.Signup(ctx, signupInput("alice", "other@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateUser)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	pair, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	me, err := svc.GetUserFromToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	// a refresh token is not an access token
	_, err = svc.GetUserFromToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)
	_, err := svc.Signup(ctx, signupInput("bob", "bob@example.com"))
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "bob@example.com", "password123")
	require.NoError(t, err)

	next, err := svc.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, next.AccessToken)

	_, err = svc.RefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenBlacklisted)

	_, err = svc.RefreshToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)
	_, err := svc.Signup(ctx, signupInput("carol", "carol@example.com"))
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "carol@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.AccessToken, ""))

	_, err = svc.GetUserFromToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenBlacklisted)

	assert.ErrorIs(t, svc.Logout(ctx, "not-a-jwt", ""), ErrInvalidToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)
	_, err := svc.Signup(ctx, signupInput("grace", "grace@example.com"))
	require.NoError(t, err)
	_, err = svc.Signup(ctx, signupInput("heidi", "heidi@example.com"))
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "grace@example.com", "password123")
	require.NoError(t, err)
	other, err := svc.Login(ctx, "heidi@example.com", "password123")
	require.NoError(t, err)

	// an access token in the refresh slot, or someone else's refresh token, revokes nothing
	assert.ErrorIs(t, svc.Logout(ctx, pair.AccessToken, pair.AccessToken), ErrInvalidToken)
	assert.ErrorIs(t, svc.Logout(ctx, pair.AccessToken, other.RefreshToken), ErrInvalidToken)
	_, err = svc.GetUserFromToken(ctx, pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.AccessToken, pair.RefreshToken))

	_, err = svc.RefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenBlacklisted)
	_, err = svc.RefreshToken(ctx, other.RefreshToken)
	assert.NoError(t, err)
}

func TestEmptySecretRejectsEveryToken(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)
	user, err := svc.Signup(ctx, signupInput("ivan", "ivan@example.com"))
	require.NoError(t, err)

	t.Setenv("SECRET_KEY", "")
	unkeyed := NewAuthService(svc.(*AuthService).repository, svc.(*AuthService).tokenRepository)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Type: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(""))
	require.NoError(t, err)

	_, err = unkeyed.GetUserFromToken(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = unkeyed.Login(ctx, "ivan@example.com", "password123")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)
	dave, err := svc.Signup(ctx, signupInput("dave", "dave@example.com"))
	require.NoError(t, err)
	_, err = svc.Signup(ctx, signupInput("erin", "erin@example.com"))
	require.NoError(t, err)

	taken := "erin@example.com"
	_, err = svc.UpdateProfile(ctx, dave.ID, dto.UpdateProfileInput{Email: &taken})
	assert.ErrorIs(t, err, ErrDuplicateUser)

	name := "david"
	password := "new-password"
	updated, err := svc.UpdateProfile(ctx, dave.ID, dto.UpdateProfileInput{Username: &name, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "david", updated.Username)

	_, err = svc.Login(ctx, "dave@example.com", "new-password")
	assert.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, 999, dto.UpdateProfileInput{Username: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
