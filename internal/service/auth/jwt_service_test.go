package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
		BCryptCost:                  4,
	}
}

// clock is a settable time source.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestService(t *testing.T) (*hmacJWTService, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc, err := newHMACJWTService(testAuthConfig(), c.Now)
	require.NoError(t, err)
	return svc, c
}

func TestNewJWTService_RejectsShortSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWTSecret = "too-short"

	_, err := NewJWTService(cfg)

	assert.ErrorIs(t, err, ErrWeakSecret)
}

func TestIssuePair(t *testing.T) {
	svc, c := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	pair, err := svc.IssuePair(ctx, userID)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, c.now.Add(time.Hour), pair.ExpiresAt)

	access, err := svc.ValidateToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, access.UserID)
	assert.Equal(t, TokenTypeAccess, access.TokenType)
	assert.Equal(t, userID.String(), access.Subject)
	assert.Equal(t, c.now.Add(time.Hour), access.ExpiresAt.UTC())
	assert.NotEmpty(t, access.ID)

	refresh, err := svc.ValidateRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
	assert.Equal(t, c.now.Add(24*time.Hour), refresh.ExpiresAt.UTC())
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestValidateToken_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("expired", func(t *testing.T) {
		svc, c := newTestService(t)
		pair, err := svc.IssuePair(ctx, uuid.New())
		require.NoError(t, err)

		c.now = c.now.Add(2 * time.Hour)

		_, err = svc.ValidateToken(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("within clock skew", func(t *testing.T) {
		svc, c := newTestService(t)
		pair, err := svc.IssuePair(ctx, uuid.New())
		require.NoError(t, err)

		c.now = c.now.Add(time.Hour + time.Minute)

		_, err = svc.ValidateToken(ctx, pair.AccessToken)
		assert.NoError(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.ValidateToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("foreign signature", func(t *testing.T) {
		svc, _ := newTestService(t)
		other := testAuthConfig()
		other.JWTSecret = "another-secret-that-is-also-32-chars!"
		foreign, err := newHMACJWTService(other, time.Now)
		require.NoError(t, err)
		pair, err := foreign.IssuePair(ctx, uuid.New())
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token used as access token", func(t *testing.T) {
		svc, _ := newTestService(t)
		pair, err := svc.IssuePair(ctx, uuid.New())
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, ErrWrongTokenType)

		_, err = svc.ValidateRefreshToken(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		svc, c := newTestService(t)
		pair, err := svc.IssuePair(ctx, uuid.New())
		require.NoError(t, err)

		c.now = c.now.Add(48 * time.Hour)

		_, err = svc.ValidateRefreshToken(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, ErrExpiredRefreshToken)
	})

	t.Run("garbage refresh token", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.ValidateRefreshToken(ctx, "garbage")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestRevoke(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	pair, err := svc.IssuePair(ctx, uuid.New())
	require.NoError(t, err)
	claims, err := svc.ValidateToken(ctx, pair.AccessToken)
	require.NoError(t, err)

	svc.Revoke(ctx, claims)
	svc.Revoke(ctx, nil)

	_, err = svc.ValidateToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrRevokedToken)

	// the refresh token of the same pair is independent
	_, err = svc.ValidateRefreshToken(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}
