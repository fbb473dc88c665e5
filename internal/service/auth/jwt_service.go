package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// IssuePair creates a signed access token and a signed refresh token for the user.
	IssuePair(ctx context.Context, userID uuid.UUID) (*TokenPair, error)

	// ValidateToken validates an access token and extracts its claims.
	// Revoked, expired and refresh tokens are rejected.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// ValidateRefreshToken validates a refresh token and extracts its claims.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)

	// Revoke rejects the token identified by claims until it would have expired anyway.
	Revoke(ctx context.Context, claims *Claims)
}

// TokenPair is the result of a successful sign-in, registration or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// ExpiresAt is the access token's expiry.
	ExpiresAt time.Time
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType is "access" or "refresh".
	TokenType string `json:"type,omitempty"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
