package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`

	// ExpiresAt is the access token's expiry, RFC 3339 encoded.
	ExpiresAt time.Time `json:"expires_at"`
}

// ProfileRequest is the body of PUT /api/profiles/{id}. Empty URLs clear the
// corresponding face.
type ProfileRequest struct {
	FrontImageURL string `json:"front_bg_url" validate:"omitempty,max=2048"`
	BackImageURL  string `json:"back_bg_url"  validate:"omitempty,max=2048"`
}

// Theme converts the request into a domain theme.
func (r ProfileRequest) Theme() domain.ProfileTheme {
	return domain.ProfileTheme{FrontImageURL: r.FrontImageURL, BackImageURL: r.BackImageURL}
}

// ProfileResponse is the wire form of a profile.
type ProfileResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	FrontImageURL string    `json:"front_bg_url"`
	BackImageURL  string    `json:"back_bg_url"`
}

func profileToResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:        p.UserID,
		FrontImageURL: p.Theme.FrontImageURL,
		BackImageURL:  p.Theme.BackImageURL,
	}
}

// FlashcardsRequest is the body of POST /api/flashcards. Count, style and
// mode are optional and fall back to their defaults; an out-of-range count
// is clamped.
type FlashcardsRequest struct {
	Notes string       `json:"notes"`
	Count int          `json:"count"`
	Style domain.Style `json:"style"`
	Mode  domain.Mode  `json:"mode"`
}

// FlashcardsResponse is the success body of POST /api/flashcards.
type FlashcardsResponse struct {
	Title      string             `json:"title"`
	Flashcards []domain.Flashcard `json:"flashcards"`
}
