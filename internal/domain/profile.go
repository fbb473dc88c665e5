package domain

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProfileTheme is the per-user background imagery applied to card faces.
// Empty URLs mean "no image" for that face.
type ProfileTheme struct {
	FrontImageURL string `json:"front_bg_url"`
	BackImageURL  string `json:"back_bg_url"`
}

// Profile is the stored profile row for a user.
type Profile struct {
	UserID    uuid.UUID    `json:"user_id"`
	Theme     ProfileTheme `json:"theme"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Validate checks that both image URLs are either empty or absolute http(s) URLs.
func (t ProfileTheme) Validate() error {
	for _, raw := range []string{t.FrontImageURL, t.BackImageURL} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return NewValidationError("image_url", "must be an absolute http(s) URL", ErrValidation)
		}
	}
	return nil
}
