package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
)

// ProfileStore persists per-user card themes.
type ProfileStore interface {
	// Get returns the profile of userID.
	// Returns ErrProfileNotFound if the user never saved one.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// Upsert creates or replaces the profile of profile.UserID.
	Upsert(ctx context.Context, profile *domain.Profile) error

	// WithTx returns a ProfileStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ProfileStore
}
