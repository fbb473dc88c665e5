package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/platform/logger"
	"github.com/phrazzld/flashforge/internal/store"
)

// PostgresProfileStore implements store.ProfileStore on PostgreSQL.
type PostgresProfileStore struct {
	db  store.DBTX
	now func() time.Time
}

// NewPostgresProfileStore creates a profile store on db.
func NewPostgresProfileStore(db store.DBTX) *PostgresProfileStore {
	return &PostgresProfileStore{db: db, now: time.Now}
}

var _ store.ProfileStore = (*PostgresProfileStore)(nil)

// WithTx implements store.ProfileStore.
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &PostgresProfileStore{db: tx, now: s.now}
}

// Get implements store.ProfileStore.
func (s *PostgresProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	p := domain.Profile{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		`SELECT front_bg_url, back_bg_url, updated_at FROM profiles WHERE user_id = $1`, userID,
	).Scan(&p.Theme.FrontImageURL, &p.Theme.BackImageURL, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProfileNotFound
		}
		return nil, MapError(err)
	}
	return &p, nil
}

// Upsert implements store.ProfileStore.
func (s *PostgresProfileStore) Upsert(ctx context.Context, profile *domain.Profile) error {
	if profile.UserID == uuid.Nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrEmptyUserID)
	}
	if err := profile.Theme.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	profile.UpdatedAt = s.now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, front_bg_url, back_bg_url, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET front_bg_url = EXCLUDED.front_bg_url,
		     back_bg_url = EXCLUDED.back_bg_url,
		     updated_at = EXCLUDED.updated_at`,
		profile.UserID, profile.Theme.FrontImageURL, profile.Theme.BackImageURL, profile.UpdatedAt)
	if err != nil {
		logger.FromContext(ctx).Error("failed to upsert profile",
			"error", err,
			"user_id", profile.UserID)
		return MapError(err)
	}
	return nil
}
