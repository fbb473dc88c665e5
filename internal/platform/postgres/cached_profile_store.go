package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/store"
)

// CachedProfileStore serves profile reads from an in-memory TTL cache in
// front of another ProfileStore. Misses are cached too, so a user without a
// profile does not hit the database on every dashboard mount. Upsert
// refreshes the entry.
type CachedProfileStore struct {
	next  store.ProfileStore
	cache *cache.Cache
}

// NewCachedProfileStore wraps next with a cache whose entries live for ttl.
// A zero ttl disables caching.
func NewCachedProfileStore(next store.ProfileStore, ttl time.Duration) store.ProfileStore {
	if ttl <= 0 {
		return next
	}
	return &CachedProfileStore{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// cachedMiss marks a user with no stored profile.
type cachedMiss struct{}

// Get implements store.ProfileStore.
func (c *CachedProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	key := userID.String()
	if v, ok := c.cache.Get(key); ok {
		switch entry := v.(type) {
		case cachedMiss:
			return nil, store.ErrProfileNotFound
		case domain.Profile:
			return &entry, nil
		}
	}

	p, err := c.next.Get(ctx, userID)
	switch {
	case err == nil:
		c.cache.SetDefault(key, *p)
	case store.IsNotFoundError(err):
		c.cache.SetDefault(key, cachedMiss{})
	}
	return p, err
}

// Upsert implements store.ProfileStore.
func (c *CachedProfileStore) Upsert(ctx context.Context, profile *domain.Profile) error {
	key := profile.UserID.String()
	if err := c.next.Upsert(ctx, profile); err != nil {
		c.cache.Delete(key)
		return err
	}
	c.cache.SetDefault(key, *profile)
	return nil
}

// WithTx returns the wrapped store bound to tx. Transactional access bypasses
// the cache.
func (c *CachedProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return c.next.WithTx(tx)
}
