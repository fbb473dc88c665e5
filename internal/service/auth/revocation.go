package auth

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// RevocationList remembers revoked token ids until their tokens expire.
// Entries live in process memory, so a restart forgets them; token lifetimes
// bound the exposure.
type RevocationList struct {
	ids *cache.Cache
}

// NewRevocationList creates an empty list that sweeps expired ids every cleanup interval.
func NewRevocationList(cleanup time.Duration) *RevocationList {
	return &RevocationList{ids: cache.New(cache.NoExpiration, cleanup)}
}

// Revoke marks jti as revoked until the given time. Ids already past their
// expiry are ignored.
func (r *RevocationList) Revoke(jti string, until, now time.Time) {
	if jti == "" {
		return
	}
	ttl := until.Sub(now)
	if ttl <= 0 {
		return
	}
	r.ids.Set(jti, struct{}{}, ttl)
}

// IsRevoked reports whether jti has been revoked and not yet expired.
func (r *RevocationList) IsRevoked(jti string) bool {
	_, found := r.ids.Get(jti)
	return found
}

// Len returns the number of live entries, including ones awaiting cleanup.
func (r *RevocationList) Len() int {
	return r.ids.ItemCount()
}
