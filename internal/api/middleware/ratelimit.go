package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/phrazzld/flashforge/internal/api/shared"
	"golang.org/x/time/rate"
)

// RateLimiter applies a token bucket per authenticated user. Buckets for
// users idle longer than the idle timeout are dropped.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters *cache.Cache
}

// NewRateLimiter allows perMinute requests per user with the given burst.
func NewRateLimiter(perMinute, burst int, idle time.Duration) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		limiters: cache.New(idle, idle),
	}
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.limiters.Get(key); ok {
		lim := v.(*rate.Limiter)
		l.limiters.SetDefault(key, lim)
		return lim
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.limiters.SetDefault(key, lim)
	return lim
}

// Allow reports whether key may proceed now; when it may not, it returns how
// long until the next token.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	lim := l.limiter(key)
	r := lim.Reserve()
	if !r.OK() {
		return false, time.Minute
	}
	delay := r.Delay()
	if delay == 0 {
		return true, 0
	}
	r.Cancel()
	return false, delay
}

// Middleware rejects over-limit requests with 429 and a Retry-After header.
// It must run after AuthMiddleware; unauthenticated requests are keyed by
// remote address.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if userID, ok := shared.UserID(r.Context()); ok {
			key = userID.String()
		}

		if ok, wait := l.Allow(key); !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			shared.RespondWithError(w, r, http.StatusTooManyRequests,
				"Too many generation requests. Please wait a moment and try again.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
