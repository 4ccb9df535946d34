package main

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type KeyStore interface {
	HasAPIKey(ctx context.Context, key string) (bool, error)
	StoreAPIKey(ctx context.Context, key string) error
}

const maxTrackedClients = 10000

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter keeps one token bucket per key in process memory. Used when
// Redis is not configured.
type LocalLimiter struct {
	mu      sync.Mutex
	buckets map[string]*localBucket
	every   rate.Limit
	burst   int
	// idleTTL is how long an empty bucket takes to fill. A bucket idle for
	// longer is full, so dropping it loses nothing.
	idleTTL time.Duration
	now     func() time.Time
}

func NewLocalLimiter(tokens int, refill time.Duration) *LocalLimiter {
	return &LocalLimiter{
		buckets: make(map[string]*localBucket),
		every:   rate.Every(refill),
		burst:   tokens,
		idleTTL: time.Duration(tokens) * refill,
		now:     time.Now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= maxTrackedClients {
			l.evictIdle(now)
		}
		b = &localBucket{limiter: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1), nil
}

func (l *LocalLimiter) evictIdle(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.idleTTL {
			delete(l.buckets, key)
		}
	}
}

func (l *LocalLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimitMiddleware limits requests per client IP.
func RateLimitMiddleware(limiter Limiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				WriteJSONError(w, http.StatusInternalServerError, "Unable to parse IP address")
				return
			}
			ok, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				logger.Error("rate limiter failed", zap.Error(err))
				WriteJSONError(w, http.StatusInternalServerError, "Internal error")
				return
			}
			if !ok {
				WriteJSONError(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAPIKeyMiddleware(keys KeyStore, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				WriteJSONError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}
			ok, err := keys.HasAPIKey(r.Context(), key)
			if err != nil {
				logger.Error("api key lookup failed", zap.Error(err))
				WriteJSONError(w, http.StatusInternalServerError, "Internal error")
				return
			}
			if !ok {
				WriteJSONError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdminTokenMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				WriteJSONError(w, http.StatusUnauthorized, "Invalid admin token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
