// Package middleware provides the HTTP middleware stack of the storefront.
package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/glamify/pkg/logger"
	"github.com/shashiranjanraj/glamify/pkg/response"
)

// Limiter decides whether the caller identified by key may make another
// request in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// ── In-process fixed window ──────────────────────────────────────────────────

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter counts requests per key in fixed windows. Expired windows are
// swept lazily on Allow so no background goroutine is needed.
type MemoryLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	buckets   map[string]*window
	nextSweep time.Time
}

func NewMemoryLimiter(max int, per time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:     max,
		window:  per,
		now:     time.Now,
		buckets: map[string]*window{},
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextSweep) {
		for k, b := range l.buckets {
			if now.After(b.resetAt) {
				delete(l.buckets, k)
			}
		}
		l.nextSweep = now.Add(l.window)
	}

	b, ok := l.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &window{resetAt: now.Add(l.window)}
		l.buckets[key] = b
	}
	b.count++
	if b.count > l.max {
		return false, b.resetAt.Sub(now), nil
	}
	return true, 0, nil
}

// ── Redis fixed window ───────────────────────────────────────────────────────

// RedisLimiter shares the budget across instances with INCR + PEXPIRE.
type RedisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
	prefix string
}

func NewRedisLimiter(client *redis.Client, max int, per time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, window: per, prefix: "ratelimit:"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	slot := time.Now().UnixNano() / int64(l.window)
	k := fmt.Sprintf("%s%s:%d", l.prefix, key, slot)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.PExpire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, err
	}

	if incr.Val() > int64(l.max) {
		elapsed := time.Duration(time.Now().UnixNano() % int64(l.window))
		return false, l.window - elapsed, nil
	}
	return true, 0, nil
}

// ── Middleware ───────────────────────────────────────────────────────────────

// RateLimit rejects callers over budget with 429. Limiter errors fail open.
func RateLimit(l Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retry, err := l.Allow(r.Context(), ClientIP(r))
			if err != nil {
				logger.WithCtx(r.Context()).Warn("rate limiter unavailable", "error", err)
			}
			if !allowed {
				secs := int((retry + time.Second - 1) / time.Second)
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the first X-Forwarded-For hop, X-Real-Ip, or the remote
// host without its port.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
