package middleware

import (
	"net/http"
	"sync"
	"time"

	"restonext/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per key within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
}

type rateLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	entries   map[string]*rateEntry
	nextPurge time.Time
	now       func() time.Time
}

// RateLimiter limits each client IP to limit requests per window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	rl := &rateLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*rateEntry),
		now:     time.Now,
	}
	return func(c *gin.Context) {
		ok, retryAt := rl.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", retryAt.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}

func (rl *rateLimiter) allow(key string) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.After(rl.nextPurge) {
		rl.purge(now)
		rl.nextPurge = now.Add(5 * rl.window)
	}

	entry, exists := rl.entries[key]
	if !exists || now.After(entry.windowEnd) {
		entry = &rateEntry{windowEnd: now.Add(rl.window)}
		rl.entries[key] = entry
	}
	entry.count++
	return entry.count <= rl.limit, entry.windowEnd
}

// purge drops expired entries so IPs that never return do not accumulate.
// must hold mu
func (rl *rateLimiter) purge(now time.Time) {
	purged := 0
	for key, entry := range rl.entries {
		if now.After(entry.windowEnd) {
			delete(rl.entries, key)
			purged++
		}
	}
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(rl.entries)).Msg("rate limiter entries purged")
	}
}
