package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	perr "taxintake/internal/platform/errors"
	pnet "taxintake/internal/platform/net"
	phttp "taxintake/internal/platform/net/http"
)

const (
	idleBucketTTL   = time.Hour
	cleanupInterval = 30 * time.Minute
)

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// RateLimiter is a per key token bucket. each key holds Capacity tokens and
// is refilled to full once Window has passed since its last refill
type RateLimiter struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	buckets  map[string]*bucket
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter starts a limiter and its idle bucket sweeper; call Stop to end it
func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	if capacity < 1 {
		capacity = 1
	}
	rl := &RateLimiter{
		capacity: capacity,
		window:   window,
		buckets:  make(map[string]*bucket),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

func (rl *RateLimiter) sweep() {
	t := time.NewTicker(cleanupInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			rl.evictIdle()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for k, b := range rl.buckets {
		if now.Sub(b.lastRefill) > idleBucketTTL {
			delete(rl.buckets, k)
		}
	}
}

// Stop ends the sweeper, safe to call more than once
func (rl *RateLimiter) Stop() { rl.stopOnce.Do(func() { close(rl.stop) }) }

// Allow takes a token for key. when none is left it reports false and how
// long until the bucket refills
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		rl.buckets[key] = &bucket{tokens: rl.capacity - 1, lastRefill: now}
		return true, 0
	}
	if now.Sub(b.lastRefill) >= rl.window {
		b.tokens = rl.capacity
		b.lastRefill = now
	}
	if b.tokens <= 0 {
		return false, rl.window - now.Sub(b.lastRefill)
	}
	b.tokens--
	return true, 0
}

// RateLimit rejects requests over the limit with a 429 envelope and a
// Retry-After header. requests are keyed by client IP
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := rl.Allow(pnet.ClientIP(r))
			if !ok {
				secs := int(wait.Round(time.Second) / time.Second)
				w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
				phttp.RespondError(w, r, perr.TooManyRequestsf("too many submissions, retry later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
