package api

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/SimoKiihamaki/dashtabs/internal/config"
)

// DefaultCleanupInterval is how often idle clients are evicted.
const DefaultCleanupInterval = 5 * time.Minute

// RateLimiter is a per-client token bucket. Tokens refill continuously at
// the configured per-minute rate up to burst.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*bucket
	rate    float64 // tokens per second
	burst   float64
	idle    time.Duration
	now     func() time.Time
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter allows requestsPerMinute per client with bursts up to burst.
// Values below one are raised to one.
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		clients: make(map[string]*bucket),
		rate:    float64(requestsPerMinute) / 60,
		burst:   float64(burst),
		idle:    5 * time.Minute,
		now:     time.Now,
	}
}

// limiterFor builds the limiter described by the api section of cfg. Its
// cleanup routine is left to the caller.
func limiterFor(cfg config.Config) *RateLimiter {
	rate, burst := config.DefaultRatePerMin, config.DefaultRateBurst
	if v := cfg.API.RatePerMinute; v != nil {
		rate = *v
	}
	if v := cfg.API.Burst; v != nil {
		burst = *v
	}
	return NewRateLimiter(rate, burst)
}

// clientKey relies on middleware.RealIP having rewritten RemoteAddr from the
// forwarding headers.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit rejects clients that exhausted their bucket with 429.
func (rl *RateLimiter) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := rl.allow(clientKey(r))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Allow takes a token for key if one is available.
func (rl *RateLimiter) Allow(key string) bool {
	ok, _ := rl.allow(key)
	return ok
}

func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, exists := rl.clients[key]
	if !exists {
		b = &bucket{tokens: rl.burst, lastSeen: now}
		rl.clients[key] = b
	}

	b.tokens = math.Min(rl.burst, b.tokens+now.Sub(b.lastSeen).Seconds()*rl.rate)
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	missing := 1 - b.tokens
	return false, time.Duration(missing / rl.rate * float64(time.Second))
}

// Cleanup drops clients that have been idle long enough to be back at a full
// bucket.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, b := range rl.clients {
		if now.Sub(b.lastSeen) > rl.idle {
			delete(rl.clients, key)
		}
	}
}

// CleanupRoutine runs Cleanup every interval until ctx is cancelled.
func (rl *RateLimiter) CleanupRoutine(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (rl *RateLimiter) clientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}
