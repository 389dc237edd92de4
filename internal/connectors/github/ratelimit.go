package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
)

const (
	// DefaultRequestsPerSecond is the default proactive throttle rate.
	DefaultRequestsPerSecond = 10.0

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"
)

// RateLimiter tracks the API rate-limit counters and spaces requests.
// It never retries or waits for a reset; exhausting the quota surfaces
// as a transient error from the API.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int           // From API header
	limit     int           // From API header
	resetTime time.Time     // From API header
	bucket    *rate.Limiter // Proactive throttling, nil when unlimited
}

// NewRateLimiter creates a rate limiter spacing requests at
// requestsPerSecond. Zero or less disables spacing.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	r := &RateLimiter{
		remaining: -1,
		limit:     -1,
	}
	if requestsPerSecond > 0 {
		burst := int(requestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		r.bucket = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
	return r
}

// Wait blocks until the token bucket allows another request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r.bucket == nil {
		return ctx.Err()
	}
	return r.bucket.Wait(ctx)
}

// Observe updates the counters from response headers. Absent or
// non-numeric values leave the previous counters untouched.
func (r *RateLimiter) Observe(header http.Header) {
	if header == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}

	if limit := header.Get(HeaderRateLimit); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			r.limit = val
		}
	}

	if reset := header.Get(HeaderRateReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.resetTime = time.Unix(val, 0)
		}
	}
}

// UpdateFromResponse updates rate limit state from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}
	r.Observe(resp.Header)
}

// State returns the counters of the most recent response carrying them.
func (r *RateLimiter) State() domain.RateLimitState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.RateLimitState{Limit: r.limit, Remaining: r.remaining, ResetAt: r.resetTime}
}
