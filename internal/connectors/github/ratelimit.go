package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ghmine/internal/core/domain"
)

const (
	// ProactiveRate is the default proactive throttle rate (~1.2 req/sec = 4320/hr).
	ProactiveRate = domain.DefaultRequestsPerSecond

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"
)

// RateLimiter throttles requests and tracks the quota GitHub reports.
//
// It never waits for a quota reset itself. Exhausted quotas surface as
// *domain.RateLimitError and the caller decides how to wait.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int           // From API header
	limit     int           // From API header
	resetTime time.Time     // From API header
	known     bool          // Headers seen at least once
	bucket    *rate.Limiter // Proactive throttling, nil when disabled
}

// NewRateLimiter creates a rate limiter allowing requestsPerSecond.
// A non-positive rate disables proactive throttling.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	r := &RateLimiter{}
	if requestsPerSecond > 0 {
		r.bucket = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return r
}

// Wait blocks until the token bucket admits another request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r.bucket == nil {
		return ctx.Err()
	}
	return r.bucket.Wait(ctx)
}

// UpdateFromResponse updates rate limit state from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Parse X-RateLimit-Remaining
	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
			r.known = true
		}
	}

	// Parse X-RateLimit-Limit
	if limit := resp.Header.Get(HeaderRateLimit); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			r.limit = val
		}
	}

	// Parse X-RateLimit-Reset (Unix timestamp)
	if reset := resp.Header.Get(HeaderRateReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.resetTime = time.Unix(val, 0)
		}
	}
}

// Set records a quota obtained from the rate limit endpoint.
func (r *RateLimiter) Set(q domain.Quota) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = q.Remaining
	r.limit = q.Limit
	r.resetTime = q.ResetAt
	r.known = true
}

// Quota returns the last reported quota and whether any was reported yet.
func (r *RateLimiter) Quota() (domain.Quota, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.Quota{
		Remaining: r.remaining,
		Limit:     r.limit,
		ResetAt:   r.resetTime,
	}, r.known
}

// Remaining returns the current remaining requests.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Limit returns the rate limit.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

// ResetTime returns the rate limit reset time.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}
