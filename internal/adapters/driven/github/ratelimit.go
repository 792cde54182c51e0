package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/shipnote/internal/logger"
)

const (
	// GitHubRateLimit is the authenticated rate limit (5000/hour).
	GitHubRateLimit = 5000

	// RequestRate spaces consecutive requests from one publisher.
	RequestRate = 1.2

	// QuotaReserve is the remaining-request count at which the publisher
	// stops and waits for the quota to reset.
	QuotaReserve = 1

	// MaxQuotaWait is the longest the publisher sleeps for a reset. Longer
	// waits fail with a RateLimitError instead of stalling the job.
	MaxQuotaWait = time.Minute

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"
)

// RateLimiter tracks the API quota reported by GitHub and gates requests
// on it.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int
	limit     int
	resetTime time.Time
	bucket    *rate.Limiter
	maxWait   time.Duration
}

// NewRateLimiter creates a rate limiter that assumes a full quota.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		remaining: GitHubRateLimit,
		limit:     GitHubRateLimit,
		bucket:    rate.NewLimiter(rate.Limit(RequestRate), 1),
		maxWait:   MaxQuotaWait,
	}
}

// Wait blocks until a request may be sent. When the quota is spent and the
// reset is further away than MaxQuotaWait it returns a *RateLimitError.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	remaining, limit, resetTime := r.remaining, r.limit, r.resetTime
	r.mu.Unlock()

	if remaining >= QuotaReserve || !time.Now().Before(resetTime) {
		return nil
	}

	wait := time.Until(resetTime)
	if wait > r.maxWait {
		return &RateLimitError{ResetAt: resetTime, Remaining: remaining, Limit: limit}
	}

	logger.Debug("github quota spent, waiting %s for reset", wait.Round(time.Second))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
	}
	return nil
}

// UpdateFromResponse records the quota headers of resp.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}
	if limit := resp.Header.Get(HeaderRateLimit); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			r.limit = val
		}
	}
	if reset := resp.Header.Get(HeaderRateReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.resetTime = time.Unix(val, 0)
		}
	}

	logger.Debug("github quota %d/%d remaining", r.remaining, r.limit)
}
