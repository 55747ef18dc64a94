package services

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
	"github.com/custodia-labs/ghmine/internal/logger"
)

// UnknownResetWait is waited when neither the failing call nor the quota
// report a reset time.
const UnknownResetWait = time.Minute

// RateGovernor runs remote calls and waits out quota exhaustion.
//
// A rate limited call is retried with no retry limit: the quota always
// resets, so a persistently exhausted quota blocks until it does.
type RateGovernor struct {
	quota    driven.QuotaSource
	progress driven.Progress
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewRateGovernor creates a governor reading the quota from quota.
// A nil progress is silent.
func NewRateGovernor(quota driven.QuotaSource, progress driven.Progress) *RateGovernor {
	if progress == nil {
		progress = nopProgress{}
	}
	return &RateGovernor{
		quota:    quota,
		progress: progress,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Execute runs op and returns its result. When op reports a rate limit,
// Execute waits for the quota to reset and runs the same op again.
// Any other error is returned unchanged.
func Execute[T any](ctx context.Context, g *RateGovernor, op func(ctx context.Context) (T, error)) (T, error) {
	for {
		result, err := op(ctx)

		var rateErr *domain.RateLimitError
		if !errors.As(err, &rateErr) {
			if err == nil {
				g.logRemaining(ctx)
			}
			return result, err
		}

		logger.Warn("Rate limit exceeded: %v", rateErr)
		if err := g.waitForReset(ctx, rateErr); err != nil {
			var zero T
			return zero, err
		}
	}
}

// Do is Execute for operations without a result.
func (g *RateGovernor) Do(ctx context.Context, op func(ctx context.Context) error) error {
	_, err := Execute(ctx, g, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// WaitDuration returns the whole seconds from now until reset, never negative.
func WaitDuration(reset, now time.Time) time.Duration {
	wait := reset.Unix() - now.Unix()
	if wait < 0 {
		return 0
	}
	return time.Duration(wait) * time.Second
}

// waitForReset blocks until the later of the error's and the quota's reset time.
// A limit hit while the quota still has calls left is a secondary limit: the
// quota's reset does not apply, so only the error's reset is used, and
// UnknownResetWait when it has none.
func (g *RateGovernor) waitForReset(ctx context.Context, rateErr *domain.RateLimitError) error {
	reset := rateErr.ResetAt
	if g.quota != nil {
		quota, err := g.quota.Quota(ctx)
		switch {
		case err != nil:
			logger.Debug("Quota lookup failed: %v", err)
		case quota.Remaining > 0:
			logger.Debug("Secondary rate limit with %d calls left", quota.Remaining)
		case quota.ResetAt.After(reset):
			reset = quota.ResetAt
		}
	}

	var wait time.Duration
	if reset.IsZero() {
		wait = UnknownResetWait
	} else {
		wait = WaitDuration(reset, g.now())
	}

	logger.Info("Waiting %s for rate limit reset", wait)
	for remaining := wait; remaining > 0; remaining -= time.Second {
		g.progress.Wait(remaining)
		step := time.Second
		if remaining < step {
			step = remaining
		}
		if err := g.sleep(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

// ReportQuota logs the current call budget. It is a no-op unless verbose.
func (g *RateGovernor) ReportQuota(ctx context.Context) {
	if g.quota == nil || !logger.IsVerbose() {
		return
	}
	quota, err := g.quota.Quota(ctx)
	if err != nil {
		logger.Debug("Quota lookup failed: %v", err)
		return
	}
	logger.Info("Rate limit: %d of %d calls left, resets at %s",
		quota.Remaining, quota.Limit, quota.ResetAt.Format(time.RFC3339))
}

// logRemaining reports the calls left in the current window.
func (g *RateGovernor) logRemaining(ctx context.Context) {
	if g.quota == nil || !logger.IsVerbose() {
		return
	}
	quota, err := g.quota.Quota(ctx)
	if err != nil {
		return
	}
	logger.Debug("calls left: %4d", quota.Remaining)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// nopProgress discards progress updates.
type nopProgress struct{}

func (nopProgress) Start(string, int)  {}
func (nopProgress) Step()              {}
func (nopProgress) Finish()            {}
func (nopProgress) Wait(time.Duration) {}
