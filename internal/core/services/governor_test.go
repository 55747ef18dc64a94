package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/logger"
)

func TestWaitDuration(t *testing.T) {
	now := time.Unix(1_000, 0)

	t.Run("seconds until reset", func(t *testing.T) {
		assert.Equal(t, 90*time.Second, WaitDuration(time.Unix(1_090, 0), now))
	})

	t.Run("reset in the past clamps to zero", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), WaitDuration(time.Unix(900, 0), now))
	})

	t.Run("reset now is zero", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), WaitDuration(now, now))
	})
}

func TestExecute(t *testing.T) {
	now := time.Unix(10_000, 0)

	t.Run("returns result without waiting", func(t *testing.T) {
		g, slept := newTestGovernor(&fakeQuota{}, now)

		got, err := Execute(context.Background(), g, func(_ context.Context) (int, error) {
			return 42, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 42, got)
		assert.Empty(t, *slept)
	})

	t.Run("waits until quota reset then retries the same operation", func(t *testing.T) {
		quota := &fakeQuota{quota: domain.Quota{Remaining: 0, ResetAt: now.Add(3 * time.Second)}}
		g, slept := newTestGovernor(quota, now)

		calls := 0
		got, err := Execute(context.Background(), g, func(_ context.Context) (string, error) {
			calls++
			if calls == 1 {
				return "", &domain.RateLimitError{}
			}
			return "ok", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 3*time.Second, sumDurations(*slept))
	})

	t.Run("uses the later of error and quota reset", func(t *testing.T) {
		quota := &fakeQuota{quota: domain.Quota{ResetAt: now.Add(2 * time.Second)}}
		g, slept := newTestGovernor(quota, now)

		calls := 0
		_, err := Execute(context.Background(), g, func(_ context.Context) (int, error) {
			calls++
			if calls == 1 {
				return 0, &domain.RateLimitError{ResetAt: now.Add(5 * time.Second)}
			}
			return 1, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, sumDurations(*slept))
	})

	t.Run("past reset retries immediately", func(t *testing.T) {
		quota := &fakeQuota{quota: domain.Quota{ResetAt: now.Add(-time.Hour)}}
		g, slept := newTestGovernor(quota, now)

		calls := 0
		_, err := Execute(context.Background(), g, func(_ context.Context) (int, error) {
			calls++
			if calls == 1 {
				return 0, &domain.RateLimitError{}
			}
			return 1, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Empty(t, *slept)
	})

	t.Run("unknown reset waits the fallback", func(t *testing.T) {
		quota := &fakeQuota{err: errors.New("offline")}
		g, slept := newTestGovernor(quota, now)

		calls := 0
		_, err := Execute(context.Background(), g, func(_ context.Context) (int, error) {
			calls++
			if calls == 1 {
				return 0, &domain.RateLimitError{}
			}
			return 1, nil
		})

		require.NoError(t, err)
		assert.Equal(t, UnknownResetWait, sumDurations(*slept))
	})

	t.Run("secondary limit without reset waits the fallback", func(t *testing.T) {
		quota := &fakeQuota{quota: domain.Quota{Remaining: 4000, ResetAt: now.Add(time.Hour)}}
		g, slept := newTestGovernor(quota, now)

		calls := 0
		_, err := Execute(context.Background(), g, func(_ context.Context) (int, error) {
			calls++
			if calls == 1 {
				return 0, &domain.RateLimitError{}
			}
			return 1, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, UnknownResetWait, sumDurations(*slept))
	})

	t.Run("secondary limit after the window reset still waits", func(t *testing.T) {
		quota := &fakeQuota{quota: domain.Quota{Remaining: 5000, ResetAt: now.Add(-time.Minute)}}
		g, slept := newTestGovernor(quota, now)

		calls := 0
		_, err := Execute(context.Background(), g, func(_ context.Context) (int, error) {
			calls++
			if calls == 1 {
				return 0, &domain.RateLimitError{}
			}
			return 1, nil
		})

		require.NoError(t, err)
		assert.Equal(t, UnknownResetWait, sumDurations(*slept))
	})

	t.Run("secondary limit with retry after waits only that long", func(t *testing.T) {
		quota := &fakeQuota{quota: domain.Quota{Remaining: 4000, ResetAt: now.Add(time.Hour)}}
		g, slept := newTestGovernor(quota, now)

		calls := 0
		_, err := Execute(context.Background(), g, func(_ context.Context) (int, error) {
			calls++
			if calls == 1 {
				return 0, &domain.RateLimitError{ResetAt: now.Add(30 * time.Second)}
			}
			return 1, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, sumDurations(*slept))
	})

	t.Run("retries without limit", func(t *testing.T) {
		quota := &fakeQuota{quota: domain.Quota{ResetAt: now.Add(time.Second)}}
		g, _ := newTestGovernor(quota, now)

		calls := 0
		_, err := Execute(context.Background(), g, func(_ context.Context) (int, error) {
			calls++
			if calls <= 25 {
				return 0, &domain.RateLimitError{}
			}
			return 1, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 26, calls)
	})

	t.Run("other errors pass through unchanged", func(t *testing.T) {
		g, slept := newTestGovernor(&fakeQuota{}, now)
		boom := errors.New("boom")

		_, err := Execute(context.Background(), g, func(_ context.Context) (int, error) {
			return 0, boom
		})

		assert.Same(t, boom, err)
		assert.Empty(t, *slept)
	})

	t.Run("cancelled wait returns context error", func(t *testing.T) {
		quota := &fakeQuota{quota: domain.Quota{ResetAt: now.Add(time.Minute)}}
		g, _ := newTestGovernor(quota, now)
		g.sleep = func(ctx context.Context, _ time.Duration) error { return context.Canceled }

		_, err := Execute(context.Background(), g, func(_ context.Context) (int, error) {
			return 0, &domain.RateLimitError{}
		})

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("reports countdown to progress", func(t *testing.T) {
		quota := &fakeQuota{quota: domain.Quota{ResetAt: now.Add(3 * time.Second)}}
		progress := &recordingProgress{}
		g := NewRateGovernor(quota, progress)
		g.now = func() time.Time { return now }
		g.sleep = func(context.Context, time.Duration) error { return nil }

		calls := 0
		_, err := Execute(context.Background(), g, func(_ context.Context) (int, error) {
			calls++
			if calls == 1 {
				return 0, &domain.RateLimitError{}
			}
			return 1, nil
		})

		require.NoError(t, err)
		assert.Equal(t, []time.Duration{3 * time.Second, 2 * time.Second, time.Second}, progress.waits)
	})
}

func TestRateGovernor_Do(t *testing.T) {
	quota := &fakeQuota{quota: domain.Quota{ResetAt: time.Unix(5, 0)}}
	g, _ := newTestGovernor(quota, time.Unix(0, 0))

	calls := 0
	err := g.Do(context.Background(), func(_ context.Context) error {
		calls++
		if calls == 1 {
			return &domain.RateLimitError{}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRateGovernor_ReportQuota(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stderr)

	quota := &fakeQuota{quota: domain.Quota{Remaining: 4321, Limit: 5000, ResetAt: time.Unix(0, 0)}}
	g, _ := newTestGovernor(quota, time.Unix(0, 0))

	t.Run("silent unless verbose", func(t *testing.T) {
		logger.SetVerbose(false)
		g.ReportQuota(context.Background())
		assert.Zero(t, quota.calls)
		assert.Empty(t, buf.String())
	})

	t.Run("logs the budget", func(t *testing.T) {
		logger.SetVerbose(true)
		defer logger.SetVerbose(false)

		g.ReportQuota(context.Background())

		assert.Equal(t, 1, quota.calls)
		assert.Contains(t, buf.String(), "4321 of 5000 calls left")
	})
}
