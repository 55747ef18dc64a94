package services

import (
	"context"
	"time"

	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
)

// fakeCursor serves items from memory. throttle maps an index to the number
// of rate limited responses returned before that index succeeds.
type fakeCursor[T any] struct {
	items    []T
	throttle map[int]int
	gets     []int
}

func (c *fakeCursor[T]) Get(_ context.Context, i int) (T, error) {
	c.gets = append(c.gets, i)
	if c.throttle[i] > 0 {
		c.throttle[i]--
		var zero T
		return zero, &domain.RateLimitError{}
	}
	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, domain.ErrIndexOutOfRange
	}
	return c.items[i], nil
}

func (c *fakeCursor[T]) TotalCount(_ context.Context) (int, error) {
	return len(c.items), nil
}

// fakeSource implements driven.RepositorySource for testing.
type fakeSource struct {
	prs        *fakeCursor[domain.PullRequest]
	issues     *fakeCursor[domain.Issue]
	commits    map[int][]domain.Commit
	files      map[string][]domain.CommitFile
	filesCalls int
	listErr    error
}

func (s *fakeSource) PullRequests(_ context.Context) (driven.Cursor[domain.PullRequest], error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.prs, nil
}

func (s *fakeSource) Issues(_ context.Context) (driven.Cursor[domain.Issue], error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.issues, nil
}

func (s *fakeSource) PullRequestCommits(_ context.Context, number int) (driven.Cursor[domain.Commit], error) {
	return &fakeCursor[domain.Commit]{items: s.commits[number]}, nil
}

func (s *fakeSource) CommitFiles(_ context.Context, sha string) ([]domain.CommitFile, error) {
	s.filesCalls++
	return s.files[sha], nil
}

// fakeQuota implements driven.QuotaSource for testing.
type fakeQuota struct {
	quota domain.Quota
	err   error
	calls int
}

func (q *fakeQuota) Quota(_ context.Context) (domain.Quota, error) {
	q.calls++
	return q.quota, q.err
}

// recordingSink captures written rows.
type recordingSink struct {
	header []string
	rows   []domain.Row
	err    error
}

func (s *recordingSink) Write(header []string, rows []domain.Row) error {
	s.header = header
	s.rows = rows
	return s.err
}

// recordingProgress records progress calls.
type recordingProgress struct {
	started []string
	steps   int
	waits   []time.Duration
}

func (p *recordingProgress) Start(description string, _ int) {
	p.started = append(p.started, description)
}
func (p *recordingProgress) Step()   { p.steps++ }
func (p *recordingProgress) Finish() {}
func (p *recordingProgress) Wait(remaining time.Duration) {
	p.waits = append(p.waits, remaining)
}

// newTestGovernor returns a governor with a fixed clock that records sleeps
// instead of blocking.
func newTestGovernor(quota driven.QuotaSource, now time.Time) (*RateGovernor, *[]time.Duration) {
	slept := &[]time.Duration{}
	g := NewRateGovernor(quota, nil)
	g.now = func() time.Time { return now }
	g.sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return g, slept
}

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func sumDurations(ds []time.Duration) time.Duration {
	var total time.Duration
	for _, d := range ds {
		total += d
	}
	return total
}
