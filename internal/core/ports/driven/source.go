package driven

import (
	"context"

	"github.com/custodia-labs/ghmine/internal/core/domain"
)

// RepositorySource opens the remote collections of a single repository.
// Every method may return a *domain.RateLimitError.
type RepositorySource interface {
	// PullRequests returns the repository's pull requests, oldest first.
	PullRequests(ctx context.Context) (Cursor[domain.PullRequest], error)

	// Issues returns the repository's issues, oldest first.
	Issues(ctx context.Context) (Cursor[domain.Issue], error)

	// PullRequestCommits returns the commits of a pull request, oldest first.
	PullRequestCommits(ctx context.Context, number int) (Cursor[domain.Commit], error)

	// CommitFiles returns the changed files of a commit.
	CommitFiles(ctx context.Context, sha string) ([]domain.CommitFile, error)
}

// QuotaSource reports the remote call budget.
// Only the rate governor reads it.
type QuotaSource interface {
	Quota(ctx context.Context) (domain.Quota, error)
}
