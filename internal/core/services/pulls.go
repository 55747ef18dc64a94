package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
	"github.com/custodia-labs/ghmine/internal/logger"
)

// PRExtraction holds the pull request fragments and, at the same index,
// the most recent commit of each pull request. A nil commit means the pull
// request has no commits.
type PRExtraction struct {
	Fragments  []domain.PRFragment
	CommitRefs []*domain.Commit
}

// PullRequests reads up to bound pull requests from cursor.
// It stops early, returning a short extraction, when the cursor runs out.
func (e *Extractors) PullRequests(
	ctx context.Context, cursor driven.Cursor[domain.PullRequest], bound int, mode domain.OutputMode,
) (*PRExtraction, error) {
	out := &PRExtraction{
		Fragments:  make([]domain.PRFragment, 0, bound),
		CommitRefs: make([]*domain.Commit, 0, bound),
	}

	logger.Section("Pull Requests")
	e.progress.Start("Pull requests", bound)
	defer e.progress.Finish()

	for i := 0; i < bound; i++ {
		pr, err := Execute(ctx, e.governor, func(ctx context.Context) (domain.PullRequest, error) {
			return cursor.Get(ctx, i)
		})
		if errors.Is(err, domain.ErrIndexOutOfRange) {
			logger.Warn("Only %d pull requests available, wanted %d", i, bound)
			break
		}
		if err != nil {
			return nil, fmt.Errorf("get pull request %d: %w", i, err)
		}

		ref, err := e.lastCommit(ctx, pr.Number)
		if err != nil {
			return nil, fmt.Errorf("get commits of pull request #%d: %w", pr.Number, err)
		}

		out.Fragments = append(out.Fragments, prFragment(pr, mode))
		out.CommitRefs = append(out.CommitRefs, ref)
		logger.Debug("Pull request %d: #%d, has commit=%t", i, pr.Number, ref != nil)
		e.progress.Step()
	}

	return out, nil
}

// lastCommit returns the most recent commit of a pull request, or nil when
// it has none.
func (e *Extractors) lastCommit(ctx context.Context, number int) (*domain.Commit, error) {
	commits, err := Execute(ctx, e.governor, func(ctx context.Context) (driven.Cursor[domain.Commit], error) {
		return e.source.PullRequestCommits(ctx, number)
	})
	if err != nil {
		return nil, err
	}

	total, err := Execute(ctx, e.governor, commits.TotalCount)
	if err != nil {
		return nil, err
	}
	if total < 1 {
		return nil, nil
	}

	commit, err := Execute(ctx, e.governor, func(ctx context.Context) (domain.Commit, error) {
		return commits.Get(ctx, total-1)
	})
	if err != nil {
		return nil, err
	}
	return &commit, nil
}

// prFragment normalises a pull request. Commit mode only keeps the number.
func prFragment(pr domain.PullRequest, mode domain.OutputMode) domain.PRFragment {
	frag := domain.PRFragment{
		Number: domain.Value(strconv.Itoa(pr.Number)),
	}
	if mode != domain.ModePR {
		return frag
	}

	frag.Author = domain.Value(pr.AuthorLogin)
	frag.Body = bodyField(pr.Body)
	frag.ClosedAt = timeField(pr.ClosedAt)
	frag.Comments = commentsField(pr.Comments)
	frag.Title = domain.Value(pr.Title)
	return frag
}
