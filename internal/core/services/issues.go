package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
	"github.com/custodia-labs/ghmine/internal/logger"
)

// Issues reads up to bound issues from cursor.
// It stops early, returning a short slice, when the cursor runs out.
func (e *Extractors) Issues(
	ctx context.Context, cursor driven.Cursor[domain.Issue], bound int,
) ([]domain.IssueFragment, error) {
	out := make([]domain.IssueFragment, 0, bound)

	logger.Section("Issues")
	e.progress.Start("Issues", bound)
	defer e.progress.Finish()

	for i := 0; i < bound; i++ {
		issue, err := Execute(ctx, e.governor, func(ctx context.Context) (domain.Issue, error) {
			return cursor.Get(ctx, i)
		})
		if errors.Is(err, domain.ErrIndexOutOfRange) {
			logger.Warn("Only %d issues available, wanted %d", i, bound)
			break
		}
		if err != nil {
			return nil, fmt.Errorf("get issue %d: %w", i, err)
		}

		out = append(out, issueFragment(issue))
		logger.Debug("Issue %d: #%d, isPR=%t", i, issue.Number, issue.HasPullRequest)
		e.progress.Step()
	}

	return out, nil
}

// issueFragment normalises an issue. Every field, including the pull
// request flag, comes from this issue alone.
func issueFragment(issue domain.Issue) domain.IssueFragment {
	return domain.IssueFragment{
		ClosedAt: timeField(issue.ClosedAt),
		Author:   domain.Value(issue.AuthorLogin),
		Title:    domain.Value(issue.Title),
		Body:     bodyField(issue.Body),
		Comments: commentsField(issue.Comments),
		IsPR:     flagField(issue.HasPullRequest),
	}
}
