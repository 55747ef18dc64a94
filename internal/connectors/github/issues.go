package github

import (
	"context"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
)

// ListIssues opens the repository's issues, oldest first.
// The issues endpoint also returns pull requests; they are kept and flagged.
func ListIssues(ctx context.Context, client *Client, cfg *Config) (driven.Cursor[domain.Issue], error) {
	cursor := newPagedCursor(cfg.perPage(),
		func(ctx context.Context, page, perPage, first int) ([]domain.Issue, *gh.Response, error) {
			opts := &gh.IssueListByRepoOptions{
				State:     cfg.IssueState,
				Sort:      "created",
				Direction: "asc",
				ListOptions: gh.ListOptions{
					Page:    page,
					PerPage: perPage,
				},
			}
			issues, resp, err := client.ListIssues(ctx, cfg.Owner, cfg.Repo, opts)
			if err != nil {
				return nil, resp, err
			}
			out, err := toIssues(issues, first)
			return out, resp, err
		})

	if _, err := cursor.page(ctx, 1); err != nil {
		if IsNotFound(err) {
			return nil, ErrRepoNotFound
		}
		return nil, err
	}
	return cursor, nil
}

func toIssues(issues []*gh.Issue, first int) ([]domain.Issue, error) {
	out := make([]domain.Issue, 0, len(issues))
	for i, issue := range issues {
		rec, err := toIssue(issue, first+i)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// toIssue maps a go-github issue to a domain record.
func toIssue(issue *gh.Issue, index int) (domain.Issue, error) {
	if issue == nil {
		return domain.Issue{}, &domain.MalformedRecordError{Entity: "issue", Index: index, Field: "record"}
	}
	if issue.User == nil {
		return domain.Issue{}, &domain.MalformedRecordError{Entity: "issue", Index: index, Field: "user"}
	}

	rec := domain.Issue{
		Number:         issue.GetNumber(),
		AuthorLogin:    issue.GetUser().GetLogin(),
		Title:          issue.GetTitle(),
		Body:           issue.Body,
		Comments:       issue.GetComments(),
		HasPullRequest: issue.IsPullRequest(),
	}
	if issue.ClosedAt != nil {
		closed := issue.ClosedAt.Time
		rec.ClosedAt = &closed
	}
	return rec, nil
}
