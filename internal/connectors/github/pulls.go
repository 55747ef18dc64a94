package github

import (
	"context"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
)

// ListPullRequests opens the repository's pull requests, oldest first.
func ListPullRequests(ctx context.Context, client *Client, cfg *Config) (driven.Cursor[domain.PullRequest], error) {
	cursor := newPagedCursor(cfg.perPage(),
		func(ctx context.Context, page, perPage, first int) ([]domain.PullRequest, *gh.Response, error) {
			opts := &gh.PullRequestListOptions{
				State:     cfg.PRState,
				Base:      cfg.BaseBranch,
				Sort:      "created",
				Direction: "asc",
				ListOptions: gh.ListOptions{
					Page:    page,
					PerPage: perPage,
				},
			}
			prs, resp, err := client.ListPullRequests(ctx, cfg.Owner, cfg.Repo, opts)
			if err != nil {
				return nil, resp, err
			}
			out, err := toPullRequests(prs, first)
			return out, resp, err
		})

	// The first page doubles as the repository lookup.
	if _, err := cursor.page(ctx, 1); err != nil {
		if IsNotFound(err) {
			return nil, ErrRepoNotFound
		}
		return nil, err
	}
	return cursor, nil
}

// detailedPullRequests completes every listed pull request with a detail
// request, since list responses omit the comment count.
type detailedPullRequests struct {
	list   driven.Cursor[domain.PullRequest]
	client *Client
	cfg    *Config
}

// Get returns the fully populated pull request at index i.
func (d *detailedPullRequests) Get(ctx context.Context, i int) (domain.PullRequest, error) {
	listed, err := d.list.Get(ctx, i)
	if err != nil {
		return domain.PullRequest{}, err
	}
	pr, err := d.client.GetPullRequest(ctx, d.cfg.Owner, d.cfg.Repo, listed.Number)
	if err != nil {
		return domain.PullRequest{}, err
	}
	return toPullRequest(pr, i)
}

// TotalCount returns the number of listed pull requests.
func (d *detailedPullRequests) TotalCount(ctx context.Context) (int, error) {
	return d.list.TotalCount(ctx)
}

func toPullRequests(prs []*gh.PullRequest, first int) ([]domain.PullRequest, error) {
	out := make([]domain.PullRequest, 0, len(prs))
	for i, pr := range prs {
		rec, err := toPullRequest(pr, first+i)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// toPullRequest maps a go-github pull request to a domain record.
func toPullRequest(pr *gh.PullRequest, index int) (domain.PullRequest, error) {
	if pr == nil {
		return domain.PullRequest{}, &domain.MalformedRecordError{Entity: "pull request", Index: index, Field: "record"}
	}
	if pr.User == nil {
		return domain.PullRequest{}, &domain.MalformedRecordError{Entity: "pull request", Index: index, Field: "user"}
	}

	rec := domain.PullRequest{
		Number:      pr.GetNumber(),
		AuthorLogin: pr.GetUser().GetLogin(),
		Title:       pr.GetTitle(),
		Body:        pr.Body,
		Comments:    pr.GetComments(),
	}
	if pr.ClosedAt != nil {
		closed := pr.ClosedAt.Time
		rec.ClosedAt = &closed
	}
	return rec, nil
}
