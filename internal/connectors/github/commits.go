package github

import (
	"context"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
)

// ListPullRequestCommits opens the commits of pull request number, oldest first.
func ListPullRequestCommits(
	client *Client, cfg *Config, number int,
) driven.Cursor[domain.Commit] {
	return newPagedCursor(cfg.perPage(),
		func(ctx context.Context, page, perPage, first int) ([]domain.Commit, *gh.Response, error) {
			opts := &gh.ListOptions{Page: page, PerPage: perPage}
			commits, resp, err := client.ListPullRequestCommits(ctx, cfg.Owner, cfg.Repo, number, opts)
			if err != nil {
				return nil, resp, err
			}
			out, err := toCommits(commits, first)
			return out, resp, err
		})
}

// FetchCommitFiles returns the changed files of the commit sha.
func FetchCommitFiles(ctx context.Context, client *Client, cfg *Config, sha string) ([]domain.CommitFile, error) {
	commit, err := client.GetCommit(ctx, cfg.Owner, cfg.Repo, sha)
	if err != nil {
		return nil, err
	}

	// Binary and oversized files carry no patch and map to an empty one.
	files := make([]domain.CommitFile, 0, len(commit.Files))
	for _, f := range commit.Files {
		if f == nil {
			continue
		}
		files = append(files, domain.CommitFile{
			Filename:  f.GetFilename(),
			Patch:     f.GetPatch(),
			Status:    f.GetStatus(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Changes:   f.GetChanges(),
		})
	}
	return files, nil
}

func toCommits(commits []*gh.RepositoryCommit, first int) ([]domain.Commit, error) {
	out := make([]domain.Commit, 0, len(commits))
	for i, c := range commits {
		rec, err := toCommit(c, first+i)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// toCommit maps a go-github commit to a domain record. Names come from the
// git commit metadata, not the GitHub accounts.
func toCommit(c *gh.RepositoryCommit, index int) (domain.Commit, error) {
	if c == nil || c.Commit == nil {
		return domain.Commit{}, &domain.MalformedRecordError{Entity: "commit", Index: index, Field: "commit"}
	}
	if c.Commit.Author == nil {
		return domain.Commit{}, &domain.MalformedRecordError{Entity: "commit", Index: index, Field: "author"}
	}

	meta := c.GetCommit()
	rec := domain.Commit{
		SHA:           c.GetSHA(),
		AuthorName:    meta.GetAuthor().GetName(),
		CommitterName: meta.GetCommitter().GetName(),
		Message:       meta.GetMessage(),
	}
	if meta.Author.Date != nil {
		authored := meta.Author.Date.Time
		rec.AuthoredAt = &authored
	}
	return rec, nil
}
