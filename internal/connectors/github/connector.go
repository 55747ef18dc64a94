package github

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
)

// Ensure Connector implements the interfaces.
var (
	_ driven.RepositorySource = (*Connector)(nil)
	_ driven.QuotaSource      = (*Connector)(nil)
)

// Connector reads pull requests, issues and commits of one GitHub repository.
type Connector struct {
	config *Config
	client *Client
	mu     sync.Mutex
}

// New creates a new GitHub connector.
func New(cfg *Config, tokenProvider driven.TokenProvider) *Connector {
	return &Connector{
		config: cfg,
		client: NewClient(tokenProvider, cfg),
	}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return "github"
}

// Repository returns the repository full name.
func (c *Connector) Repository() string {
	return c.config.FullName()
}

// Client returns the underlying API client.
func (c *Connector) Client() *Client {
	return c.client
}

// PullRequests opens the repository's pull requests, oldest first.
func (c *Connector) PullRequests(ctx context.Context) (driven.Cursor[domain.PullRequest], error) {
	list, err := ListPullRequests(ctx, c.client, c.config)
	if err != nil {
		return nil, fmt.Errorf("open pull requests of %s: %w", c.Repository(), err)
	}
	if !c.config.PullRequestDetails {
		return list, nil
	}
	return &detailedPullRequests{list: list, client: c.client, cfg: c.config}, nil
}

// Issues opens the repository's issues, oldest first.
func (c *Connector) Issues(ctx context.Context) (driven.Cursor[domain.Issue], error) {
	list, err := ListIssues(ctx, c.client, c.config)
	if err != nil {
		return nil, fmt.Errorf("open issues of %s: %w", c.Repository(), err)
	}
	return list, nil
}

// PullRequestCommits opens the commits of a pull request, oldest first.
// Nothing is fetched until the cursor is read.
func (c *Connector) PullRequestCommits(_ context.Context, number int) (driven.Cursor[domain.Commit], error) {
	return ListPullRequestCommits(c.client, c.config, number), nil
}

// CommitFiles returns the changed files of a commit.
func (c *Connector) CommitFiles(ctx context.Context, sha string) ([]domain.CommitFile, error) {
	files, err := FetchCommitFiles(ctx, c.client, c.config, sha)
	if err != nil {
		return nil, fmt.Errorf("commit %s files: %w", sha, err)
	}
	return files, nil
}

// Quota returns the most recently reported quota, asking the rate limit
// endpoint when no response has reported one yet.
func (c *Connector) Quota(ctx context.Context) (domain.Quota, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quota, ok := c.client.RateLimiter().Quota(); ok {
		return quota, nil
	}
	quota, err := c.client.RateLimit(ctx)
	if err != nil {
		return domain.Quota{}, fmt.Errorf("rate limit: %w", err)
	}
	return quota, nil
}
