package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
	"github.com/custodia-labs/ghmine/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = domain.DefaultTimeout

	// MaxRetries is the default maximum number of retries for transient errors.
	MaxRetries = domain.DefaultMaxRetries

	// RetryDelay is the initial delay between retries.
	RetryDelay = time.Second

	// maxRetryDelay caps the exponential retry delay.
	maxRetryDelay = 30 * time.Second
)

// Client wraps the go-github client with throttling, retries and error mapping.
type Client struct {
	gh            *gh.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
	timeout       time.Duration
	maxRetries    int
	retryDelay    time.Duration
	baseURL       string
}

// NewClient creates a new GitHub API client with a token provider.
func NewClient(tokenProvider driven.TokenProvider, cfg *Config) *Client {
	c := &Client{
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(cfg.RequestsPerSecond),
		timeout:       cfg.Timeout,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    RetryDelay,
		baseURL:       cfg.BaseURL,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	return c
}

// ensureClient initializes the go-github client if not already done.
// This is called lazily so we can get the token when needed.
func (c *Client) ensureClient(ctx context.Context) error {
	if c.gh != nil {
		return nil
	}
	if c.tokenProvider == nil {
		return domain.ErrAuthRequired
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = c.timeout
	client := gh.NewClient(tc)

	if c.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(c.baseURL, "/") + "/")
		if err != nil {
			return fmt.Errorf("parse base url: %w", err)
		}
		client.BaseURL = u
	}

	c.gh = client
	return nil
}

// call runs one API request through the throttle and the transient retry
// policy, recording the quota from every response.
func call[T any](
	ctx context.Context, c *Client, operation string,
	fn func(ctx context.Context, client *gh.Client) (T, *gh.Response, error),
) (T, *gh.Response, error) {
	var zero T
	if err := c.ensureClient(ctx); err != nil {
		return zero, nil, err
	}

	var (
		result T
		resp   *gh.Response
	)
	err := backoff.Retry(func() error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("rate limit wait: %w", err))
		}

		var err error
		result, resp, err = fn(ctx, c.gh)
		c.updateRateLimitFromResponse(resp)
		if err == nil {
			return nil
		}

		err = c.wrapError(err, operation)
		if !isTransient(err) {
			return backoff.Permanent(err)
		}
		logger.Debug("Retrying %s: %v", operation, err)
		return err
	}, c.retryPolicy(ctx))
	if err != nil {
		return zero, resp, err
	}
	return result, resp, nil
}

// retryPolicy returns the exponential backoff used for transient failures.
func (c *Client) retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryDelay
	b.MaxInterval = maxRetryDelay
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)
}

// ListPullRequests fetches one page of pull requests.
func (c *Client) ListPullRequests(
	ctx context.Context, owner, repo string, opts *gh.PullRequestListOptions,
) ([]*gh.PullRequest, *gh.Response, error) {
	return call(ctx, c, "list pull requests",
		func(ctx context.Context, client *gh.Client) ([]*gh.PullRequest, *gh.Response, error) {
			return client.PullRequests.List(ctx, owner, repo, opts)
		})
}

// GetPullRequest fetches a single pull request with all of its counters.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*gh.PullRequest, error) {
	pr, _, err := call(ctx, c, "get pull request",
		func(ctx context.Context, client *gh.Client) (*gh.PullRequest, *gh.Response, error) {
			return client.PullRequests.Get(ctx, owner, repo, number)
		})
	return pr, err
}

// ListIssues fetches one page of issues.
func (c *Client) ListIssues(
	ctx context.Context, owner, repo string, opts *gh.IssueListByRepoOptions,
) ([]*gh.Issue, *gh.Response, error) {
	return call(ctx, c, "list issues",
		func(ctx context.Context, client *gh.Client) ([]*gh.Issue, *gh.Response, error) {
			return client.Issues.ListByRepo(ctx, owner, repo, opts)
		})
}

// ListPullRequestCommits fetches one page of a pull request's commits.
func (c *Client) ListPullRequestCommits(
	ctx context.Context, owner, repo string, number int, opts *gh.ListOptions,
) ([]*gh.RepositoryCommit, *gh.Response, error) {
	return call(ctx, c, "list pull request commits",
		func(ctx context.Context, client *gh.Client) ([]*gh.RepositoryCommit, *gh.Response, error) {
			return client.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		})
}

// GetCommit fetches a single commit including its changed files.
func (c *Client) GetCommit(ctx context.Context, owner, repo, sha string) (*gh.RepositoryCommit, error) {
	commit, _, err := call(ctx, c, "get commit",
		func(ctx context.Context, client *gh.Client) (*gh.RepositoryCommit, *gh.Response, error) {
			return client.Repositories.GetCommit(ctx, owner, repo, sha, nil)
		})
	return commit, err
}

// RateLimit returns the current core rate limit status.
// The rate limit endpoint does not count against the quota and is not throttled.
func (c *Client) RateLimit(ctx context.Context) (domain.Quota, error) {
	if err := c.ensureClient(ctx); err != nil {
		return domain.Quota{}, err
	}

	limits, _, err := c.gh.RateLimit.Get(ctx)
	if err != nil {
		return domain.Quota{}, c.wrapError(err, "get rate limit")
	}

	core := limits.GetCore()
	quota := domain.Quota{
		Remaining: core.Remaining,
		Limit:     core.Limit,
		ResetAt:   core.Reset.Time,
	}
	c.rateLimiter.Set(quota)
	return quota, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	// Primary rate limit: the error carries the reset time.
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &domain.RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	// Secondary rate limit: the error may carry a Retry-After.
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		var resetAt time.Time
		if abuseErr.RetryAfter != nil {
			resetAt = time.Now().Add(*abuseErr.RetryAfter)
		}
		return &domain.RateLimitError{
			ResetAt:   resetAt,
			Remaining: c.rateLimiter.Remaining(),
			Limit:     c.rateLimiter.Limit(),
		}
	}

	// Check for GitHub error response
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil && ghErr.Response.Request.URL != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		if apiErr.StatusCode == 401 {
			return fmt.Errorf("%s: %w: %w", operation, domain.ErrAuthInvalid, apiErr)
		}
		return fmt.Errorf("%s: %w", operation, apiErr)
	}

	return fmt.Errorf("%s: %w", operation, err)
}
