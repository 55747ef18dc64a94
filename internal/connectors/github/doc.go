// Package github implements the repository source for GitHub.
//
// The connector reads a single repository ("owner/repo") through the GitHub
// REST API using go-github. It exposes pull requests, issues and pull request
// commits as lazy, index-addressable cursors, and fetches per-commit file
// details on demand.
//
// # Architecture
//
// The connector implements [driven.RepositorySource] and [driven.QuotaSource].
// It comprises the following components:
//
//   - Connector: opens cursors and reports the quota
//   - Client: handles GitHub API communication, throttling and retries
//   - Config: the repository, listing filters and client tuning
//   - pagedCursor: maps an item index to a cached API page
//
// # Listing
//
// Pull requests are listed with sort=created, direction=asc and a base branch
// filter (default "master"). Issues are listed with sort=created,
// direction=asc and state=closed. The issues endpoint also returns pull
// requests; they are kept and marked with HasPullRequest.
//
// # Rate Limiting
//
// Two mechanisms apply:
//
//  1. Proactive throttling: a token bucket limits requests to approximately
//     1.2 requests per second, staying under the 5,000/hour limit.
//
//  2. Quota tracking: X-RateLimit-Remaining, X-RateLimit-Limit and
//     X-RateLimit-Reset are recorded from every response. An exhausted quota
//     is reported as *domain.RateLimitError carrying the reset time. The
//     client never waits for a reset; the caller's rate governor does.
//
// Server errors and network failures are retried with exponential backoff,
// bounded by Config.MaxRetries.
package github
