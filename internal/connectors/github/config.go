package github

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/ghmine/internal/core/domain"
)

// Config holds the parsed configuration for one repository source.
type Config struct {
	// Owner and Repo name the repository ("owner/repo").
	Owner string
	Repo  string

	// BaseBranch filters listed pull requests. Empty lists every base.
	BaseBranch string

	// PRState and IssueState filter the listed pull requests and issues.
	PRState    string
	IssueState string

	// PerPage is the page size requested from the API (1-100).
	PerPage int

	// PullRequestDetails fetches each pull request individually so that
	// fields missing from list responses (comment count) are populated.
	PullRequestDetails bool

	// RequestsPerSecond is the proactive throttle. Zero or less disables it.
	RequestsPerSecond float64

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// MaxRetries bounds retries of transient failures.
	MaxRetries int

	// BaseURL overrides the API endpoint. Empty means api.github.com.
	BaseURL string
}

// NewConfig builds a Config for repoName ("owner/repo") from run settings.
func NewConfig(repoName string, settings domain.Settings) (*Config, error) {
	owner, repo, err := ParseRepoName(repoName)
	if err != nil {
		return nil, err
	}
	return &Config{
		Owner:             owner,
		Repo:              repo,
		BaseBranch:        settings.BaseBranch,
		PRState:           settings.PRState,
		IssueState:        settings.IssueState,
		PerPage:           settings.PerPage,
		RequestsPerSecond: settings.RequestsPerSecond,
		Timeout:           settings.Timeout,
		MaxRetries:        settings.MaxRetries,
		BaseURL:           settings.APIURL,
	}, nil
}

// ParseRepoName splits "owner/repo" into its parts.
func ParseRepoName(name string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSpace(name), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepoName, name)
	}
	return parts[0], parts[1], nil
}

// FullName returns "owner/repo".
func (c *Config) FullName() string {
	return c.Owner + "/" + c.Repo
}

// perPage returns the configured page size, or the API default when unset.
func (c *Config) perPage() int {
	if c.PerPage < 1 || c.PerPage > 100 {
		return domain.DefaultPerPage
	}
	return c.PerPage
}
