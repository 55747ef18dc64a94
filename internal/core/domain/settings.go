package domain

import (
	"fmt"
	"strings"
	"time"
)

// Default extraction settings.
const (
	DefaultFetchBound        = 5
	DefaultPerPage           = 30
	DefaultBaseBranch        = "master"
	DefaultPRState           = "all"
	DefaultIssueState        = "closed"
	DefaultRequestsPerSecond = 1.2
	DefaultDelimiter         = '\a'
	DefaultTimeout           = 30 * time.Second
	DefaultMaxRetries        = 3
)

// Settings control one extraction run.
type Settings struct {
	// FetchBound is the number of items read from every stream (N).
	FetchBound int

	// PerPage is the page size requested from the remote API.
	PerPage int

	// BaseBranch filters pull requests by base branch. Empty means any.
	BaseBranch string

	// PRState and IssueState filter the listed pull requests and issues.
	PRState    string
	IssueState string

	// RequestsPerSecond throttles remote calls. Zero or less disables throttling.
	RequestsPerSecond float64

	// Delimiter separates output columns.
	Delimiter rune

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// MaxRetries bounds retries of transient (non rate limit) failures.
	MaxRetries int

	// APIURL overrides the REST endpoint, e.g. for GitHub Enterprise.
	// Empty means api.github.com.
	APIURL string
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		FetchBound:        DefaultFetchBound,
		PerPage:           DefaultPerPage,
		BaseBranch:        DefaultBaseBranch,
		PRState:           DefaultPRState,
		IssueState:        DefaultIssueState,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Delimiter:         DefaultDelimiter,
		Timeout:           DefaultTimeout,
		MaxRetries:        DefaultMaxRetries,
	}
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if s.FetchBound < 0 {
		return fmt.Errorf("%w: fetch bound must not be negative", ErrInvalidInput)
	}
	if s.PerPage < 1 || s.PerPage > 100 {
		return fmt.Errorf("%w: per page must be between 1 and 100", ErrInvalidInput)
	}
	if s.Delimiter == 0 || s.Delimiter == '\\' || s.Delimiter == '\n' || s.Delimiter == '\r' ||
		strings.ContainsRune(Sentinel, s.Delimiter) {
		return fmt.Errorf("%w: delimiter %q is not allowed", ErrInvalidInput, s.Delimiter)
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries must not be negative", ErrInvalidInput)
	}
	return nil
}
