package domain

import "time"

// PullRequest holds the pull request fields the extractors read.
// Records are filled by a remote source adapter and never mutated.
type PullRequest struct {
	Number      int
	AuthorLogin string
	Title       string
	Body        *string
	Comments    int
	ClosedAt    *time.Time
}

// Issue holds the issue fields the extractors read.
type Issue struct {
	Number      int
	AuthorLogin string
	Title       string
	Body        *string
	Comments    int
	ClosedAt    *time.Time

	// HasPullRequest is true when the issue carries a pull request link.
	HasPullRequest bool
}

// Commit holds the commit fields the extractors read.
type Commit struct {
	SHA           string
	AuthorName    string
	CommitterName string
	Message       string
	AuthoredAt    *time.Time
}

// CommitFile is one changed file of a commit.
type CommitFile struct {
	Filename  string
	Patch     string
	Status    string
	Additions int
	Deletions int
	Changes   int
}
