// Package domain defines the core business entities for ghmine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - PullRequest, Issue, Commit, CommitFile: read-only records from a remote source
//   - Field: an optional string value, absent values render as the sentinel
//   - PRFragment, IssueFragment, CommitFragment: normalised fields for one index
//   - Row: one aligned output row
//   - OutputMode: the column schema selected for a run
//   - Quota: the remote call budget and its reset time
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
