package domain

import "fmt"

// OutputMode selects one of the fixed column schemas.
type OutputMode string

const (
	// ModeCommit emits one row per pull request describing its most recent commit.
	ModeCommit OutputMode = "commit"

	// ModePR emits one row per index joining a pull request, an issue and a commit.
	ModePR OutputMode = "pr"
)

// Column names, in output order.
var (
	commitColumns = []string{
		"Author_Login", "Committer_login", "PR_Number",
		"SHA", "Commit_Message", "File_name",
		"Patch_text", "Additions", "Deletions",
		"Status", "Changes",
	}

	prColumns = []string{
		"PR_Number", "Issue_Closed_Date", "Issue_Author",
		"Issue_Title", "Issue_Body", "PR_Closed_Date",
		"PR_Author", "PR_Title", "PR_Body", "PR_Comments",
		"Issue_Comments", "Commit_Author", "Commit_Date",
		"Commit_Message", "isPR",
	}
)

// ParseOutputMode converts a string to an OutputMode.
func ParseOutputMode(s string) (OutputMode, error) {
	switch OutputMode(s) {
	case ModeCommit, ModePR:
		return OutputMode(s), nil
	case "":
		return ModeCommit, nil
	}
	return "", fmt.Errorf("%w: unknown output mode %q", ErrInvalidInput, s)
}

// Valid reports whether m is a known mode.
func (m OutputMode) Valid() bool {
	return m == ModeCommit || m == ModePR
}

// Columns returns a copy of the mode's header row.
func (m OutputMode) Columns() []string {
	var cols []string
	switch m {
	case ModePR:
		cols = prColumns
	default:
		cols = commitColumns
	}
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

// Width returns the number of columns in the mode's schema.
func (m OutputMode) Width() int {
	if m == ModePR {
		return len(prColumns)
	}
	return len(commitColumns)
}

// NeedsIssues reports whether the mode joins issue fragments.
func (m OutputMode) NeedsIssues() bool {
	return m == ModePR
}
