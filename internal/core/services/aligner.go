package services

import (
	"fmt"

	"github.com/custodia-labs/ghmine/internal/core/domain"
)

// AlignRows joins the fragments at each index into one row per index,
// ordered by the mode's schema. Issues are only read in pr mode.
//
// Every stream must hold at least bound fragments; a shorter stream fails
// with domain.ErrMisalignedExtraction instead of producing partial rows.
func AlignRows(
	mode domain.OutputMode,
	bound int,
	prs []domain.PRFragment,
	issues []domain.IssueFragment,
	commits []domain.CommitFragment,
) ([]domain.Row, error) {
	if err := checkLength("pull requests", len(prs), bound); err != nil {
		return nil, err
	}
	if err := checkLength("commits", len(commits), bound); err != nil {
		return nil, err
	}
	if mode.NeedsIssues() {
		if err := checkLength("issues", len(issues), bound); err != nil {
			return nil, err
		}
	}

	rows := make([]domain.Row, 0, bound)
	for i := 0; i < bound; i++ {
		switch mode {
		case domain.ModePR:
			rows = append(rows, prRow(prs[i], issues[i], commits[i]))
		default:
			rows = append(rows, commitRow(prs[i], commits[i]))
		}
	}
	return rows, nil
}

func checkLength(stream string, got, want int) error {
	if got < want {
		return fmt.Errorf("%w: %s: got %d, want %d", domain.ErrMisalignedExtraction, stream, got, want)
	}
	return nil
}

// commitRow orders fields as Author_Login, Committer_login, PR_Number, SHA,
// Commit_Message, File_name, Patch_text, Additions, Deletions, Status, Changes.
func commitRow(pr domain.PRFragment, c domain.CommitFragment) domain.Row {
	return domain.Row{
		c.Author, c.Committer, pr.Number,
		c.SHA, c.Message, c.Files,
		c.Patch, c.Additions, c.Deletions,
		c.Status, c.Changes,
	}
}

// prRow orders fields as PR_Number, Issue_Closed_Date, Issue_Author,
// Issue_Title, Issue_Body, PR_Closed_Date, PR_Author, PR_Title, PR_Body,
// PR_Comments, Issue_Comments, Commit_Author, Commit_Date, Commit_Message, isPR.
func prRow(pr domain.PRFragment, is domain.IssueFragment, c domain.CommitFragment) domain.Row {
	return domain.Row{
		pr.Number, is.ClosedAt, is.Author,
		is.Title, is.Body, pr.ClosedAt,
		pr.Author, pr.Title, pr.Body, pr.Comments,
		is.Comments, c.Author, c.Date,
		c.Message, is.IsPR,
	}
}
