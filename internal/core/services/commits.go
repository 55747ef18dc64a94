package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/logger"
)

// Commits normalises the commit at every index of refs. A nil ref yields a
// fragment with every column absent so rows stay aligned.
// Commit mode fetches each commit's changed files.
func (e *Extractors) Commits(
	ctx context.Context, refs []*domain.Commit, mode domain.OutputMode,
) ([]domain.CommitFragment, error) {
	out := make([]domain.CommitFragment, 0, len(refs))

	logger.Section("Commits")
	e.progress.Start("Commits", len(refs))
	defer e.progress.Finish()

	for i, ref := range refs {
		if ref == nil {
			logger.Debug("Commit %d: none", i)
			out = append(out, domain.AbsentCommitFragment())
			e.progress.Step()
			continue
		}

		frag := domain.CommitFragment{
			Author:  domain.Value(ref.AuthorName),
			Message: domain.Value(quoted(ref.Message)),
		}

		if mode == domain.ModePR {
			frag.Date = timeField(ref.AuthoredAt)
		} else {
			sha := ref.SHA
			files, err := Execute(ctx, e.governor, func(ctx context.Context) ([]domain.CommitFile, error) {
				return e.source.CommitFiles(ctx, sha)
			})
			if err != nil {
				return nil, fmt.Errorf("get files of commit %s: %w", sha, err)
			}
			applyFileStats(&frag, *ref, files)
		}

		logger.Debug("Commit %d: %s", i, ref.SHA)
		out = append(out, frag)
		e.progress.Step()
	}

	return out, nil
}

// applyFileStats fills the commit mode columns from a commit's files.
func applyFileStats(frag *domain.CommitFragment, commit domain.Commit, files []domain.CommitFile) {
	names := make([]string, 0, len(files))
	var (
		patch     strings.Builder
		status    strings.Builder
		additions int
		deletions int
		changes   int
	)

	for _, f := range files {
		names = append(names, f.Filename)
		patch.WriteString(f.Patch)
		patch.WriteString(", ")
		status.WriteString(f.Status)
		status.WriteString(", ")
		additions += f.Additions
		deletions += f.Deletions
		changes += f.Changes
	}

	frag.Committer = domain.Value(commit.CommitterName)
	frag.SHA = domain.Value(commit.SHA)
	frag.Files = fileListField(names)
	frag.Patch = domain.Value(patch.String())
	frag.Additions = intField(additions)
	frag.Deletions = intField(deletions)
	frag.Status = domain.Value(quoted(status.String()))
	frag.Changes = intField(changes)
}
