package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
	"github.com/custodia-labs/ghmine/internal/core/ports/driving"
	"github.com/custodia-labs/ghmine/internal/logger"
)

// Ensure ExtractionService implements the interface.
var _ driving.Extractor = (*ExtractionService)(nil)

// ExtractionService runs one extraction: pull requests, then commits, then
// (pr mode) issues, then alignment and output. Runs are strictly sequential
// and keep no state between calls.
type ExtractionService struct {
	source     driven.RepositorySource
	governor   *RateGovernor
	extractors *Extractors
	sink       driven.RowSink
}

// NewExtractionService creates an extraction service.
// A nil progress is silent.
func NewExtractionService(
	source driven.RepositorySource,
	quota driven.QuotaSource,
	sink driven.RowSink,
	progress driven.Progress,
) *ExtractionService {
	governor := NewRateGovernor(quota, progress)
	return &ExtractionService{
		source:     source,
		governor:   governor,
		extractors: NewExtractors(governor, source, progress),
		sink:       sink,
	}
}

// Extract runs the extraction described by req and writes its rows.
func (s *ExtractionService) Extract(ctx context.Context, req driving.ExtractRequest) (*driving.ExtractResult, error) {
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("%w: unknown output mode %q", domain.ErrInvalidInput, req.Mode)
	}
	if req.FetchBound < 0 {
		return nil, fmt.Errorf("%w: fetch bound must not be negative", domain.ErrInvalidInput)
	}

	runID := uuid.New().String()
	logger.Section("Extraction " + runID)
	logger.Info("Mode: %s, fetch bound: %d", req.Mode, req.FetchBound)
	s.governor.ReportQuota(ctx)

	prCursor, err := Execute(ctx, s.governor, s.source.PullRequests)
	if err != nil {
		return nil, fmt.Errorf("list pull requests: %w", err)
	}

	var issueCursor driven.Cursor[domain.Issue]
	if req.Mode.NeedsIssues() {
		issueCursor, err = Execute(ctx, s.governor, s.source.Issues)
		if err != nil {
			return nil, fmt.Errorf("list issues: %w", err)
		}
	}

	prs, err := s.extractors.PullRequests(ctx, prCursor, req.FetchBound, req.Mode)
	if err != nil {
		return nil, err
	}

	commits, err := s.extractors.Commits(ctx, prs.CommitRefs, req.Mode)
	if err != nil {
		return nil, err
	}

	var issues []domain.IssueFragment
	if issueCursor != nil {
		issues, err = s.extractors.Issues(ctx, issueCursor, req.FetchBound)
		if err != nil {
			return nil, err
		}
	}

	rows, err := AlignRows(req.Mode, req.FetchBound, prs.Fragments, issues, commits)
	if err != nil {
		return nil, err
	}

	if err := s.sink.Write(req.Mode.Columns(), rows); err != nil {
		return nil, fmt.Errorf("write rows: %w", err)
	}
	logger.Info("Wrote %d rows", len(rows))

	return &driving.ExtractResult{
		RunID: runID,
		Mode:  req.Mode,
		Rows:  len(rows),
	}, nil
}
