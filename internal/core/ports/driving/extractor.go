package driving

import (
	"context"

	"github.com/custodia-labs/ghmine/internal/core/domain"
)

// ExtractRequest describes one extraction run.
type ExtractRequest struct {
	// Mode selects the output schema.
	Mode domain.OutputMode

	// FetchBound is the number of rows to produce.
	FetchBound int
}

// ExtractResult summarises a completed run.
type ExtractResult struct {
	RunID string
	Mode  domain.OutputMode
	Rows  int
}

// Extractor runs an extraction and writes its rows.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) (*ExtractResult, error)
}
