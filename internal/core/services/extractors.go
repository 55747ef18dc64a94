package services

import (
	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
)

// Extractors pull bounded windows of records through a rate governor and
// normalise them into fragments. Every result is built fresh per call.
type Extractors struct {
	governor *RateGovernor
	source   driven.RepositorySource
	progress driven.Progress
}

// NewExtractors creates extractors reading from source.
// A nil progress is silent.
func NewExtractors(governor *RateGovernor, source driven.RepositorySource, progress driven.Progress) *Extractors {
	if progress == nil {
		progress = nopProgress{}
	}
	return &Extractors{
		governor: governor,
		source:   source,
		progress: progress,
	}
}
