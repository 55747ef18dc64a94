package driven

import "github.com/custodia-labs/ghmine/internal/core/domain"

// RowSink serialises a header and aligned rows.
// Absent fields are rendered as domain.Sentinel.
type RowSink interface {
	Write(header []string, rows []domain.Row) error
}
