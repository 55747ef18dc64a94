package driven

import "context"

// Cursor is a lazy, index-addressable view over a remote paginated collection.
// Each Get may be a network round trip.
//
// Get returns domain.ErrIndexOutOfRange for an index past the end and a
// *domain.RateLimitError when the remote quota is exhausted. Callers retry a
// rate limited Get with the same index.
type Cursor[T any] interface {
	// Get returns the item at index i.
	Get(ctx context.Context, i int) (T, error)

	// TotalCount returns the number of items in the collection.
	TotalCount(ctx context.Context) (int, error)
}
