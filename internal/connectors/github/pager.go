package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/ghmine/internal/core/domain"
)

// pageFetcher fetches one page (1-based) of a listing and maps it to records.
// first is the collection index of the page's first item.
type pageFetcher[T any] func(ctx context.Context, page, perPage, first int) ([]T, *gh.Response, error)

// pagedCursor exposes a paginated GitHub listing as an index-addressable
// collection. Pages are fetched on demand and cached for the cursor's lifetime,
// so a Get retried after a rate limit only repeats the request that failed.
type pagedCursor[T any] struct {
	perPage  int
	fetch    pageFetcher[T]
	pages    map[int][]T
	lastPage int // 0 until known
}

func newPagedCursor[T any](perPage int, fetch pageFetcher[T]) *pagedCursor[T] {
	return &pagedCursor[T]{
		perPage: perPage,
		fetch:   fetch,
		pages:   make(map[int][]T),
	}
}

// Get returns the item at index i.
func (c *pagedCursor[T]) Get(ctx context.Context, i int) (T, error) {
	var zero T
	if i < 0 {
		return zero, fmt.Errorf("%w: %d", domain.ErrIndexOutOfRange, i)
	}

	n := i/c.perPage + 1
	if c.lastPage != 0 && n > c.lastPage {
		return zero, fmt.Errorf("%w: %d", domain.ErrIndexOutOfRange, i)
	}

	items, err := c.page(ctx, n)
	if err != nil {
		return zero, err
	}

	offset := i % c.perPage
	if offset >= len(items) {
		return zero, fmt.Errorf("%w: %d", domain.ErrIndexOutOfRange, i)
	}
	return items[offset], nil
}

// TotalCount returns the number of items in the listing.
// It costs at most two requests: the first page and the last.
func (c *pagedCursor[T]) TotalCount(ctx context.Context) (int, error) {
	n := 1
	for c.lastPage == 0 {
		items, err := c.page(ctx, n)
		if err != nil {
			return 0, err
		}
		if len(items) == 0 {
			// Walked past the end without pagination links.
			c.lastPage = max(n-1, 1)
			break
		}
		n++
	}

	last, err := c.page(ctx, c.lastPage)
	if err != nil {
		return 0, err
	}
	return (c.lastPage-1)*c.perPage + len(last), nil
}

// page returns page n, fetching it on first use.
func (c *pagedCursor[T]) page(ctx context.Context, n int) ([]T, error) {
	if items, ok := c.pages[n]; ok {
		return items, nil
	}

	items, resp, err := c.fetch(ctx, n, c.perPage, (n-1)*c.perPage)
	if err != nil {
		return nil, err
	}
	c.pages[n] = items
	c.observe(n, len(items), resp)
	return items, nil
}

// observe learns the last page number from a response's pagination links.
func (c *pagedCursor[T]) observe(n, count int, resp *gh.Response) {
	switch {
	case resp != nil && resp.LastPage != 0:
		c.lastPage = resp.LastPage
	case count == 0 && n == 1:
		c.lastPage = 1
	case count > 0 && (resp == nil || resp.NextPage == 0):
		c.lastPage = n
	}
}
