package query

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoRows is the distinct "no rows" status a catalog query reports when
// a page has no results. FetchAll treats it as normal termination.
var ErrNoRows = errors.New("no rows found")

// Runner issues one query round trip against the catalog.
type Runner interface {
	Query(ctx context.Context, req *Request) (*Page, error)
}

// FetchAll issues the query repeatedly, projecting each page's rows as
// they arrive, until the continuation token reports no further pages.
// The returned set is never partial: any remote failure aborts the whole
// fetch. An immediately empty result is valid and yields an empty,
// non-nil set.
func FetchAll(ctx context.Context, r Runner, req *Request, labels []string) ([]map[string]any, error) {
	results := make([]map[string]any, 0)

	for chunk := 0; chunk == 0 || req.Continue > 0; chunk++ {
		page, err := r.Query(ctx, req)
		if err != nil {
			if errors.Is(err, ErrNoRows) {
				break
			}
			return nil, fmt.Errorf("fetching chunk %d: %w", chunk, err)
		}

		req.Continue = page.Continue

		for _, row := range page.Rows {
			obj, err := Project(row, labels)
			if err != nil {
				return nil, fmt.Errorf("projecting row in chunk %d: %w", chunk, err)
			}
			results = append(results, obj)
		}
	}

	return results, nil
}
