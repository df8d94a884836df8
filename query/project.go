package query

import (
	"unicode/utf8"

	"github.com/crozier-io/crozier/types"
)

// Project maps one fetched row to a JSON object using the ordered field
// labels. Cells holding the empty string are omitted entirely, notably so
// an absent metadata units field does not appear as "". A cell that is
// not valid UTF-8 is a hard projection error, not a silent drop.
func Project(row []string, labels []string) (map[string]any, error) {
	if len(row) > len(labels) {
		return nil, types.NewError(types.CodeInvalidArgument,
			"row has %d cells but only %d labels", len(row), len(labels))
	}

	obj := make(map[string]any, len(row))
	for i, cell := range row {
		if cell == "" {
			continue
		}
		if !utf8.ValidString(cell) {
			return nil, types.NewError(types.CodeProtocol,
				"cell %d for label %q was not valid UTF-8", i, labels[i])
		}
		obj[labels[i]] = cell
	}
	return obj, nil
}
