package google

import (
	"fmt"
	"strings"

	"ledger/internal/core"
)

// entryRow lays an entry out in ledger column order. Values are strings so
// the sheet keeps the exact decimal and the DD-MM-YYYY date.
func entryRow(e core.Entry) []any {
	return []any{
		e.Date.String(),
		core.FormatAmount(e.Amount),
		e.Category.String(),
		e.Description,
	}
}

// dataRows counts non-blank rows, not counting a leading header row.
func dataRows(values [][]any) int {
	n := 0
	for i, row := range values {
		if len(row) == 0 || strings.TrimSpace(fmt.Sprint(row[0])) == "" {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(fmt.Sprint(row[0])), "date") {
			continue
		}
		n++
	}
	return n
}
