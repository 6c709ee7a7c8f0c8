// Package report renders ledger query results as plain-text tables.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/query"
)

// Amount formats d with thousands separators and at least two decimals,
// keeping any further digits so nothing is rounded away.
func Amount(d decimal.Decimal) string {
	abs := d.Abs()
	whole := abs.Truncate(0)

	digits := "00"
	frac := abs.Sub(whole).String()
	if i := strings.IndexByte(frac, '.'); i >= 0 {
		digits = frac[i+1:]
		if len(digits) < 2 {
			digits += "0"
		}
	}

	s := humanize.BigComma(whole.BigInt()) + "." + digits
	if d.IsNegative() {
		return "-" + s
	}
	return s
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Entries writes one row per entry, in the order given.
func Entries(w io.Writer, entries []core.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No entries.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Date, Amount(e.Amount), e.Category, e.Description)
	}
	return tw.Flush()
}

// Totals writes the per-category sums. Categories without entries are
// left out.
func Totals(w io.Writer, totals map[core.Category]decimal.Decimal) error {
	if len(totals) == 0 {
		_, err := fmt.Fprintln(w, "No entries.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tTOTAL")
	for _, c := range []core.Category{core.Income, core.Expense} {
		if total, ok := totals[c]; ok {
			fmt.Fprintf(tw, "%s\t%s\n", c, Amount(total))
		}
	}
	return tw.Flush()
}

func Balance(w io.Writer, b query.Balance) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Income\t%s\n", Amount(b.Income))
	fmt.Fprintf(tw, "Expense\t%s\n", Amount(b.Expense))
	fmt.Fprintf(tw, "Net\t%s\n", Amount(b.Net))
	return tw.Flush()
}

func Summary(w io.Writer, s query.Summary) error {
	if s.Entries == 0 {
		_, err := fmt.Fprintln(w, "No entries.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintf(tw, "Entries\t%s\n", humanize.Comma(int64(s.Entries)))
	fmt.Fprintf(tw, "Period\t%s to %s\n", s.First, s.Last)
	fmt.Fprintf(tw, "Income\t%s\n", Amount(s.Balance.Income))
	fmt.Fprintf(tw, "Expense\t%s\n", Amount(s.Balance.Expense))
	fmt.Fprintf(tw, "Net\t%s\n", Amount(s.Balance.Net))
	return tw.Flush()
}
