// Package query answers read-only questions over a ledger snapshot.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
)

// ErrInvalidRange is returned when a range bound cannot be parsed as a date.
var ErrInvalidRange = errors.New("invalid date range")

type (
	// Balance is the income/expense split of a ledger.
	Balance struct {
		Income  decimal.Decimal
		Expense decimal.Decimal
		Net     decimal.Decimal
	}

	// Summary is everything the summary report needs, from a single scan.
	Summary struct {
		Entries int
		First   core.Date
		Last    core.Date
		Totals  map[core.Category]decimal.Decimal
		Balance Balance
	}

	Engine struct {
		store ledger.Reader
	}
)

func NewEngine(store ledger.Reader) *Engine {
	return &Engine{store: store}
}

// snapshot reads the ledger for op; a missing store is an empty ledger.
func (q *Engine) snapshot(ctx context.Context, op string) ([]core.Entry, error) {
	entries, err := q.store.ReadAll(ctx)
	if errors.Is(err, ledger.ErrStoreNotFound) {
		slog.DebugContext(ctx, "Ledger not found, treating as empty",
			applog.NewFields().WithComponent(applog.ComponentQuery).WithOperation(op).
				WithError(err, applog.ErrorTypeNotFound).ToSlice()...)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	slog.DebugContext(ctx, "Ledger snapshot read",
		applog.FieldComponent, applog.ComponentQuery,
		applog.FieldOperation, op,
		applog.FieldCount, len(entries))
	return entries, nil
}

// ListAll returns every entry in stored order.
func (q *Engine) ListAll(ctx context.Context) ([]core.Entry, error) {
	return q.snapshot(ctx, applog.OpRead)
}

// FilterByRange returns entries dated within [start, end], keeping stored
// order. start after end yields an empty result.
func (q *Engine) FilterByRange(ctx context.Context, start, end core.Date) ([]core.Entry, error) {
	entries, err := q.snapshot(ctx, applog.OpFilter)
	if err != nil {
		return nil, err
	}
	out := []core.Entry{}
	if start.Compare(end) > 0 {
		return out, nil
	}
	for _, e := range entries {
		if e.Date.Compare(start) >= 0 && e.Date.Compare(end) <= 0 {
			out = append(out, e)
		}
	}
	return out, nil
}

// FilterByRangeText parses both bounds as DD-MM-YYYY before filtering.
func (q *Engine) FilterByRangeText(ctx context.Context, start, end string) ([]core.Entry, error) {
	s, err := core.ParseDate(start, false)
	if err != nil {
		return nil, fmt.Errorf("%w: start: %w", ErrInvalidRange, err)
	}
	e, err := core.ParseDate(end, false)
	if err != nil {
		return nil, fmt.Errorf("%w: end: %w", ErrInvalidRange, err)
	}
	return q.FilterByRange(ctx, s, e)
}

// CategoryTotals sums amounts per category. Categories without entries are
// absent from the map.
func (q *Engine) CategoryTotals(ctx context.Context) (map[core.Category]decimal.Decimal, error) {
	entries, err := q.snapshot(ctx, applog.OpAggregate)
	if err != nil {
		return nil, err
	}
	return categoryTotals(entries), nil
}

// NetBalance returns income, expense and their difference. All three are
// zero on an empty ledger.
func (q *Engine) NetBalance(ctx context.Context) (Balance, error) {
	entries, err := q.snapshot(ctx, applog.OpAggregate)
	if err != nil {
		return Balance{}, err
	}
	return balanceOf(categoryTotals(entries)), nil
}

func (q *Engine) Summary(ctx context.Context) (Summary, error) {
	entries, err := q.snapshot(ctx, applog.OpAggregate)
	if err != nil {
		return Summary{}, err
	}
	totals := categoryTotals(entries)
	s := Summary{
		Entries: len(entries),
		Totals:  totals,
		Balance: balanceOf(totals),
	}
	for i, e := range entries {
		if i == 0 || e.Date.Compare(s.First) < 0 {
			s.First = e.Date
		}
		if i == 0 || e.Date.Compare(s.Last) > 0 {
			s.Last = e.Date
		}
	}
	return s, nil
}

func categoryTotals(entries []core.Entry) map[core.Category]decimal.Decimal {
	totals := make(map[core.Category]decimal.Decimal)
	for _, e := range entries {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

func balanceOf(totals map[core.Category]decimal.Decimal) Balance {
	income := totals[core.Income]
	expense := totals[core.Expense]
	return Balance{Income: income, Expense: expense, Net: income.Sub(expense)}
}
