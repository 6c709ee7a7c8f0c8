package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateCompareAndString(t *testing.T) {
	a := NewDate(2024, 1, 10)
	b := NewDate(2024, 1, 15)
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 || a.Compare(NewDate(2024, 1, 10)) != 0 {
		t.Fatalf("unexpected ordering between %s and %s", a, b)
	}
	if got := a.String(); got != "10-01-2024" {
		t.Fatalf("String() = %q", got)
	}
}

func TestEntryValidate(t *testing.T) {
	good := Entry{
		Date:     NewDate(2025, 1, 1),
		Amount:   decimal.RequireFromString("10.5"),
		Category: Income,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		e    Entry
		want error
	}{
		{Entry{Date: Date{}, Amount: decimal.NewFromInt(1), Category: Income}, ErrInvalidDateFormat},
		{Entry{Date: NewDate(2025, 1, 1), Amount: decimal.Zero, Category: Income}, ErrInvalidAmount},
		{Entry{Date: NewDate(2025, 1, 1), Amount: decimal.NewFromInt(-4), Category: Expense}, ErrInvalidAmount},
		{Entry{Date: NewDate(2025, 1, 1), Amount: decimal.NewFromInt(1), Category: "Expance"}, ErrInvalidCategory},
	}
	for i, tc := range bads {
		if err := tc.e.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}
}
