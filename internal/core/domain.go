package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical day-month-year layout used for input and storage.
const DateLayout = "02-01-2006"

const (
	Income  Category = "Income"
	Expense Category = "Expense"

	// Misspellings of Expense found in ledgers written by older versions.
	legacyExpance = "Expance"
	legacyExpanse = "Expanse"
)

// Bounds on an accepted amount. Twenty integer digits is well past any
// personal balance; the fraction bound matches what decimal division keeps.
const (
	maxIntegerDigits  = 20
	maxFractionDigits = 28
)

type (
	Category string

	Date struct {
		time.Time
	}

	Entry struct {
		Date        Date
		Amount      decimal.Decimal
		Category    Category
		Description string
	}
)

var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidCategory   = errors.New("invalid category")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// String formats the date as DD-MM-YYYY.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: zero date", ErrInvalidDateFormat)
	}
	return nil
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	return d.Time.Compare(o.Time)
}

func (c Category) String() string {
	return string(c)
}

func (c Category) Valid() bool {
	return c == Income || c == Expense
}

func (e Entry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, e.Category)
	}
	return nil
}

// FormatAmount renders an amount as a plain decimal literal.
func FormatAmount(a decimal.Decimal) string {
	return a.String()
}
