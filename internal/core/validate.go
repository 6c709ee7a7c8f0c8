// Package core holds the ledger domain types and the validators that turn
// raw field values into a well-formed Entry.
//
// Every parser performs exactly one attempt and reports failure through a
// sentinel error; re-prompting belongs to the caller.
package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseDate parses raw as DD-MM-YYYY. A blank raw value yields today's date
// when allowDefault is set.
func ParseDate(raw string, allowDefault bool) (Date, error) {
	return ParseDateAt(raw, allowDefault, time.Now())
}

// ParseDateAt is ParseDate with an explicit notion of "today".
func ParseDateAt(raw string, allowDefault bool, today time.Time) (Date, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		if allowDefault {
			return DateOf(today), nil
		}
		return Date{}, fmt.Errorf("%w: empty date", ErrInvalidDateFormat)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q (expected DD-MM-YYYY)", ErrInvalidDateFormat, raw)
	}
	return Date{Time: t}, nil
}

// ParseAmount parses raw as a strictly positive decimal number.
//
// Examples:
//
//	ParseAmount("12.50") -> 12.5, nil
//	ParseAmount("0")     -> ErrInvalidAmount
//	ParseAmount("-3")    -> ErrInvalidAmount
//	ParseAmount("1e3")   -> ErrInvalidAmount
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}
	// plain decimal literals only
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, fmt.Errorf("%w: %q uses exponent notation", ErrInvalidAmount, raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, raw)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: must be greater than zero, got %s", ErrInvalidAmount, d)
	}
	if err := checkAmountSize(d); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q %w", ErrInvalidAmount, raw, err)
	}
	return d, nil
}

func checkAmountSize(d decimal.Decimal) error {
	exp := int(d.Exponent())
	digits := d.NumDigits()
	if exp < 0 && -exp > maxFractionDigits {
		return fmt.Errorf("has more than %d decimal places", maxFractionDigits)
	}
	if digits+exp > maxIntegerDigits {
		return fmt.Errorf("has more than %d integer digits", maxIntegerDigits)
	}
	return nil
}

// ParseCategory maps "I"/"i" to Income and "E"/"e" to Expense.
func ParseCategory(raw string) (Category, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "I":
		return Income, nil
	case "E":
		return Expense, nil
	default:
		return "", fmt.Errorf("%w: %q (use I for Income or E for Expense)", ErrInvalidCategory, raw)
	}
}

// ParseStoredCategory decodes a persisted category label. The legacy
// "Expance" and "Expanse" spellings are folded into Expense; neither is
// ever written.
func ParseStoredCategory(raw string) (Category, error) {
	switch s := strings.TrimSpace(raw); s {
	case string(Income):
		return Income, nil
	case string(Expense), legacyExpance, legacyExpanse:
		return Expense, nil
	default:
		return "", fmt.Errorf("%w: stored label %q", ErrInvalidCategory, raw)
	}
}

// NormalizeDescription returns raw unchanged; an empty description is valid.
func NormalizeDescription(raw string) string {
	return raw
}

// NewEntry validates the four raw fields once each and builds an Entry.
func NewEntry(date, amount, category, description string, allowDefaultDate bool) (Entry, error) {
	d, err := ParseDate(date, allowDefaultDate)
	if err != nil {
		return Entry{}, err
	}
	a, err := ParseAmount(amount)
	if err != nil {
		return Entry{}, err
	}
	c, err := ParseCategory(category)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Date:        d,
		Amount:      a,
		Category:    c,
		Description: NormalizeDescription(description),
	}, nil
}
