package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"ledger/internal/core"
	"ledger/internal/services"
)

// DefaultAttempts bounds how often a field is re-asked after a bad answer.
const DefaultAttempts = 3

// ErrTooManyAttempts is returned when every attempt for a field failed.
var ErrTooManyAttempts = errors.New("too many invalid attempts")

// Prompter asks for entry fields line by line. Each answer is checked with
// the same parser the ledger uses before moving to the next field.
type Prompter struct {
	in       *bufio.Scanner
	out      io.Writer
	attempts int
}

func NewPrompter(in io.Reader, out io.Writer, attempts int) *Prompter {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	return &Prompter{in: bufio.NewScanner(in), out: out, attempts: attempts}
}

// ReadEntry collects the four fields of an entry. The returned RawEntry
// holds the accepted text, so the service re-parses exactly what passed
// here.
func (p *Prompter) ReadEntry() (services.RawEntry, error) {
	var raw services.RawEntry
	var err error

	raw.Date, err = p.ask("Date (DD-MM-YYYY, blank for today)", func(s string) error {
		_, err := core.ParseDate(s, true)
		return err
	})
	if err != nil {
		return raw, err
	}
	raw.Amount, err = p.ask("Amount", func(s string) error {
		_, err := core.ParseAmount(s)
		return err
	})
	if err != nil {
		return raw, err
	}
	raw.Category, err = p.ask("Category (I = Income, E = Expense)", func(s string) error {
		_, err := core.ParseCategory(s)
		return err
	})
	if err != nil {
		return raw, err
	}
	raw.Description, err = p.ask("Description (optional)", nil)
	if err != nil {
		return raw, err
	}
	return raw, nil
}

func (p *Prompter) ask(label string, check func(string) error) (string, error) {
	for attempt := 0; attempt < p.attempts; attempt++ {
		fmt.Fprintf(p.out, "%s: ", label)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
			}
			return "", io.ErrUnexpectedEOF
		}
		answer := p.in.Text()
		if check == nil {
			return answer, nil
		}
		if err := check(answer); err != nil {
			fmt.Fprintf(p.out, "  %v\n", err)
			continue
		}
		return answer, nil
	}
	return "", fmt.Errorf("%s: %w", label, ErrTooManyAttempts)
}
