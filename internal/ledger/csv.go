package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ledger/internal/core"
	applog "ledger/internal/log"
)

// Config describes where a CSV ledger lives.
type Config struct {
	Path string
}

// DefaultConfig returns the conventional ledger file in the working directory.
func DefaultConfig() Config {
	return Config{Path: "finance_data.csv"}
}

// CSVStore keeps the ledger in a comma-separated UTF-8 file with a header
// row. The file is opened and closed on every operation.
type CSVStore struct {
	cfg Config
}

var _ Store = (*CSVStore)(nil)

func NewCSVStore(cfg Config) *CSVStore {
	if cfg.Path == "" {
		cfg = DefaultConfig()
	}
	return &CSVStore{cfg: cfg}
}

// Initialize writes a header-only file if none exists. An existing file
// with content is never touched.
func (s *CSVStore) Initialize(ctx context.Context) error {
	if dir := filepath.Dir(s.cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create directory %s: %w", ErrStorageUnavailable, dir, err)
		}
	}

	f, err := os.OpenFile(s.cfg.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	switch {
	case errors.Is(err, fs.ErrExist):
		info, statErr := os.Stat(s.cfg.Path)
		if statErr != nil {
			return fmt.Errorf("%w: stat %s: %w", ErrStorageUnavailable, s.cfg.Path, statErr)
		}
		if info.Size() > 0 {
			return nil
		}
		// zero-byte file: give it a header
		f, err = os.OpenFile(s.cfg.Path, os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("%w: open %s: %w", ErrStorageUnavailable, s.cfg.Path, err)
		}
	case err != nil:
		return fmt.Errorf("%w: create %s: %w", ErrStorageUnavailable, s.cfg.Path, err)
	}

	if err := writeRecords(f, Columns); err != nil {
		return fmt.Errorf("%w: write header to %s: %w", ErrStorageUnavailable, s.cfg.Path, err)
	}
	slog.DebugContext(ctx, "Initialized ledger file",
		applog.FieldComponent, applog.ComponentLedger,
		applog.FieldOperation, applog.OpInitialize,
		applog.FieldStorePath, s.cfg.Path)
	return nil
}

// Append writes e as the last row without rewriting earlier rows.
func (s *CSVStore) Append(ctx context.Context, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.cfg.Path, os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrStorageUnavailable, s.cfg.Path, err)
	}

	if err := terminateLastLine(f); err != nil {
		f.Close()
		return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, s.cfg.Path, err)
	}
	if err := writeRecords(f, encodeEntry(e)); err != nil {
		return fmt.Errorf("%w: append to %s: %w", ErrStorageUnavailable, s.cfg.Path, err)
	}

	slog.DebugContext(ctx, "Appended ledger entry",
		applog.FieldComponent, applog.ComponentLedger,
		applog.FieldOperation, applog.OpAppend,
		applog.FieldStorePath, s.cfg.Path,
		applog.FieldEntryDate, e.Date.String(),
		applog.FieldCategory, e.Category.String())
	return nil
}

// ReadAll decodes every row in file order. Legacy category labels are
// normalized while decoding.
func (s *CSVStore) ReadAll(ctx context.Context) ([]core.Entry, error) {
	f, err := os.Open(s.cfg.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, s.cfg.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStorageUnavailable, s.cfg.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Columns)

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformedStore, err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var out []core.Entry
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedStore, err)
		}
		e, err := decodeEntry(rec)
		if err != nil {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedStore, line, err)
		}
		out = append(out, e)
	}

	slog.DebugContext(ctx, "Read ledger file",
		applog.FieldComponent, applog.ComponentLedger,
		applog.FieldOperation, applog.OpRead,
		applog.FieldStorePath, s.cfg.Path,
		applog.FieldCount, len(out))
	return out, nil
}

func writeRecords(f *os.File, rec []string) error {
	w := csv.NewWriter(f)
	if err := w.Write(rec); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// terminateLastLine appends a newline when the file does not already end
// with one, so a hand-edited ledger does not merge with the next row.
func terminateLastLine(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err = f.Write([]byte("\n"))
	return err
}

func checkHeader(header []string) error {
	for i, col := range Columns {
		got := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
		if got != col {
			return fmt.Errorf("%w: header column %d is %q, want %q", ErrMalformedStore, i+1, header[i], col)
		}
	}
	return nil
}

func encodeEntry(e core.Entry) []string {
	return []string{
		e.Date.String(),
		core.FormatAmount(e.Amount),
		e.Category.String(),
		e.Description,
	}
}

func decodeEntry(rec []string) (core.Entry, error) {
	d, err := core.ParseDate(rec[0], false)
	if err != nil {
		return core.Entry{}, err
	}
	a, err := core.ParseAmount(rec[1])
	if err != nil {
		return core.Entry{}, err
	}
	c, err := core.ParseStoredCategory(rec[2])
	if err != nil {
		return core.Entry{}, err
	}
	return core.Entry{Date: d, Amount: a, Category: c, Description: rec[3]}, nil
}
