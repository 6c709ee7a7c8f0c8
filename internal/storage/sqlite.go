// Package storage provides a SQLite-backed ledger store.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"ledger/internal/core"
	"ledger/internal/ledger"
	applog "ledger/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements ledger.Store on a SQLite database. Like the CSV
// store it holds no connection between operations.
type SQLiteStore struct {
	dbPath string
}

var _ ledger.Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) *SQLiteStore {
	return &SQLiteStore{dbPath: dbPath}
}

func (s *SQLiteStore) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
		return fmt.Errorf("%w: create db directory: %w", ledger.ErrStorageUnavailable, err)
	}
	if err := RunMigrations(s.dbPath); err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrStorageUnavailable, err)
	}
	slog.DebugContext(ctx, "Initialized SQLite ledger",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpInitialize,
		applog.FieldStorePath, s.dbPath)
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if !s.exists() {
		return fmt.Errorf("%w: %s does not exist", ledger.ErrStorageUnavailable, s.dbPath)
	}

	db, err := s.open(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrStorageUnavailable, err)
	}
	defer db.Close()

	res, err := db.ExecContext(ctx,
		`INSERT INTO entries (date, amount, category, description) VALUES (?, ?, ?, ?)`,
		e.Date.String(), core.FormatAmount(e.Amount), e.Category.String(), e.Description)
	if err != nil {
		return fmt.Errorf("%w: insert entry: %w", ledger.ErrStorageUnavailable, err)
	}

	id, _ := res.LastInsertId()
	slog.InfoContext(ctx, "Entry saved to SQLite",
		append([]any{applog.FieldComponent, applog.ComponentStorage, "id", id},
			applog.NewFields().WithOperation(applog.OpAppend).WithEntry(e).ToSlice()...)...)
	return nil
}

func (s *SQLiteStore) ReadAll(ctx context.Context) ([]core.Entry, error) {
	if !s.exists() {
		return nil, fmt.Errorf("%w: %s", ledger.ErrStoreNotFound, s.dbPath)
	}

	db, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrStorageUnavailable, err)
	}
	defer db.Close()

	var n int
	err = db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'entries'`).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("%w: inspect schema: %w", ledger.ErrStorageUnavailable, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s has no entries table", ledger.ErrStoreNotFound, s.dbPath)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT date, amount, category, description FROM entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: query entries: %w", ledger.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var out []core.Entry
	for rows.Next() {
		var date, amount, category, desc string
		if err := rows.Scan(&date, &amount, &category, &desc); err != nil {
			return nil, fmt.Errorf("%w: scan entry: %w", ledger.ErrMalformedStore, err)
		}
		e, err := decodeRow(date, amount, category, desc)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ledger.ErrMalformedStore, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate entries: %w", ledger.ErrStorageUnavailable, err)
	}
	return out, nil
}

func (s *SQLiteStore) exists() bool {
	_, err := os.Stat(s.dbPath)
	return !errors.Is(err, fs.ErrNotExist)
}

func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func decodeRow(date, amount, category, desc string) (core.Entry, error) {
	d, err := core.ParseDate(date, false)
	if err != nil {
		return core.Entry{}, err
	}
	a, err := core.ParseAmount(amount)
	if err != nil {
		return core.Entry{}, err
	}
	c, err := core.ParseStoredCategory(category)
	if err != nil {
		return core.Entry{}, err
	}
	return core.Entry{Date: d, Amount: a, Category: c, Description: desc}, nil
}
