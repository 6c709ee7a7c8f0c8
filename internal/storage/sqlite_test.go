package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "data", "ledger.db"))

	if _, err := s.ReadAll(ctx); !errors.Is(err, ledger.ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound before init, got %v", err)
	}

	if err := s.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	got, err := s.ReadAll(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty ledger, got %v (err=%v)", got, err)
	}

	raw := [][4]string{
		{"20-01-2024", "12.50", "e", "lunch"},
		{"10-01-2024", "1000", "i", ""},
		{"15-01-2024", "0.01", "E", "fee"},
	}
	for _, r := range raw {
		e, err := core.NewEntry(r[0], r[1], r[2], r[3], false)
		if err != nil {
			t.Fatalf("new entry: %v", err)
		}
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	// second initialize must not drop rows
	if err := s.Initialize(ctx); err != nil {
		t.Fatalf("re-initialize: %v", err)
	}

	got, err = s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Date.String() != "20-01-2024" || got[1].Category != core.Income || got[2].Description != "fee" {
		t.Fatalf("unexpected entries: %+v", got)
	}
	if got[0].Amount.String() != "12.5" {
		t.Fatalf("amount = %s", got[0].Amount)
	}
}

func TestSQLiteStoreAppendWithoutInit(t *testing.T) {
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"))
	e, _ := core.NewEntry("10-01-2024", "1", "i", "", false)
	if err := s.Append(context.Background(), e); !errors.Is(err, ledger.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestSQLiteStoreRejectsInvalidEntry(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"))
	if err := s.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(ctx, core.Entry{Date: core.NewDate(2024, 1, 1), Category: core.Income}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	got, _ := s.ReadAll(ctx)
	if len(got) != 0 {
		t.Fatalf("invalid entry stored: %+v", got)
	}
}
