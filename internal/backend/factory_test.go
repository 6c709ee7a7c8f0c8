package backend

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"ledger/internal/config"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/storage"
)

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Level: slog.LevelError, Output: &bytes.Buffer{}})
}

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		config Config
		check  func(ledger.Store) bool
	}{
		{"csv", Config{Type: CSVBackend, CSVPath: filepath.Join(dir, "f.csv")}, func(s ledger.Store) bool {
			_, ok := s.(*ledger.CSVStore)
			return ok
		}},
		{"sqlite", Config{Type: SQLiteBackend, SQLitePath: filepath.Join(dir, "l.db")}, func(s ledger.Store) bool {
			_, ok := s.(*storage.SQLiteStore)
			return ok
		}},
		{"memory", Config{Type: MemoryBackend}, func(s ledger.Store) bool {
			_, ok := s.(*ledger.MemoryStore)
			return ok
		}},
	}

	f := NewFactory(quietLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.CreateBackend(context.Background(), tt.config)
			if err != nil {
				t.Fatalf("CreateBackend: %v", err)
			}
			defer res.Close()
			if !tt.check(res.Store) {
				t.Fatalf("unexpected store type %T", res.Store)
			}
			if res.Service == nil {
				t.Fatal("expected an entry service")
			}
		})
	}
}

func TestCreateBackendRecordsThroughService(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "finance_data.csv")
	res, err := NewFactory(quietLogger()).CreateBackend(ctx, Config{Type: CSVBackend, CSVPath: path})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := res.Service.Record(ctx, services.RawEntry{Date: "10-01-2024", Amount: "5", Category: "i"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, err := res.Store.ReadAll(ctx)
	if err != nil || len(got) != 1 {
		t.Fatalf("expected one entry, got %v (err=%v)", got, err)
	}
}

func TestCreateBackendInvalidConfig(t *testing.T) {
	f := NewFactory(quietLogger())
	for _, cfg := range []Config{
		{Type: "sheets"},
		{Type: CSVBackend},
		{Type: SQLiteBackend, SQLitePath: "  "},
	} {
		if _, err := f.CreateBackend(context.Background(), cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{Backend: "postgres"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{Backend: "sqlite", SQLitePath: "x.db", AMQPURL: "amqp://h"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLitePath != "x.db" || cfg.AMQPURL != "amqp://h" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestResultCloseWithoutCleanup(t *testing.T) {
	var r *BackendResult
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	called := false
	r = &BackendResult{Cleanup: func() error { called = true; return errors.New("x") }}
	if err := r.Close(); err == nil || !called {
		t.Fatal("cleanup not run")
	}
}

func TestInvalidBackendListsChoices(t *testing.T) {
	if got := strings.Join(GetBackendTypeStrings(), ","); got != "csv,sqlite,memory" {
		t.Fatalf("unexpected backend types %q", got)
	}
	err := Config{Type: "sheets"}.Validate()
	if err == nil || !strings.Contains(err.Error(), "csv, sqlite, memory") {
		t.Fatalf("expected the valid choices in %v", err)
	}
}
