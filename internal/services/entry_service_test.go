package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ledger/internal/core"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
)

type fakePublisher struct {
	published []core.Entry
	err       error
}

func (f *fakePublisher) PublishEntryRecorded(_ context.Context, e core.Entry) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, e)
	return nil
}

func quietLogger(buf *bytes.Buffer) *applog.Logger {
	return applog.New(applog.Config{Level: slog.LevelDebug, Component: applog.ComponentApp, Output: buf})
}

func TestRecordInitializesAndAppends(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "finance_data.csv")
	store := ledger.NewCSVStore(ledger.Config{Path: path})
	pub := &fakePublisher{}
	var logs bytes.Buffer
	svc := NewEntryService(store, pub, quietLogger(&logs))

	e, err := svc.Record(ctx, RawEntry{Date: "10-01-2024", Amount: "1000", Category: "i", Description: "salary"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if e.Category != core.Income {
		t.Fatalf("unexpected entry %+v", e)
	}

	got, err := store.ReadAll(ctx)
	if err != nil || len(got) != 1 || got[0].Description != "salary" {
		t.Fatalf("unexpected store contents %v (err=%v)", got, err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected one published entry, got %d", len(pub.published))
	}
	if !strings.Contains(logs.String(), "Entry recorded") {
		t.Fatalf("expected a log line, got %q", logs.String())
	}
}

func TestRecordDefaultsDateToToday(t *testing.T) {
	store := ledger.NewMemoryStore()
	svc := NewEntryService(store, nil, quietLogger(&bytes.Buffer{}))

	before := core.DateOf(time.Now())
	e, err := svc.Record(context.Background(), RawEntry{Amount: "5", Category: "E"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	after := core.DateOf(time.Now())
	if e.Date.Compare(before) < 0 || e.Date.Compare(after) > 0 {
		t.Fatalf("expected today's date, got %s", e.Date)
	}
}

func TestRecordValidationFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	pub := &fakePublisher{}
	svc := NewEntryService(store, pub, quietLogger(&bytes.Buffer{}))

	cases := []struct {
		raw  RawEntry
		want error
	}{
		{RawEntry{Date: "31-02-2024", Amount: "1", Category: "i"}, core.ErrInvalidDateFormat},
		{RawEntry{Date: "10-01-2024", Amount: "0", Category: "i"}, core.ErrInvalidAmount},
		{RawEntry{Date: "10-01-2024", Amount: "1", Category: "x"}, core.ErrInvalidCategory},
	}
	for _, tc := range cases {
		if _, err := svc.Record(ctx, tc.raw); !errors.Is(err, tc.want) {
			t.Fatalf("%+v: expected %v, got %v", tc.raw, tc.want, err)
		}
	}
	if _, err := store.ReadAll(ctx); !errors.Is(err, ledger.ErrStoreNotFound) {
		t.Fatalf("store should not have been initialized, got %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("nothing should be published")
	}
}

func TestRecordSurfacesStorageFailure(t *testing.T) {
	// a directory where the file should be makes the ledger unwritable
	dir := t.TempDir()
	store := ledger.NewCSVStore(ledger.Config{Path: dir})
	svc := NewEntryService(store, nil, quietLogger(&bytes.Buffer{}))

	_, err := svc.Record(context.Background(), RawEntry{Date: "10-01-2024", Amount: "1", Category: "i"})
	if !errors.Is(err, ledger.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestRecordToleratesPublishFailure(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	var logs bytes.Buffer
	svc := NewEntryService(store, &fakePublisher{err: errors.New("broker down")}, quietLogger(&logs))

	if _, err := svc.Record(ctx, RawEntry{Date: "10-01-2024", Amount: "1", Category: "i"}); err != nil {
		t.Fatalf("publish failure must not fail the record: %v", err)
	}
	got, _ := store.ReadAll(ctx)
	if len(got) != 1 {
		t.Fatalf("entry should be stored, got %d", len(got))
	}
	if !strings.Contains(logs.String(), "broker down") {
		t.Fatalf("publish failure should be logged, got %q", logs.String())
	}
}
