package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
)

type fakeMirror struct {
	rows     []core.Entry
	failures int
	countErr error
}

func (f *fakeMirror) AppendEntry(_ context.Context, e core.Entry) (string, error) {
	if f.failures > 0 {
		f.failures--
		return "", errors.New("quota exceeded")
	}
	f.rows = append(f.rows, e)
	return fmt.Sprintf("Ledger!A%d:D%d", len(f.rows)+1, len(f.rows)+1), nil
}

func (f *fakeMirror) MirroredCount(context.Context) (int, error) {
	return len(f.rows), f.countErr
}

func newTestWorker(m *fakeMirror, r ledger.Reader, retries int) *MirrorWorker {
	logger := applog.New(applog.Config{Level: slog.LevelError, Output: &bytes.Buffer{}})
	w := NewMirrorWorker(m, r, logger, retries)
	w.retryDelay = 0
	return w
}

func mustEntry(t *testing.T, date string) core.Entry {
	t.Helper()
	e, err := core.NewEntry(date, "10", "e", date, false)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func seededStore(t *testing.T, dates ...string) *ledger.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	if err := store.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	for _, d := range dates {
		if err := store.Append(ctx, mustEntry(t, d)); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func TestHandleEntryRecorded(t *testing.T) {
	store := seededStore(t, "10-01-2024")
	m := &fakeMirror{failures: 1}
	w := newTestWorker(m, store, 2)

	msg := amqp.NewEntryRecordedMessage(mustEntry(t, "10-01-2024"))
	if err := w.HandleEntryRecorded(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	// redelivery must not duplicate the row
	if err := w.HandleEntryRecorded(context.Background(), msg); err != nil {
		t.Fatalf("handle redelivery: %v", err)
	}
	if len(m.rows) != 1 || m.rows[0].Date.String() != "10-01-2024" {
		t.Fatalf("unexpected mirror rows: %+v", m.rows)
	}
}

func TestHandleEntryRecordedGivesUp(t *testing.T) {
	m := &fakeMirror{failures: 10}
	w := newTestWorker(m, seededStore(t, "10-01-2024"), 2)

	err := w.HandleEntryRecorded(context.Background(), amqp.NewEntryRecordedMessage(mustEntry(t, "10-01-2024")))
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if m.failures != 7 {
		t.Fatalf("expected 3 attempts, %d failures left", m.failures)
	}
}

func TestHandleEntryRecordedDropsBadMessage(t *testing.T) {
	m := &fakeMirror{}
	w := newTestWorker(m, seededStore(t, "10-01-2024"), 0)

	bad := &amqp.EntryRecordedMessage{Date: "2024-01-10", Amount: "1", Category: "Income"}
	if err := w.HandleEntryRecorded(context.Background(), bad); err != nil {
		t.Fatalf("bad message should be dropped, got %v", err)
	}
	if len(m.rows) != 0 {
		t.Fatalf("nothing should be mirrored")
	}
}

func TestBackfill(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t, "10-01-2024", "11-01-2024", "12-01-2024")
	m := &fakeMirror{rows: []core.Entry{mustEntry(t, "10-01-2024")}}
	w := newTestWorker(m, store, 0)

	n, err := w.Backfill(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Backfill = %d (err=%v)", n, err)
	}
	if len(m.rows) != 3 || m.rows[2].Date.String() != "12-01-2024" {
		t.Fatalf("unexpected mirror rows: %+v", m.rows)
	}

	n, err = w.Backfill(ctx)
	if err != nil || n != 0 {
		t.Fatalf("second Backfill = %d (err=%v)", n, err)
	}
}

func TestBackfillEdgeCases(t *testing.T) {
	ctx := context.Background()

	w := newTestWorker(&fakeMirror{}, ledger.NewMemoryStore(), 0)
	if n, err := w.Backfill(ctx); err != nil || n != 0 {
		t.Fatalf("missing ledger: %d (err=%v)", n, err)
	}

	m := &fakeMirror{rows: []core.Entry{mustEntry(t, "01-01-2024"), mustEntry(t, "02-01-2024")}}
	w = newTestWorker(m, seededStore(t, "01-01-2024"), 0)
	if n, err := w.Backfill(ctx); err != nil || n != 0 {
		t.Fatalf("mirror ahead of ledger: %d (err=%v)", n, err)
	}

	w = newTestWorker(&fakeMirror{countErr: errors.New("403")}, seededStore(t, "01-01-2024"), 0)
	if _, err := w.Backfill(ctx); err == nil {
		t.Fatal("expected count error")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	m := &fakeMirror{}
	w := newTestWorker(m, seededStore(t, "10-01-2024"), 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, time.Millisecond) }()

	deadline := time.After(2 * time.Second)
	for {
		w.mu.Lock()
		n := len(m.rows)
		w.mu.Unlock()
		if n == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("periodic backfill did not run")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
