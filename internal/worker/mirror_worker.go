// Package worker keeps a spreadsheet mirror in step with the ledger.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
	"ledger/internal/sheets"
)

// MirrorWorker copies ledger entries into a spreadsheet mirror. The mirror
// always holds a prefix of the ledger, so catching up means appending the
// entries past the mirrored row count, in ledger order.
type MirrorWorker struct {
	mirror     sheets.Mirror
	ledger     ledger.Reader
	logger     *applog.Logger
	maxRetries int
	retryDelay time.Duration

	mu sync.Mutex
}

func NewMirrorWorker(mirror sheets.Mirror, reader ledger.Reader, logger *applog.Logger, maxRetries int) *MirrorWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &MirrorWorker{
		mirror:     mirror,
		ledger:     reader,
		logger:     logger.WithComponent(applog.ComponentWorker),
		maxRetries: maxRetries,
		retryDelay: time.Second,
	}
}

// HandleEntryRecorded catches the mirror up after an entry was recorded.
// The ledger, not the message, is the source of rows, so redelivered or
// stale messages never duplicate a row. Undecodable messages are dropped.
func (w *MirrorWorker) HandleEntryRecorded(ctx context.Context, msg *amqp.EntryRecordedMessage) error {
	e, err := msg.Entry()
	if err != nil {
		w.logger.WarnContext(ctx, "Dropping undecodable entry message",
			applog.NewFields().WithOperation(applog.OpMirror).WithError(err, applog.ErrorTypeValidation).ToSlice()...)
		return nil
	}
	w.logger.DebugContext(ctx, "Entry recorded message received", applog.NewFields().WithEntry(e).ToSlice()...)

	if _, err := w.Backfill(ctx); err != nil {
		return fmt.Errorf("mirror entry: %w", err)
	}
	return nil
}

// Backfill appends every ledger entry the mirror does not hold yet and
// returns how many were written.
func (w *MirrorWorker) Backfill(ctx context.Context) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	have, err := w.mirror.MirroredCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count mirrored entries: %w", err)
	}

	entries, err := w.ledger.ReadAll(ctx)
	if errors.Is(err, ledger.ErrStoreNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read ledger: %w", err)
	}
	if have > len(entries) {
		w.logger.WarnContext(ctx, "Mirror holds more rows than the ledger",
			"mirrored", have,
			applog.FieldCount, len(entries))
		return 0, nil
	}

	written := 0
	for _, e := range entries[have:] {
		ref, err := w.appendWithRetry(ctx, e)
		if err != nil {
			return written, fmt.Errorf("entry %d: %w", have+written+1, err)
		}
		written++
		w.logger.InfoContext(ctx, "Entry mirrored",
			append(applog.NewFields().WithEntry(e).ToSlice(), applog.FieldSheetsRef, ref)...)
	}
	if written > 0 {
		w.logger.InfoContext(ctx, "Mirror caught up",
			applog.FieldOperation, applog.OpBackfill,
			applog.FieldCount, written)
	}
	return written, nil
}

// Run backfills every interval until ctx is done.
func (w *MirrorWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Backfill(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic backfill failed",
					applog.NewFields().WithOperation(applog.OpBackfill).WithError(err, applog.ErrorTypeNetwork).ToSlice()...)
			}
		}
	}
}

func (w *MirrorWorker) appendWithRetry(ctx context.Context, e core.Entry) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * w.retryDelay):
			}
		}
		ref, err := w.mirror.AppendEntry(ctx, e)
		if err == nil {
			return ref, nil
		}
		lastErr = err
		w.logger.WarnContext(ctx, "Mirror append failed",
			"attempt", attempt+1,
			applog.FieldError, err)
	}
	return "", lastErr
}
