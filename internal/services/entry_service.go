package services

import (
	"context"
	"fmt"

	"ledger/internal/core"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
)

// Publisher announces entries after they are durable.
type Publisher interface {
	PublishEntryRecorded(ctx context.Context, e core.Entry) error
}

// RawEntry holds the field values as typed by a user.
type RawEntry struct {
	Date        string
	Amount      string
	Category    string
	Description string
}

// EntryService validates, stores and announces new ledger entries.
type EntryService struct {
	store     ledger.Store
	publisher Publisher
	logger    *applog.Logger
}

// NewEntryService wires a store with an optional publisher and logger.
func NewEntryService(store ledger.Store, publisher Publisher, logger *applog.Logger) *EntryService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &EntryService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentLedger),
	}
}

// Record validates raw once, then initializes the store and appends the
// entry. A blank date means today. Nothing is written when validation
// fails.
func (s *EntryService) Record(ctx context.Context, raw RawEntry) (core.Entry, error) {
	e, err := core.NewEntry(raw.Date, raw.Amount, raw.Category, raw.Description, true)
	if err != nil {
		s.logger.DebugContext(ctx, "Entry rejected",
			applog.NewFields().WithOperation(applog.OpAppend).WithError(err, applog.ErrorTypeValidation).ToSlice()...)
		return core.Entry{}, err
	}
	if err := s.RecordEntry(ctx, e); err != nil {
		return core.Entry{}, err
	}
	return e, nil
}

// RecordEntry stores an already built entry.
func (s *EntryService) RecordEntry(ctx context.Context, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.store.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize ledger: %w", err)
	}
	if err := s.store.Append(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "Failed to append entry",
			applog.NewFields().WithEntry(e).WithError(err, applog.ErrorTypeStorage).ToSlice()...)
		return fmt.Errorf("append entry: %w", err)
	}

	s.logger.InfoContext(ctx, "Entry recorded", applog.NewFields().WithEntry(e).ToSlice()...)

	// the entry is durable; a failed announcement is not a failed record
	if err := s.publish(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish entry recorded message",
			applog.NewFields().WithOperation(applog.OpPublish).WithError(err, applog.ErrorTypeNetwork).ToSlice()...)
	}
	return nil
}

func (s *EntryService) publish(ctx context.Context, e core.Entry) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.PublishEntryRecorded(ctx, e)
}
