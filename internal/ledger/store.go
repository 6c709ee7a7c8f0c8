// Package ledger defines the append-only transaction store and its
// file-backed and in-memory implementations.
package ledger

import (
	"context"
	"errors"

	"ledger/internal/core"
)

// Columns is the fixed schema of a persisted ledger, in order.
var Columns = []string{"date", "amount", "category", "description"}

var (
	// ErrStoreNotFound is returned by ReadAll when no store was initialized.
	ErrStoreNotFound = errors.New("ledger store not found")
	// ErrStorageUnavailable is returned when the write target cannot be opened or written.
	ErrStorageUnavailable = errors.New("ledger storage unavailable")
	// ErrMalformedStore is returned when persisted data cannot be decoded.
	ErrMalformedStore = errors.New("malformed ledger store")
)

type (
	Reader interface {
		// ReadAll returns every entry in append order.
		ReadAll(ctx context.Context) ([]core.Entry, error)
	}

	Appender interface {
		// Append persists e as the new last record.
		Append(ctx context.Context, e core.Entry) error
	}

	Store interface {
		Reader
		Appender
		// Initialize creates an empty store with the schema if none exists.
		Initialize(ctx context.Context) error
	}
)
