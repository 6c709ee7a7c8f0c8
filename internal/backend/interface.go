package backend

import (
	"context"

	"ledger/internal/ledger"
	"ledger/internal/services"
)

// CleanupFunc releases resources held by a backend
type CleanupFunc func() error

// BackendResult contains the ledger store, the service recording into it
// and an optional cleanup function
type BackendResult struct {
	Store   ledger.Store
	Service *services.EntryService
	Cleanup CleanupFunc
}

// Close runs the cleanup function, if any
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	CSVPath    string
	SQLitePath string

	// AMQP is optional for every backend
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of ledger store
type BackendType string

const (
	CSVBackend    BackendType = "csv"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
