// Package backend builds the configured ledger store and the entry service
// that records into it.
package backend

import (
	"context"
	"fmt"

	"ledger/internal/amqp"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentStorage)}
}

// CreateBackend opens no files; stores create or read them per operation.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store ledger.Store
		path  string
	)
	switch config.Type {
	case CSVBackend:
		store = ledger.NewCSVStore(ledger.Config{Path: config.CSVPath})
		path = config.CSVPath
	case SQLiteBackend:
		store = storage.NewSQLiteStore(config.SQLitePath)
		path = config.SQLitePath
	case MemoryBackend:
		store = ledger.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	result := &BackendResult{Store: store}

	var publisher services.Publisher
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events",
				applog.NewFields().WithOperation(applog.OpStartup).WithError(err, applog.ErrorTypeNetwork).ToSlice()...)
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				applog.FieldQueue, config.AMQPQueue)
			publisher = client
			result.Cleanup = client.Close
		}
	}

	result.Service = services.NewEntryService(store, publisher, f.logger)

	f.logger.DebugContext(ctx, "Initialized ledger backend",
		append(applog.NewFields().WithStore(config.Type.String(), path).ToSlice(),
			"amqp_enabled", publisher != nil)...)
	return result, nil
}
