package log

import "ledger/internal/core"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldBackend     = "backend"
	FieldStorePath   = "store_path"
	FieldEntryDate   = "entry_date"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldCount       = "count"
	FieldQueue       = "queue"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentQuery   = "query"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
)

// Operations defines standard operation names
const (
	OpInitialize = "initialize"
	OpAppend     = "append"
	OpRead       = "read"
	OpFilter     = "filter"
	OpAggregate  = "aggregate"
	OpPublish    = "publish"
	OpMirror     = "mirror"
	OpBackfill   = "backfill"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeStorage       = "storage_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeNotFound      = "not_found_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error message and its category
func (f LogFields) WithError(err error, errorType string) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorType] = errorType
	}
	return f
}

// WithEntry adds the fields describing a ledger entry
func (f LogFields) WithEntry(e core.Entry) LogFields {
	f[FieldEntryDate] = e.Date.String()
	f[FieldAmount] = core.FormatAmount(e.Amount)
	f[FieldCategory] = e.Category.String()
	f[FieldDescription] = e.Description
	return f
}

func (f LogFields) WithStore(backend, path string) LogFields {
	f[FieldBackend] = backend
	f[FieldStorePath] = path
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
