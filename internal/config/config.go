package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by LEDGER_BACKEND.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	// Ledger storage
	Backend    string
	CSVPath    string
	SQLitePath string

	LogLevel string

	// AMQP (optional): entry-recorded events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets mirror (worker only)
	GoogleSpreadsheetID string
	GoogleSheetName     string

	MirrorMaxRetries       int
	MirrorBackfillInterval time.Duration
}

func Load() *Config {
	return &Config{
		Backend:    getEnv("LEDGER_BACKEND", BackendCSV),
		CSVPath:    getEnv("LEDGER_CSV_PATH", "finance_data.csv"),
		SQLitePath: getEnv("LEDGER_SQLITE_PATH", "./data/ledger.db"),

		LogLevel: getEnv("LEDGER_LOG_LEVEL", "info"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ledger"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "entries_recorded"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Ledger"),

		MirrorMaxRetries:       getEnvInt("MIRROR_MAX_RETRIES", 5),
		MirrorBackfillInterval: getEnvDuration("MIRROR_BACKFILL_INTERVAL", 10*time.Minute),
	}
}

// Validate returns every configuration problem in one error.
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{BackendCSV, BackendSQLite, BackendMemory}
	if !slices.Contains(validBackends, c.Backend) {
		errors = append(errors, fmt.Sprintf("invalid ledger backend '%s': must be one of %v", c.Backend, validBackends))
	}
	if c.Backend == BackendCSV && strings.TrimSpace(c.CSVPath) == "" {
		errors = append(errors, "CSV ledger path cannot be empty when using csv backend")
	}
	if c.Backend == BackendSQLite && strings.TrimSpace(c.SQLitePath) == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleSpreadsheetID != "" && c.GoogleSheetName == "" {
		errors = append(errors, "Google Sheet name is required when a spreadsheet ID is set")
	}

	if c.MirrorMaxRetries < 0 || c.MirrorMaxRetries > 50 {
		errors = append(errors, fmt.Sprintf("invalid mirror max retries %d: must be between 0 and 50", c.MirrorMaxRetries))
	}

	if c.MirrorBackfillInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid mirror backfill interval %s: must be at least 1s", c.MirrorBackfillInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// ValidateWorker adds the requirements of the mirror worker on top of Validate.
func (c *Config) ValidateWorker() error {
	if err := c.Validate(); err != nil {
		return err
	}
	var missing []string
	if c.AMQPURL == "" {
		missing = append(missing, "AMQP_URL")
	}
	if c.GoogleSpreadsheetID == "" {
		missing = append(missing, "GOOGLE_SPREADSHEET_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("worker configuration incomplete: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// StorePath returns the location of the configured backend's data.
func (c *Config) StorePath() string {
	switch c.Backend {
	case BackendSQLite:
		return c.SQLitePath
	case BackendMemory:
		return ""
	default:
		return c.CSVPath
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
