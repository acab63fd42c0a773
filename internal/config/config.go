// Package config reads process settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int
	IdempotencyTTL     time.Duration

	LogLevel string

	// Session
	DefaultUserID string
	AutoLogin     bool

	// Storage
	DataBackend   string
	SQLiteDBPath  string
	DataDirectory string

	// Ledger alerts
	LowBalanceThreshold       decimal.Decimal
	LargeTransactionThreshold decimal.Decimal

	// Recurring bills
	BillRolloverInterval time.Duration

	// AMQP; an empty URL disables the event feed.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export (worker)
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	WorkerDBPath             string

	problems []string
}

func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8081"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		IdempotencyTTL:     getEnvDuration("IDEMPOTENCY_TTL", 10*time.Minute),
		LogLevel:           getEnv("LOG_LEVEL", "info"),

		DefaultUserID: getEnv("DEFAULT_USER_ID", "user-123"),
		AutoLogin:     getEnvBool("AUTO_LOGIN", true),

		DataBackend:   getEnv("DATA_BACKEND", BackendMemory),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/moneyx.db"),
		DataDirectory: getEnv("DATA_DIRECTORY", "data"),

		BillRolloverInterval: getEnvDuration("BILL_ROLLOVER_INTERVAL", time.Hour),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "moneyx"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Transactions"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		WorkerDBPath:             getEnv("WORKER_DB_PATH", "./data/moneyx-worker.db"),
	}
	cfg.LowBalanceThreshold = cfg.getEnvDecimal("ALERT_LOW_BALANCE", "100")
	cfg.LargeTransactionThreshold = cfg.getEnvDecimal("ALERT_LARGE_TRANSACTION", "1000")
	return cfg
}

// Validate checks the settings the API server needs and reports every
// problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	for _, p := range c.problems {
		result = multierror.Append(result, fmt.Errorf("%s", p))
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		result = multierror.Append(result, fmt.Errorf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		result = multierror.Append(result, fmt.Errorf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			result = multierror.Append(result, fmt.Errorf("SQLite database path cannot be empty when using sqlite backend"))
		} else if err := ensureDir(c.SQLiteDBPath); err != nil {
			result = multierror.Append(result, err)
		}
	default:
		result = multierror.Append(result, fmt.Errorf("invalid data backend '%s': must be one of [%s %s]", c.DataBackend, BackendMemory, BackendSQLite))
	}

	if c.AutoLogin && strings.TrimSpace(c.DefaultUserID) == "" {
		result = multierror.Append(result, fmt.Errorf("DEFAULT_USER_ID cannot be empty when AUTO_LOGIN is enabled"))
	}

	if c.AMQPURL != "" {
		result = multierror.Append(result, c.validateAMQP()...)
	}

	if c.BillRolloverInterval < time.Second {
		result = multierror.Append(result, fmt.Errorf("invalid bill rollover interval %v: must be at least 1 second", c.BillRolloverInterval))
	} else if c.BillRolloverInterval > 24*time.Hour {
		result = multierror.Append(result, fmt.Errorf("invalid bill rollover interval %v: must be at most 24 hours", c.BillRolloverInterval))
	}
	if c.IdempotencyTTL < 0 {
		result = multierror.Append(result, fmt.Errorf("invalid idempotency ttl %v: must not be negative", c.IdempotencyTTL))
	}
	if c.RateLimitPerMinute < 0 {
		result = multierror.Append(result, fmt.Errorf("invalid rate limit %d: must not be negative", c.RateLimitPerMinute))
	}
	if c.LowBalanceThreshold.IsNegative() || c.LargeTransactionThreshold.IsNegative() {
		result = multierror.Append(result, fmt.Errorf("alert thresholds must not be negative"))
	}

	return result.ErrorOrNil()
}

// ValidateWorker checks the settings the sheets export worker needs.
func (c *Config) ValidateWorker() error {
	var result *multierror.Error
	if c.AMQPURL == "" {
		result = multierror.Append(result, fmt.Errorf("AMQP_URL is required for the export worker"))
	} else {
		result = multierror.Append(result, c.validateAMQP()...)
	}
	if c.GoogleSpreadsheetID == "" {
		result = multierror.Append(result, fmt.Errorf("Google Spreadsheet ID is required for the export worker"))
	}
	if c.GoogleSheetName == "" {
		result = multierror.Append(result, fmt.Errorf("Google Sheet name cannot be empty"))
	}
	if c.GoogleServiceAccountFile != "" {
		if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
			result = multierror.Append(result, fmt.Errorf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
		}
	}
	if c.WorkerDBPath == "" {
		result = multierror.Append(result, fmt.Errorf("worker database path cannot be empty"))
	} else if err := ensureDir(c.WorkerDBPath); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func (c *Config) validateAMQP() []error {
	var errs []error
	if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
		errs = append(errs, fmt.Errorf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
	} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
		errs = append(errs, fmt.Errorf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
	}
	if c.AMQPExchange == "" {
		errs = append(errs, fmt.Errorf("AMQP exchange name cannot be empty when AMQP URL is provided"))
	}
	if c.AMQPQueue == "" {
		errs = append(errs, fmt.Errorf("AMQP queue name cannot be empty when AMQP URL is provided"))
	}
	return errs
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create database directory '%s': %v", dir, err)
		}
	}
	return nil
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

// getEnvDecimal records a problem for Validate instead of silently
// falling back, since a typo here changes which alerts fire.
func (c *Config) getEnvDecimal(key, defaultValue string) decimal.Decimal {
	value := getEnv(key, defaultValue)
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("invalid %s '%s': must be a decimal number", key, value))
		return decimal.RequireFromString(defaultValue)
	}
	return d
}
