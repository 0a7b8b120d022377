package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fitlog/internal/core"
)

const (
	DefaultTimezone   = "America/New_York"
	DefaultSheetName  = "C1 Weight, Nutrition, Steps"
	DefaultAnchorDate = "2023-12-04"
)

type Config struct {
	// Telegram
	TelegramToken       string
	TelegramWriteChatID int64

	// Run
	DryRun        bool
	Timezone      string
	AnchorsFile   string
	AnchorDate    string
	DaysPerColumn int

	// Logging
	LogLevel  string
	LogFormat string

	// Backend selection
	DataBackend string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	GoogleProjectID          string
	GoogleClientEmail        string
	GooglePrivateKeyID       string
	GooglePrivateKey         string
	GoogleClientID           string
	GoogleClientX509CertURL  string

	// Database
	SQLiteDBPath   string
	JournalEnabled bool

	// Memory backend
	MemorySeedFile string

	// AMQP
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

func Load() *Config {
	cfg := &Config{
		TelegramToken:       getEnv("TELEGRAM_TOKEN", ""),
		TelegramWriteChatID: getEnvInt64("TELEGRAM_WRITE_CHAT_ID", 0),

		DryRun:        getEnvBool("DRY_RUN", true),
		Timezone:      getEnv("TIMEZONE", DefaultTimezone),
		AnchorsFile:   getEnv("ANCHORS_FILE", ""),
		AnchorDate:    getEnv("ANCHOR_DATE", DefaultAnchorDate),
		DaysPerColumn: getEnvInt("DAYS_PER_COLUMN", core.DefaultDaysPerColumn),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DataBackend: getEnv("DATA_BACKEND", "sheets"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", DefaultSheetName),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")),
		GoogleProjectID:          getEnv("GOOGLE_PROJECT_ID", ""),
		GoogleClientEmail:        getEnv("GOOGLE_CLIENT_EMAIL", ""),
		GooglePrivateKeyID:       getEnv("GOOGLE_PRIVATE_KEY_ID", ""),
		GooglePrivateKey:         getEnv("GOOGLE_PRIVATE_KEY", ""),
		GoogleClientID:           getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientX509CertURL:  getEnv("GOOGLE_CLIENT_X509_CERT_URL", ""),

		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/fitlog.db"),
		JournalEnabled: getEnvBool("JOURNAL_ENABLED", false),

		MemorySeedFile: getEnv("MEMORY_SEED_FILE", ""),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "fitlog"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "daily_report"),
	}

	return cfg
}

// Location loads the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// HasServiceAccountParts reports whether the credential is given as
// individual env vars rather than a JSON document.
func (c *Config) HasServiceAccountParts() bool {
	return c.GoogleClientEmail != "" || c.GooglePrivateKey != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !c.DryRun && c.TelegramToken == "" {
		errors = append(errors, "TELEGRAM_TOKEN is required unless DRY_RUN is set")
	}
	// A token means the chat is read, dry run or not.
	if (c.TelegramToken != "" || !c.DryRun) && c.TelegramWriteChatID == 0 {
		errors = append(errors, "TELEGRAM_WRITE_CHAT_ID is required and must be a non-zero integer")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if _, err := core.ParseDate(c.AnchorDate); err != nil {
		errors = append(errors, fmt.Sprintf("invalid anchor date '%s': must be YYYY-MM-DD", c.AnchorDate))
	}

	if c.DaysPerColumn < 1 {
		errors = append(errors, fmt.Sprintf("invalid days per column %d: must be at least 1", c.DaysPerColumn))
	}

	if c.AnchorsFile != "" {
		if _, err := os.Stat(c.AnchorsFile); err != nil {
			errors = append(errors, fmt.Sprintf("anchors file does not exist: %s", c.AnchorsFile))
		}
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	// Validate data backend
	validBackends := []string{"sheets", "sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate Google Sheets configuration if backend is sheets
	if c.DataBackend == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using sheets backend")
		}

		hasJSON := c.GoogleServiceAccountJSON != ""
		hasFile := c.GoogleServiceAccountFile != ""
		hasParts := c.HasServiceAccountParts()
		if !hasJSON && !hasFile && !hasParts {
			errors = append(errors, "one of GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_CLIENT_EMAIL/GOOGLE_PRIVATE_KEY must be provided for sheets backend")
		}
		if hasParts && (c.GoogleClientEmail == "" || c.GooglePrivateKey == "") {
			errors = append(errors, "GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY must be set together")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// The journal lives in SQLite whichever backend holds the cells.
	if c.DataBackend == "sqlite" || c.JournalEnabled {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend or the journal")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRoutingKey == "" {
			errors = append(errors, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
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

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
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
