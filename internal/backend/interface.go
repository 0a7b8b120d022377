package backend

import (
	"context"

	"fitlog/internal/services"
	"fitlog/internal/sheets"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult is the cell store a run reconciles against, plus the
// optional outcome journal.
type BackendResult struct {
	Store   sheets.CellStore
	Journal services.Journal
	Cleanup CleanupFunc
}

// Close runs Cleanup if there is one.
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

	// Google Sheets specific
	GoogleSpreadsheetID string
	GoogleSheetName     string
	Credentials         CredentialConfig

	// SQLite specific
	SQLiteDBPath   string
	JournalEnabled bool

	// Memory backend specific
	MemorySeedFile string
}

// CredentialConfig mirrors the service account settings of the app config.
type CredentialConfig struct {
	JSON              string
	File              string
	ProjectID         string
	ClientEmail       string
	PrivateKeyID      string
	PrivateKey        string
	ClientID          string
	ClientX509CertURL string
}

// BackendType represents the type of backend
type BackendType string

const (
	SheetsBackend BackendType = "sheets"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SheetsBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
