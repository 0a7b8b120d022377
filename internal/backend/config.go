package backend

import (
	"fmt"

	"fitlog/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
		GoogleSheetName:     appConfig.GoogleSheetName,
		Credentials: CredentialConfig{
			JSON:              appConfig.GoogleServiceAccountJSON,
			File:              appConfig.GoogleServiceAccountFile,
			ProjectID:         appConfig.GoogleProjectID,
			ClientEmail:       appConfig.GoogleClientEmail,
			PrivateKeyID:      appConfig.GooglePrivateKeyID,
			PrivateKey:        appConfig.GooglePrivateKey,
			ClientID:          appConfig.GoogleClientID,
			ClientX509CertURL: appConfig.GoogleClientX509CertURL,
		},

		SQLiteDBPath:   appConfig.SQLiteDBPath,
		JournalEnabled: appConfig.JournalEnabled,

		MemorySeedFile: appConfig.MemorySeedFile,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
		if c.GoogleSheetName == "" {
			return fmt.Errorf("Google Sheet name is required for sheets backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case MemoryBackend:
		// Seed file is optional
	}

	if c.JournalEnabled && c.SQLiteDBPath == "" {
		return fmt.Errorf("SQLite database path is required for the journal")
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{SheetsBackend, SQLiteBackend, MemoryBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	strings := make([]string, len(types))
	for i, t := range types {
		strings[i] = t.String()
	}
	return strings
}
