package backend

import (
	"context"
	"fmt"

	"fitlog/internal/log"
	gsheet "fitlog/internal/sheets/google"
	"fitlog/internal/sheets/memory"
	"fitlog/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *BackendResult
		err error
	)
	switch config.Type {
	case SheetsBackend:
		res, err = f.createSheetsBackend(ctx, config)
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(config)
	case MemoryBackend:
		res, err = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.JournalEnabled && res.Journal == nil {
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			res.Close()
			return nil, fmt.Errorf("failed to initialize journal: %w", err)
		}
		res.Journal = repo
		res.Cleanup = chain(res.Cleanup, repo.Close)
		f.logger.Info("Initialized reconciliation journal", "db_path", config.SQLiteDBPath)
	}
	return res, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	c := config.Credentials
	opt, err := gsheet.CredentialsOption(ctx, gsheet.CredentialSource{
		JSON: c.JSON,
		File: c.File,
		Parts: gsheet.ServiceAccount{
			ProjectID:         c.ProjectID,
			ClientEmail:       c.ClientEmail,
			PrivateKeyID:      c.PrivateKeyID,
			PrivateKey:        c.PrivateKey,
			ClientID:          c.ClientID,
			ClientX509CertURL: c.ClientX509CertURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load Google credentials: %w", err)
	}

	cli, err := gsheet.New(ctx, config.GoogleSpreadsheetID, config.GoogleSheetName, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", log.FieldSheet, config.GoogleSheetName)

	return &BackendResult{Store: cli}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	res := &BackendResult{
		Store:   repo.Cells(config.GoogleSheetName),
		Cleanup: repo.Close,
	}
	if config.JournalEnabled {
		res.Journal = repo
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		log.FieldSheet, config.GoogleSheetName,
		"journal_enabled", config.JournalEnabled)

	return res, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	if config.MemorySeedFile == "" {
		f.logger.Info("Initialized empty memory backend")
		return &BackendResult{Store: memory.New(nil)}, nil
	}

	store, err := memory.NewFromFile(config.MemorySeedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to seed memory backend: %w", err)
	}
	f.logger.Info("Initialized memory backend", "seed_file", config.MemorySeedFile)
	return &BackendResult{Store: store}, nil
}

func chain(first, second CleanupFunc) CleanupFunc {
	if first == nil {
		return second
	}
	return func() error {
		err := first()
		if err2 := second(); err == nil {
			err = err2
		}
		return err
	}
}
