package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fitlog/internal/config"
	"fitlog/internal/core"
	"fitlog/internal/log"
	"fitlog/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "excel"}); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:       "sheets",
		GoogleSheetName:   "Log",
		GoogleClientEmail: "bot@example.iam.gserviceaccount.com",
		JournalEnabled:    true,
		SQLiteDBPath:      "./data/fitlog.db",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != SheetsBackend || cfg.GoogleSheetName != "Log" || !cfg.JournalEnabled {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Credentials.ClientEmail != "bot@example.iam.gserviceaccount.com" {
		t.Errorf("credentials not copied: %+v", cfg.Credentials)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"sheets without id", Config{Type: SheetsBackend, GoogleSheetName: "Log"}, true},
		{"journal without path", Config{Type: MemoryBackend, JournalEnabled: true}, true},
		{"unknown", Config{Type: "csv"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "cells.txt")
	if err := os.WriteFile(seed, []byte("# last week\nB6=150\n"), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := NewFactory(log.Discard()).CreateBackend(context.Background(), Config{
		Type:           MemoryBackend,
		MemorySeedFile: seed,
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Close()

	v, err := res.Store.Get(context.Background(), core.MustParseCellAddress("B6"))
	if err != nil || v != "150" {
		t.Errorf("seeded B6 = %q, %v", v, err)
	}
	if res.Journal != nil {
		t.Error("journal should be off by default")
	}
}

func TestCreateSQLiteBackendWithJournal(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "fitlog.db")

	res, err := NewFactory(nil).CreateBackend(ctx, Config{
		Type:            SQLiteBackend,
		GoogleSheetName: "Log",
		SQLiteDBPath:    dbPath,
		JournalEnabled:  true,
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Close()

	addr := core.MustParseCellAddress("C6")
	if err := res.Store.Set(ctx, addr, "150"); err != nil {
		t.Fatal(err)
	}
	if v, _ := res.Store.Get(ctx, addr); v != "150" {
		t.Errorf("C6 = %q, want 150", v)
	}

	if res.Journal == nil {
		t.Fatal("journal not wired")
	}
	repo, ok := res.Journal.(*storage.SQLiteRepository)
	if !ok {
		t.Fatalf("journal is %T", res.Journal)
	}
	rec := core.Reconciliation{
		RunID:         "run-1",
		ReferenceDate: core.NewDate(2023, 12, 11),
		Category:      core.Weight,
		Address:       addr,
		Outcome:       core.OutcomeWritten,
		Value:         "150",
	}
	if err := res.Journal.RecordReconciliation(ctx, rec); err != nil {
		t.Fatal(err)
	}
	got, err := repo.ListReconciliations(ctx, "run-1")
	if err != nil || len(got) != 1 {
		t.Fatalf("ListReconciliations = %v, %v", got, err)
	}
}

func TestCreateMemoryBackendWithSeparateJournal(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:           MemoryBackend,
		SQLiteDBPath:   filepath.Join(t.TempDir(), "journal.db"),
		JournalEnabled: true,
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if res.Journal == nil || res.Cleanup == nil {
		t.Fatal("journal and cleanup expected")
	}
	if err := res.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestCreateSheetsBackendWithoutCredentials(t *testing.T) {
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:                SheetsBackend,
		GoogleSpreadsheetID: "sheet-id",
		GoogleSheetName:     "Log",
	})
	if err == nil {
		t.Fatal("expected credentials error")
	}
}
