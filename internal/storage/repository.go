package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fitlog/internal/core"
	"fitlog/internal/sheets"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Cells returns a cell store over one named sheet in the database.
func (r *SQLiteRepository) Cells(sheet string) *SheetCells {
	return &SheetCells{repo: r, sheet: sheet}
}

// SheetCells implements sheets.CellStore on the cells table.
type SheetCells struct {
	repo  *SQLiteRepository
	sheet string
}

var _ sheets.CellStore = (*SheetCells)(nil)

func (c *SheetCells) Get(ctx context.Context, addr core.CellAddress) (string, error) {
	var value string
	err := c.repo.db.QueryRowContext(ctx,
		`SELECT value FROM cells WHERE sheet = ? AND address = ?`,
		c.sheet, addr.String(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get cell %s: %w", addr, err)
	}
	return value, nil
}

func (c *SheetCells) Set(ctx context.Context, addr core.CellAddress, value string) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	_, err := c.repo.db.ExecContext(ctx,
		`INSERT INTO cells (sheet, address, value, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (sheet, address) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		c.sheet, addr.String(), value,
	)
	if err != nil {
		return fmt.Errorf("set cell %s: %w", addr, err)
	}

	slog.DebugContext(ctx, "Cell saved to SQLite",
		"sheet", c.sheet,
		"address", addr.String())
	return nil
}

// RecordReconciliation appends one entry to the reconciliation journal.
func (r *SQLiteRepository) RecordReconciliation(ctx context.Context, rec core.Reconciliation) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reconciliations (run_id, reference_date, category, address, outcome, value, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.ReferenceDate.String(), rec.Category.String(), rec.Address.String(),
		rec.Outcome.String(), rec.Value, createdAt,
	)
	if err != nil {
		return fmt.Errorf("record reconciliation: %w", err)
	}
	return nil
}

// ListReconciliations returns the journal entries of one run in insertion order.
func (r *SQLiteRepository) ListReconciliations(ctx context.Context, runID string) ([]core.Reconciliation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT run_id, reference_date, category, address, outcome, value, created_at
		 FROM reconciliations WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reconciliations: %w", err)
	}
	defer rows.Close()

	var out []core.Reconciliation
	for rows.Next() {
		var (
			rec                     core.Reconciliation
			refDate, category, addr string
			outcome                 string
		)
		if err := rows.Scan(&rec.RunID, &refDate, &category, &addr, &outcome, &rec.Value, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reconciliation: %w", err)
		}
		if rec.ReferenceDate, err = core.ParseDate(refDate); err != nil {
			return nil, err
		}
		if rec.Address, err = core.ParseCellAddress(addr); err != nil {
			return nil, err
		}
		rec.Category = core.Category(category)
		rec.Outcome = core.Outcome(outcome)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reconciliations: %w", err)
	}
	return out, nil
}
