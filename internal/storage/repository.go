// Package storage persists the most recent portfolio snapshot in SQLite.
// The worker writes it after each successful upstream fetch; the server's
// sqlite backend and the stale-on-error fallback read from it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/KhemraButh/Loan-Performance/internal/core"
	"github.com/KhemraButh/Loan-Performance/internal/records"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ records.SnapshotStore = (*SQLiteRepository)(nil)
	_ records.Fetcher       = (*SQLiteRepository)(nil)
)

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

// SaveSnapshot atomically replaces the stored rows with a fresh fetch.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, rows []core.RawRow, fetchedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM loan_rows`); err != nil {
		return fmt.Errorf("clear previous snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO loan_rows
			(position, date, value_date, matur_date, amount_usd, outstanding,
			 interest_rate, branch, rm_name, product_type, quarter)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, i,
			row.Date, row.ValueDate, row.MaturityDate,
			row.Amount, row.Outstanding, row.InterestRate,
			row.Branch, row.RMName, row.ProductType, row.Quarter); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, fetched_at) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET fetched_at = excluded.fetched_at`,
		fetchedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("update snapshot meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	slog.InfoContext(ctx, "Snapshot saved", "rows", len(rows), "fetched_at", fetchedAt)
	return nil
}

// LoadSnapshot returns the stored rows in their original sheet order. An
// empty store yields no rows, a zero fetch time, and no error.
func (r *SQLiteRepository) LoadSnapshot(ctx context.Context) ([]core.RawRow, time.Time, error) {
	var fetchedAtStr string
	err := r.db.QueryRowContext(ctx, `SELECT fetched_at FROM snapshot_meta WHERE id = 1`).Scan(&fetchedAtStr)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read snapshot meta: %w", err)
	}
	fetchedAt, err := time.Parse(time.RFC3339, fetchedAtStr)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parse snapshot fetched_at %q: %w", fetchedAtStr, err)
	}

	result, err := r.db.QueryContext(ctx, `
		SELECT date, value_date, matur_date, amount_usd, outstanding,
		       interest_rate, branch, rm_name, product_type, quarter
		FROM loan_rows ORDER BY position`)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read snapshot rows: %w", err)
	}
	defer result.Close()

	var rows []core.RawRow
	for result.Next() {
		var row core.RawRow
		if err := result.Scan(&row.Date, &row.ValueDate, &row.MaturityDate,
			&row.Amount, &row.Outstanding, &row.InterestRate,
			&row.Branch, &row.RMName, &row.ProductType, &row.Quarter); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan snapshot row: %w", err)
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return rows, fetchedAt, nil
}

// FetchRecords lets the snapshot store stand in as a record source when
// the server runs against the worker-maintained snapshot.
func (r *SQLiteRepository) FetchRecords(ctx context.Context) ([]core.RawRow, error) {
	rows, fetchedAt, err := r.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if fetchedAt.IsZero() {
		return nil, fmt.Errorf("snapshot store is empty: %w", core.ErrSourceUnavailable)
	}
	return rows, nil
}
