package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Export sources
const (
	SourceQuery     = "query"
	SourceTransform = "transform"
)

// ExportRecord is one file written by the CLI
type ExportRecord struct {
	ID        string
	Source    string
	Keyspace  string
	Statement string
	Path      string
	Format    string
	Rows      int
	Columns   int
	CreatedAt time.Time
}

// RecordExport stores rec, filling in ID and CreatedAt when they are empty.
func (db *DB) RecordExport(ctx context.Context, rec *ExportRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	_, err := db.ExecContext(ctx, `
		INSERT INTO exports (id, source, keyspace, statement, path, format, row_count, column_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Source, rec.Keyspace, rec.Statement, rec.Path, rec.Format, rec.Rows, rec.Columns, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record export %s: %w", rec.Path, err)
	}

	db.log.Debug().Str("id", rec.ID).Str("path", rec.Path).Msg("Export recorded")
	return nil
}

// ListExports returns up to limit exports, newest first. A limit <= 0
// returns all of them.
func (db *DB) ListExports(ctx context.Context, limit int) ([]*ExportRecord, error) {
	query := `
		SELECT id, source, keyspace, statement, path, format, row_count, column_count, created_at
		FROM exports
		ORDER BY created_at DESC, rowid DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	var records []*ExportRecord
	for rows.Next() {
		r := &ExportRecord{}
		if err := rows.Scan(&r.ID, &r.Source, &r.Keyspace, &r.Statement, &r.Path, &r.Format, &r.Rows, &r.Columns, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// PruneExports deletes exports recorded before cutoff and compacts the
// database file. It returns the number of rows removed.
func (db *DB) PruneExports(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, "DELETE FROM exports WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune exports: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned exports: %w", err)
	}

	if removed > 0 {
		if err := db.compact(ctx); err != nil {
			return removed, err
		}
	}
	db.log.Info().Int64("removed", removed).Time("before", cutoff).Msg("Pruned export history")
	return removed, nil
}

// compact reclaims space left by deleted rows and refreshes planner stats.
func (db *DB) compact(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		return fmt.Errorf("failed to optimize database: %w", err)
	}
	return nil
}
