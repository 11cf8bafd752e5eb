package database

import (
	"database/sql"
	"fmt"
	"strings"
)

type migration struct {
	Version int
	Name    string
	SQL     string
}

var migrations = []migration{
	{
		Version: 1,
		Name:    "exports",
		SQL: `
			-- One row per file written by a query or transform export
			CREATE TABLE exports (
				id TEXT PRIMARY KEY,
				source TEXT NOT NULL,
				keyspace TEXT NOT NULL DEFAULT '',
				statement TEXT NOT NULL DEFAULT '',
				path TEXT NOT NULL,
				format TEXT NOT NULL,
				row_count INTEGER NOT NULL,
				column_count INTEGER NOT NULL,
				created_at TIMESTAMP NOT NULL
			);

			CREATE INDEX idx_exports_created_at ON exports(created_at);
		`,
	},
}

// Migrate runs all pending ledger migrations
func (db *DB) Migrate() error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var currentVersion int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}
		db.log.Debug().Int("version", m.Version).Str("name", m.Name).Msg("Applying migration")

		err := db.Transaction(func(tx *sql.Tx) error {
			for i, stmt := range splitSQLStatements(m.SQL) {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("migration %d statement %d failed: %w", m.Version, i+1, err)
				}
			}
			if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// splitSQLStatements splits a migration into statements, dropping blank
// lines and -- comments.
func splitSQLStatements(sql string) []string {
	var statements []string
	var current strings.Builder

	for line := range strings.SplitSeq(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(trimmed, ";") {
			if stmt := strings.TrimSpace(current.String()); stmt != ";" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	if remaining := strings.TrimSpace(current.String()); remaining != "" {
		statements = append(statements, remaining)
	}

	return statements
}
