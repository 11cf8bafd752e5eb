package database

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite export ledger
type DB struct {
	*sql.DB
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

// New opens (creating if needed) the ledger database at path
func New(path string, log zerolog.Logger) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// One writer is all a CLI invocation needs
	conn.SetMaxOpenConns(1)

	log = log.With().Str("component", "ledger").Logger()
	log.Debug().Str("path", path).Msg("Database connection established")

	return &DB{
		DB:   conn,
		path: path,
		log:  log,
	}, nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Transaction wraps a function in a database transaction
func (db *DB) Transaction(fn func(*sql.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.log.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
