// Package db owns the ledger database: a single sqlite file under the
// user's home directory, opened once per process.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var ledger *sql.DB

// GetDB returns the ledger connection, opening and migrating it on the
// first call.
func GetDB() (*sql.DB, error) {
	if ledger != nil {
		return ledger, nil
	}

	path, err := GetDBPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	// trials.run_id references runs; sqlite does not enforce that
	// without the pragma.
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := conn.Exec(GetSchemaSQL()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	ledger = conn
	return ledger, nil
}

// Close closes the ledger connection if one was opened.
func Close() error {
	if ledger == nil {
		return nil
	}
	err := ledger.Close()
	ledger = nil
	return err
}

// GetDBPath returns the ledger database location, ~/.kdiff/kdiff.db.
func GetDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".kdiff", "kdiff.db"), nil
}
