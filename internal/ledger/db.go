// Package ledger is the local release journal: an append-only record of every
// gatekeeper decision, kept in a SQLite database under the data directory.
package ledger

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	// _ import for sqlite driver registration
	_ "modernc.org/sqlite"

	"github.com/VoxDroid/relgate/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Open ensures the data directory exists, opens the SQLite database, and
// creates the schema if it does not exist.
func Open() (*sql.DB, error) {
	dbPath, err := config.DBPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if err := ApplyMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ApplyMigrations applies the embedded schema SQL and performs lightweight
// post-creation migrations (adding new columns when needed).
func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return ensureReleaseColumns(db)
}

// ensureReleaseColumns checks for optional columns and adds them when missing.
func ensureReleaseColumns(db *sql.DB) error {
	rows, err := db.Query("PRAGMA table_info(releases)")
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dflt interface{}
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		cols[name] = true
	}
	if !cols["detail"] {
		if _, err := db.Exec("ALTER TABLE releases ADD COLUMN detail TEXT"); err != nil {
			return err
		}
	}
	return nil
}
