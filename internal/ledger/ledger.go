package ledger

import (
	"database/sql"
	"strings"

	"github.com/VoxDroid/relgate/internal/gate"
)

// Entry is one recorded gatekeeper decision.
type Entry struct {
	ID        int64
	Version   string
	Outcome   string
	Detail    string
	CreatedAt string
}

// Repository provides append and read operations over the release journal.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository using db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Record appends one decision. It satisfies gate.Recorder.
func (r *Repository) Record(version string, outcome gate.Outcome, detail string) error {
	_, err := r.db.Exec(
		"INSERT INTO releases (version, outcome, detail, created_at) VALUES (?, ?, ?, datetime('now'))",
		strings.TrimSpace(version), string(outcome), detail,
	)
	return err
}

// List returns the most recent entries, newest first. limit <= 0 means all.
func (r *Repository) List(limit int) ([]Entry, error) {
	q := "SELECT id, version, outcome, COALESCE(detail, ''), created_at FROM releases ORDER BY id DESC"
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.Query(q+" LIMIT ?", limit)
	} else {
		rows, err = r.db.Query(q)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Version, &e.Outcome, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LastForVersion returns the newest entry for a version, or nil when the
// version has never been through the gate.
func (r *Repository) LastForVersion(version string) (*Entry, error) {
	row := r.db.QueryRow(
		"SELECT id, version, outcome, COALESCE(detail, ''), created_at FROM releases WHERE version = ? ORDER BY id DESC LIMIT 1",
		version,
	)
	var e Entry
	if err := row.Scan(&e.ID, &e.Version, &e.Outcome, &e.Detail, &e.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}
