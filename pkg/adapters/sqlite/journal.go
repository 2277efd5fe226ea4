package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aretw0/deckcal/pkg/domain"
	"github.com/aretw0/deckcal/pkg/ports"

	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// Journal stores session commands in SQLite.
type Journal struct {
	db *sql.DB
}

var _ ports.Journal = (*Journal)(nil)

// Open opens (or creates) the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	// A single connection serializes writers and keeps in-memory
	// databases alive across calls.
	db.SetMaxOpenConns(1)
	j, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// New wraps an existing database handle and ensures the schema exists.
func New(db *sql.DB) (*Journal, error) {
	j := &Journal{db: db}
	if err := j.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return j, nil
}

func (j *Journal) initSchema() error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS session_commands (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			workflow TEXT NOT NULL DEFAULT '',
			command TEXT NOT NULL,
			from_state TEXT NOT NULL,
			to_state TEXT NOT NULL DEFAULT '',
			accepted INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_session_commands_session_id ON session_commands(session_id, id);
	`)
	return err
}

// Append inserts an entry. A zero timestamp is replaced by the current time.
func (j *Journal) Append(ctx context.Context, e domain.JournalEntry) error {
	at := e.Timestamp
	if at.IsZero() {
		at = time.Now()
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO session_commands (session_id, workflow, command, from_state, to_state, accepted, error, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID,
		e.Workflow,
		e.Command,
		e.From,
		e.To,
		e.Accepted,
		e.Error,
		at.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// List returns the session's entries in insertion order.
func (j *Journal) List(ctx context.Context, sessionID string) ([]domain.JournalEntry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, workflow, command, from_state, to_state, accepted, error, at
		FROM session_commands
		WHERE session_id = ?
		ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	out := []domain.JournalEntry{}
	for rows.Next() {
		var (
			e   domain.JournalEntry
			atN int64
		)
		if err := rows.Scan(&e.SessionID, &e.Workflow, &e.Command, &e.From, &e.To, &e.Accepted, &e.Error, &atN); err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(0, atN).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
