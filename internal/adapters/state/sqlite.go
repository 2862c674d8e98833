package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT '',
	stage       TEXT NOT NULL DEFAULT '',
	sequence    INTEGER NOT NULL DEFAULT 1,
	complete    INTEGER NOT NULL DEFAULT 0,
	document    TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at DESC);
`

// SQLiteSessionStore implements core.SessionStore with SQLite storage.
// The session aggregate is stored as a JSON document; hot columns are
// duplicated for listing without a full unmarshal.
type SQLiteSessionStore struct {
	dbPath string
	db     *sql.DB
	mu     sync.RWMutex
}

// NewSQLiteSessionStore opens (creating if needed) a SQLite session store.
func NewSQLiteSessionStore(dbPath string) (*SQLiteSessionStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("applying schema: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &SQLiteSessionStore{dbPath: dbPath, db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteSessionStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession upserts the full session document.
func (s *SQLiteSessionStore) SaveSession(ctx context.Context, session *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.UpdatedAt = time.Now()

	doc, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, title, status, stage, sequence, complete, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title      = excluded.title,
			status     = excluded.status,
			stage      = excluded.stage,
			sequence   = excluded.sequence,
			complete   = excluded.complete,
			document   = excluded.document,
			updated_at = excluded.updated_at
	`,
		string(session.ID), session.Title, session.Status, string(session.CurrentStage),
		session.SequenceNumber, boolInt(session.Complete), string(doc),
		session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by id.
func (s *SQLiteSessionStore) GetSession(ctx context.Context, id core.SessionID) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT document FROM sessions WHERE id = ?", string(id)).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, core.ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	var session core.Session
	if err := json.Unmarshal([]byte(doc), &session); err != nil {
		return nil, fmt.Errorf("unmarshaling session %s: %w", id, err)
	}
	return &session, nil
}

// GetAllSessions returns all stored sessions, newest first.
func (s *SQLiteSessionStore) GetAllSessions(ctx context.Context) ([]*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT document FROM sessions ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*core.Session
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		var session core.Session
		if err := json.Unmarshal([]byte(doc), &session); err != nil {
			continue
		}
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a session. Returns false if it did not exist.
func (s *SQLiteSessionStore) DeleteSession(ctx context.Context, id core.SessionID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", string(id))
	if err != nil {
		return false, fmt.Errorf("deleting session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return n > 0, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ core.SessionStore = (*SQLiteSessionStore)(nil)
