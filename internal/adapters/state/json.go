// Package state provides session persistence backends.
package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

// JSONSessionStore implements core.SessionStore with one JSON file per
// session under a directory.
type JSONSessionStore struct {
	dir string
}

// NewJSONSessionStore creates a JSON session store rooted at dir.
func NewJSONSessionStore(dir string) *JSONSessionStore {
	return &JSONSessionStore{dir: dir}
}

// sessionEnvelope wraps a session with integrity metadata.
type sessionEnvelope struct {
	Version   int           `json:"version"`
	Checksum  string        `json:"checksum"`
	UpdatedAt time.Time     `json:"updated_at"`
	Session   *core.Session `json:"session"`
}

// SaveSession persists the full session state atomically.
func (s *JSONSessionStore) SaveSession(_ context.Context, session *core.Session) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating sessions directory: %w", err)
	}

	session.UpdatedAt = time.Now()

	sessionBytes, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	hash := sha256.Sum256(sessionBytes)

	envelope := sessionEnvelope{
		Version:   1,
		Checksum:  hex.EncodeToString(hash[:]),
		UpdatedAt: session.UpdatedAt,
		Session:   session,
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling envelope: %w", err)
	}

	if err := atomicWriteFile(s.sessionPath(session.ID), data, 0o644); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// GetSession retrieves a session by id.
func (s *JSONSessionStore) GetSession(_ context.Context, id core.SessionID) (*core.Session, error) {
	session, err := s.loadFromPath(s.sessionPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("session %s: %w", id, core.ErrSessionNotFound)
		}
		return nil, err
	}
	return session, nil
}

// GetAllSessions returns all stored sessions, newest first.
func (s *JSONSessionStore) GetAllSessions(_ context.Context) ([]*core.Session, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading sessions directory: %w", err)
	}

	var sessions []*core.Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		session, err := s.loadFromPath(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			// Corrupted entries do not poison the listing.
			continue
		}
		sessions = append(sessions, session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

// DeleteSession removes a session. Returns false if it did not exist.
func (s *JSONSessionStore) DeleteSession(_ context.Context, id core.SessionID) (bool, error) {
	err := os.Remove(s.sessionPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("deleting session file: %w", err)
	}
	return true, nil
}

func (s *JSONSessionStore) loadFromPath(path string) (*core.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var envelope sessionEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshaling envelope: %w", err)
	}
	if envelope.Session == nil {
		return nil, fmt.Errorf("envelope %s has no session payload", filepath.Base(path))
	}

	sessionBytes, err := json.Marshal(envelope.Session)
	if err != nil {
		return nil, fmt.Errorf("marshaling session for checksum: %w", err)
	}
	hash := sha256.Sum256(sessionBytes)
	if hex.EncodeToString(hash[:]) != envelope.Checksum {
		return nil, fmt.Errorf("session %s: checksum mismatch", envelope.Session.ID)
	}

	return envelope.Session, nil
}

func (s *JSONSessionStore) sessionPath(id core.SessionID) string {
	return filepath.Join(s.dir, string(id)+".json")
}

var _ core.SessionStore = (*JSONSessionStore)(nil)
