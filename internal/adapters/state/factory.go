package state

import (
	"fmt"
	"path/filepath"

	"github.com/hugo-lorenzo-mato/polylogue/internal/config"
	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

// NewSessionStore builds the configured persistence backend.
func NewSessionStore(cfg config.StateConfig) (core.SessionStore, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Join(".polylogue", "sessions")
	}

	switch cfg.Backend {
	case "", "json":
		return NewJSONSessionStore(dir), nil
	case "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			path = filepath.Join(".polylogue", "polylogue.db")
		}
		return NewSQLiteSessionStore(path)
	default:
		return nil, fmt.Errorf("unknown state backend %q (want json or sqlite)", cfg.Backend)
	}
}
