package state

import "github.com/hugo-lorenzo-mato/polylogue/internal/config"

func configFor(backend, dir, sqlitePath string) config.StateConfig {
	return config.StateConfig{
		Backend:    backend,
		Dir:        dir,
		SQLitePath: sqlitePath,
	}
}
