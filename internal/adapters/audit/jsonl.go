// Package audit records every AI interaction as JSON lines.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
	"github.com/hugo-lorenzo-mato/polylogue/internal/logging"
)

// JSONLLogger implements core.InteractionLogger by appending one JSON object
// per line to a log file. Failures are logged and swallowed: auditing never
// blocks a dialogue.
type JSONLLogger struct {
	path   string
	mu     sync.Mutex
	logger *logging.Logger
}

// NewJSONLLogger creates an appender for path.
func NewJSONLLogger(path string, logger *logging.Logger) *JSONLLogger {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &JSONLLogger{path: path, logger: logger.With("adapter", "audit")}
}

// SaveInteractionLog appends one audit record.
func (l *JSONLLogger) SaveInteractionLog(entry core.InteractionLog) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		l.logger.Warn("audit directory unavailable", "error", err)
		return
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Warn("audit log open failed", "error", err)
		return
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(entry); err != nil {
		l.logger.Warn("audit log write failed", "error", err)
	}
}

// NopLogger discards all audit records.
type NopLogger struct{}

// SaveInteractionLog implements core.InteractionLogger.
func (NopLogger) SaveInteractionLog(core.InteractionLog) {}

var (
	_ core.InteractionLogger = (*JSONLLogger)(nil)
	_ core.InteractionLogger = NopLogger{}
)
