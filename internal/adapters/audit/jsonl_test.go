package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

func TestJSONLLoggerAppendsOneLinePerEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.jsonl")
	logger := NewJSONLLogger(path, nil)

	logger.SaveInteractionLog(core.InteractionLog{
		SessionID: "sess-1",
		AgentID:   "eiro-001",
		Stage:     core.StageIndividualThought,
		Prompt:    "think",
		Output:    "thought",
		Status:    "ok",
		Duration:  250 * time.Millisecond,
		Timestamp: time.Now(),
	})
	logger.SaveInteractionLog(core.InteractionLog{
		SessionID: "sess-1",
		AgentID:   "kanshi-001",
		Stage:     core.StageIndividualThought,
		Status:    "error",
		Error:     "provider down",
	})

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []core.InteractionLog
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry core.InteractionLog
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, entries, 2)
	assert.Equal(t, core.AgentID("eiro-001"), entries[0].AgentID)
	assert.Equal(t, "ok", entries[0].Status)
	assert.Equal(t, "provider down", entries[1].Error)
}

func TestJSONLLoggerSwallowsWriteFailures(t *testing.T) {
	// A directory path cannot be opened as a file; the logger must not panic.
	logger := NewJSONLLogger(t.TempDir(), nil)
	logger.SaveInteractionLog(core.InteractionLog{SessionID: "sess-1"})
}
