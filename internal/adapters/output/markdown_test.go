package output

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveOutputWritesMarkdownDocument(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs")
	store := NewMarkdownStore(dir)

	saved, err := store.SaveOutput(context.Background(),
		"Rollout decision", "Phase the rollout over two weeks.",
		"How should we roll out?\nAnd how fast?", "en", "sess-1")
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), saved.ID[:8]+".md"))

	raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	content := string(raw)

	assert.Contains(t, content, "id: "+saved.ID)
	assert.Contains(t, content, "session: sess-1")
	assert.Contains(t, content, "language: en")
	assert.Contains(t, content, "# Rollout decision")
	assert.Contains(t, content, "> How should we roll out?\n> And how fast?")
	assert.Contains(t, content, "Phase the rollout over two weeks.")
}

func TestSaveOutputOmitsEmptyLanguage(t *testing.T) {
	dir := t.TempDir()
	store := NewMarkdownStore(dir)

	_, err := store.SaveOutput(context.Background(), "t", "c", "p", "", "sess-2")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "language:")
}
