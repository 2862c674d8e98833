package state

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

func sampleSession(title string) *core.Session {
	agents := []core.Agent{
		{ID: "eiro-001", Name: "Eiro (慧露)", Style: core.StyleLogical},
		{ID: "kanshi-001", Name: "Kanshi (観至)", Style: core.StyleCritical},
	}
	s := core.NewSession(title, agents)
	s.UserPrompt = "What should we build?"
	s.AppendMessage(core.NewMessage("eiro-001", "Build it stepwise.", core.RoleAgent, core.StageIndividualThought, 1))
	return s
}

func TestJSONStoreRoundTrip(t *testing.T) {
	store := NewJSONSessionStore(t.TempDir())
	ctx := context.Background()

	session := sampleSession("round trip")
	require.NoError(t, store.SaveSession(ctx, session))

	loaded, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)
	assert.Equal(t, "round trip", loaded.Title)
	assert.Equal(t, "What should we build?", loaded.UserPrompt)
	require.Len(t, loaded.Messages, 1)
	assert.Equal(t, "Build it stepwise.", loaded.Messages[0].Content)
	require.Len(t, loaded.Agents, 2)
}

func TestJSONStoreKeepsPriorSequenceHistory(t *testing.T) {
	store := NewJSONSessionStore(t.TempDir())
	ctx := context.Background()

	session := sampleSession("restarted")
	session.BeginStage(core.StageIndividualThought)
	require.NoError(t, store.SaveSession(ctx, session))

	session.StartNewSequence()
	session.AppendMessage(core.NewMessage("kanshi-001", "Second pass.", core.RoleAgent, core.StageIndividualThought, 2))
	require.NoError(t, store.SaveSession(ctx, session))

	loaded, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.SequenceNumber)

	// Sequence-1 history survives the restart round trip.
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, 1, loaded.Messages[0].SequenceNumber)
	assert.Equal(t, "Build it stepwise.", loaded.Messages[0].Content)
	require.Len(t, loaded.StageHistory, 1)
	assert.Equal(t, 1, loaded.StageHistory[0].SequenceNumber)

	// Reads scoped to the new sequence see only its own messages.
	seqMsgs := loaded.SequenceMessages()
	require.Len(t, seqMsgs, 1)
	assert.Equal(t, "Second pass.", seqMsgs[0].Content)
}

func TestJSONStoreNotFound(t *testing.T) {
	store := NewJSONSessionStore(t.TempDir())
	_, err := store.GetSession(context.Background(), "nope")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestJSONStoreDelete(t *testing.T) {
	store := NewJSONSessionStore(t.TempDir())
	ctx := context.Background()

	session := sampleSession("doomed")
	require.NoError(t, store.SaveSession(ctx, session))

	deleted, err := store.DeleteSession(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.DeleteSession(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestJSONStoreListsNewestFirst(t *testing.T) {
	store := NewJSONSessionStore(t.TempDir())
	ctx := context.Background()

	first := sampleSession("first")
	require.NoError(t, store.SaveSession(ctx, first))
	time.Sleep(5 * time.Millisecond)
	second := sampleSession("second")
	require.NoError(t, store.SaveSession(ctx, second))

	sessions, err := store.GetAllSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "second", sessions[0].Title)
	assert.Equal(t, "first", sessions[1].Title)
}

func TestJSONStoreEmptyDir(t *testing.T) {
	store := NewJSONSessionStore(filepath.Join(t.TempDir(), "never-created"))
	sessions, err := store.GetAllSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestJSONStoreDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	store := NewJSONSessionStore(dir)
	ctx := context.Background()

	session := sampleSession("tampered")
	require.NoError(t, store.SaveSession(ctx, session))

	path := filepath.Join(dir, string(session.ID)+".json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Flip the stored title without recomputing the checksum.
	tampered := strings.Replace(string(data), "tampered", "modified", 1)
	require.NoError(t, os.WriteFile(path, []byte(tampered), 0o644))

	_, err = store.GetSession(ctx, session.ID)
	assert.ErrorContains(t, err, "checksum mismatch")
}
