package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

func newTestSQLiteStore(t *testing.T) *SQLiteSessionStore {
	t.Helper()
	store, err := NewSQLiteSessionStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	session := sampleSession("sqlite round trip")
	session.VotingResults = core.VotingResults{"eiro-001": "kanshi-001"}
	session.RecordConclusion("done")
	require.NoError(t, store.SaveSession(ctx, session))

	loaded, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)
	assert.Equal(t, "sqlite round trip", loaded.Title)
	require.Len(t, loaded.Messages, 1)
	assert.Equal(t, core.AgentID("kanshi-001"), loaded.VotingResults["eiro-001"])
	assert.Equal(t, "done", loaded.FinalConclusions[1])
}

func TestSQLiteStoreUpsert(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	session := sampleSession("v1")
	require.NoError(t, store.SaveSession(ctx, session))

	session.Title = "v2"
	session.AppendMessage(core.NewMessage("kanshi-001", "Objection.", core.RoleAgent, core.StageMutualReflection, 1))
	require.NoError(t, store.SaveSession(ctx, session))

	loaded, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", loaded.Title)
	assert.Len(t, loaded.Messages, 2)

	sessions, err := store.GetAllSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestSQLiteStoreNotFound(t *testing.T) {
	store := newTestSQLiteStore(t)
	_, err := store.GetSession(context.Background(), "absent")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestSQLiteStoreDelete(t *testing.T) {
	store := newTestSQLiteStore(t)
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

func TestSQLiteStoreListsNewestFirst(t *testing.T) {
	store := newTestSQLiteStore(t)
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
}

func TestFactorySelectsBackend(t *testing.T) {
	t.Run("defaults to json", func(t *testing.T) {
		store, err := NewSessionStore(configFor("", t.TempDir(), ""))
		require.NoError(t, err)
		_, ok := store.(*JSONSessionStore)
		assert.True(t, ok)
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := NewSessionStore(configFor("sqlite", "", filepath.Join(t.TempDir(), "s.db")))
		require.NoError(t, err)
		s, ok := store.(*SQLiteSessionStore)
		require.True(t, ok)
		_ = s.Close()
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := NewSessionStore(configFor("leveldb", "", ""))
		assert.Error(t, err)
	})
}
