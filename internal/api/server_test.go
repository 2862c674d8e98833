package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/polylogue/internal/config"
	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
	"github.com/hugo-lorenzo-mato/polylogue/internal/events"
	"github.com/hugo-lorenzo-mato/polylogue/internal/router"
)

type memStore struct {
	mu       sync.Mutex
	sessions map[core.SessionID]*core.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[core.SessionID]*core.Session)}
}

func (s *memStore) SaveSession(_ context.Context, session *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *memStore) GetSession(_ context.Context, id core.SessionID) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, core.ErrSessionNotFound)
	}
	return session, nil
}

func (s *memStore) GetAllSessions(_ context.Context) ([]*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*core.Session
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out, nil
}

func (s *memStore) DeleteSession(_ context.Context, id core.SessionID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok, nil
}

type echoExecutor struct{}

func (echoExecutor) Execute(_ context.Context, _, _ string) (*core.ExecuteResult, error) {
	return &core.ExecuteResult{Content: "ok\nApproach: echo\n"}, nil
}

func apiAgents() []core.Agent {
	return []core.Agent{
		{ID: "eiro-001", Name: "Eiro (慧露)", Style: core.StyleLogical},
		{ID: "kanshi-001", Name: "Kanshi (観至)", Style: core.StyleCritical},
	}
}

func newTestServer(t *testing.T) (*Server, *memStore) {
	t.Helper()
	store := newMemStore()
	bus := events.New(16)
	t.Cleanup(bus.Close)

	engine, err := router.New(config.DialogueConfig{RecentWindow: 5}, router.Deps{
		Store:    store,
		Executor: echoExecutor{},
		Sleeper:  router.NoopSleeper{},
		Bus:      bus,
	})
	require.NoError(t, err)

	return NewServer(config.APIConfig{}, store, engine, bus, apiAgents()), store
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateAndGetSession(t *testing.T) {
	server, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"title":"api test","prompt":"what now?","language":"en"}`)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", body))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created core.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "api test", created.Title)
	assert.Len(t, created.Agents, 2)

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+string(created.ID), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateSessionRequiresPrompt(t *testing.T) {
	server, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions",
		bytes.NewBufferString(`{"title":"empty"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetSessionNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/ghost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSession(t *testing.T) {
	server, store := newTestServer(t)

	session := core.NewSession("doomed", apiAgents())
	require.NoError(t, store.SaveSession(context.Background(), session))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+string(session.ID), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+string(session.ID), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSessions(t *testing.T) {
	server, store := newTestServer(t)
	require.NoError(t, store.SaveSession(context.Background(), core.NewSession("one", apiAgents())))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Sessions []sessionSummary `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Sessions, 1)
	assert.Equal(t, "one", payload.Sessions[0].Title)
}

func TestExecuteStageEndpoint(t *testing.T) {
	server, store := newTestServer(t)

	session := core.NewSession("stepwise", apiAgents())
	session.UserPrompt = "a question"
	require.NoError(t, store.SaveSession(context.Background(), session))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/api/v1/sessions/"+string(session.ID)+"/stages/individual-thought", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated core.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.NotEmpty(t, updated.Messages)
}

func TestExecuteStageRejectsUnknownStage(t *testing.T) {
	server, store := newTestServer(t)

	session := core.NewSession("s", apiAgents())
	require.NoError(t, store.SaveSession(context.Background(), session))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/api/v1/sessions/"+string(session.ID)+"/stages/negotiation", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExecuteStageOnCompletedSession(t *testing.T) {
	server, store := newTestServer(t)

	session := core.NewSession("done", apiAgents())
	session.MarkComplete()
	require.NoError(t, store.SaveSession(context.Background(), session))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/api/v1/sessions/"+string(session.ID)+"/stages/synthesis-attempt", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
