package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

// sessionSummary is the listing view of a session.
type sessionSummary struct {
	ID             core.SessionID     `json:"id"`
	Title          string             `json:"title"`
	Status         core.SessionStatus `json:"status"`
	CurrentStage   core.Stage         `json:"current_stage"`
	SequenceNumber int                `json:"sequence_number"`
	Complete       bool               `json:"complete"`
	MessageCount   int                `json:"message_count"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func summarize(s *core.Session) sessionSummary {
	return sessionSummary{
		ID:             s.ID,
		Title:          s.Title,
		Status:         s.Status,
		CurrentStage:   s.CurrentStage,
		SequenceNumber: s.SequenceNumber,
		Complete:       s.Complete,
		MessageCount:   len(s.Messages),
		UpdatedAt:      s.UpdatedAt,
	}
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.GetAllSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	summaries := make([]sessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, summarize(session))
	}
	respondJSON(w, http.StatusOK, map[string]any{"sessions": summaries})
}

type createSessionRequest struct {
	Title    string `json:"title"`
	Prompt   string `json:"prompt"`
	Language string `json:"language"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Prompt == "" {
		respondError(w, http.StatusUnprocessableEntity, "prompt is required")
		return
	}

	session := core.NewSession(req.Title, s.agents)
	session.UserPrompt = req.Prompt
	session.Language = req.Language

	if err := s.store.SaveSession(r.Context(), session); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := core.SessionID(chi.URLParam(r, "sessionID"))
	session, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := core.SessionID(chi.URLParam(r, "sessionID"))
	deleted, err := s.store.DeleteSession(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type runRequest struct {
	Prompt string `json:"prompt"`
}

// handleRunSequence starts a full dialogue pass in the background. Progress
// streams over /api/v1/events; the session document reflects each committed
// stage.
func (s *Server) handleRunSequence(w http.ResponseWriter, r *http.Request) {
	id := core.SessionID(chi.URLParam(r, "sessionID"))

	var req runRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if _, err := s.store.GetSession(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	go func() {
		if _, err := s.engine.RunSequence(context.Background(), id, req.Prompt); err != nil {
			s.logger.Error("sequence run failed", "session", id, "error", err)
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{
		"session_id": string(id),
		"status":     "running",
	})
}

func (s *Server) handleExecuteStage(w http.ResponseWriter, r *http.Request) {
	id := core.SessionID(chi.URLParam(r, "sessionID"))
	stage, err := core.ParseStage(chi.URLParam(r, "stage"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var req runRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	session, err := s.engine.ExecuteStage(r.Context(), id, stage, req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrSessionNotFound):
			respondError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, core.ErrSessionComplete):
			respondError(w, http.StatusConflict, "session already complete")
		case errors.Is(err, core.ErrUnknownStage), errors.Is(err, core.ErrNoAgents):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, session)
}
