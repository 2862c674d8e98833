package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handleSSE streams engine events to the client as Server-Sent Events.
// An optional ?session= query parameter filters to one session.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ctx := r.Context()
	sessionFilter := r.URL.Query().Get("session")

	ch := s.bus.Subscribe()
	defer s.bus.Unsubscribe(ch)

	s.logger.Info("sse client connected", "remote_addr", r.RemoteAddr, "session", sessionFilter)
	s.sendSSEEvent(w, flusher, "connected", map[string]string{"status": "connected"})

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sse client disconnected", "remote_addr", r.RemoteAddr)
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if sessionFilter != "" && event.SessionID() != sessionFilter {
				continue
			}
			s.sendSSEEvent(w, flusher, event.EventType(), event)
		}
	}
}

func (s *Server) sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("sse marshal failed", "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()
}
