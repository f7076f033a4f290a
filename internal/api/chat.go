// ABOUTME: Event assistant chat handlers
// ABOUTME: Mints a session id when the caller has none and echoes it back

package api

import (
	"net/http"

	"github.com/google/uuid"
)

// ChatRequest is the JSON request body for POST /chat. SessionID is optional;
// omitting it starts a new conversation.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Input     string `json:"input"`
}

// ChatResponse is the JSON response for POST /chat. SessionID is always
// present so the caller can continue the conversation.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

// handleChat handles POST /chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		sendJSONError(w, http.StatusServiceUnavailable, "chat assistant is not enabled")
		return
	}

	var req ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Input == "" {
		sendJSONError(w, http.StatusBadRequest, "input is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	reply, err := s.chat.Send(r.Context(), sessionID, req.Input)
	if err != nil {
		s.logger.Error("chat turn failed", "session_id", sessionID, "error", err)
		sendJSONError(w, http.StatusBadGateway, "assistant unavailable")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{SessionID: sessionID, Response: reply})
}

// handleEndChat handles DELETE /chat/{session_id}.
func (s *Server) handleEndChat(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		sendJSONError(w, http.StatusServiceUnavailable, "chat assistant is not enabled")
		return
	}

	sessionID := r.PathValue("session_id")
	if sessionID == "" {
		sendJSONError(w, http.StatusBadRequest, "session id is required")
		return
	}

	s.chat.Sessions().Remove(sessionID)
	w.WriteHeader(http.StatusNoContent)
}
