// ABOUTME: Speaker profile handlers
// ABOUTME: Creation and deletion are administrator operations; listing is public

package api

import (
	"net/http"
)

// SpeakerRequest is the JSON request body for POST /speakers.
type SpeakerRequest struct {
	Name string `json:"name"`
}

// SpeakerResponse is the JSON shape for speaker records.
type SpeakerResponse struct {
	ID   int64  `json:"speaker_id"`
	Name string `json:"name"`
}

// handleCreateSpeaker handles POST /speakers.
func (s *Server) handleCreateSpeaker(w http.ResponseWriter, r *http.Request) {
	var req SpeakerRequest
	if err := decodeJSON(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		sendJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := s.store.CreateSpeaker(r.Context(), req.Name)
	if err != nil {
		s.logger.Error("creating speaker", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, SpeakerResponse{ID: id, Name: req.Name})
}

// handleDeleteSpeaker handles DELETE /speakers/{id}.
func (s *Server) handleDeleteSpeaker(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid speaker id")
		return
	}

	if err := s.store.DeleteSpeaker(r.Context(), id); err != nil {
		s.storeError(w, err, "speaker not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListSpeakers handles GET /speakers.
func (s *Server) handleListSpeakers(w http.ResponseWriter, r *http.Request) {
	speakers, err := s.store.ListSpeakers(r.Context())
	if err != nil {
		s.logger.Error("listing speakers", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]SpeakerResponse, 0, len(speakers))
	for _, sp := range speakers {
		out = append(out, SpeakerResponse{ID: sp.ID, Name: sp.Name})
	}
	writeJSON(w, http.StatusOK, out)
}
