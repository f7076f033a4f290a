// ABOUTME: Interest management and user/event interest link handlers
// ABOUTME: Interest CRUD is admin-only; linking is scoped to the relevant role

package api

import (
	"errors"
	"net/http"

	"github.com/convene-hq/convene/internal/auth"
	"github.com/convene-hq/convene/internal/store"
)

// InterestRequest is the JSON request body for interest create/update.
type InterestRequest struct {
	Name string `json:"name"`
}

// InterestResponse is the JSON shape for interest records.
type InterestResponse struct {
	ID   int64  `json:"interest_id"`
	Name string `json:"name"`
}

// handleCreateInterest handles POST /interests.
func (s *Server) handleCreateInterest(w http.ResponseWriter, r *http.Request) {
	var req InterestRequest
	if err := decodeJSON(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		sendJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := s.store.CreateInterest(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			sendJSONError(w, http.StatusConflict, "interest already exists")
			return
		}
		s.logger.Error("creating interest", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, InterestResponse{ID: id, Name: req.Name})
}

// handleUpdateInterest handles PUT /interests/{id}.
func (s *Server) handleUpdateInterest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid interest id")
		return
	}

	var req InterestRequest
	if err := decodeJSON(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		sendJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	interest, err := s.store.UpdateInterest(r.Context(), id, req.Name)
	if err != nil {
		s.storeError(w, err, "interest not found")
		return
	}

	writeJSON(w, http.StatusOK, InterestResponse{ID: interest.ID, Name: interest.Name})
}

// handleDeleteInterest handles DELETE /interests/{id}.
func (s *Server) handleDeleteInterest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid interest id")
		return
	}

	if err := s.store.DeleteInterest(r.Context(), id); err != nil {
		s.storeError(w, err, "interest not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListInterests handles GET /interests.
func (s *Server) handleListInterests(w http.ResponseWriter, r *http.Request) {
	interests, err := s.store.ListInterests(r.Context())
	if err != nil {
		s.logger.Error("listing interests", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]InterestResponse, 0, len(interests))
	for _, i := range interests {
		out = append(out, InterestResponse{ID: i.ID, Name: i.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleListMyInterests handles GET /users/me/interests.
func (s *Server) handleListMyInterests(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	ids, err := s.store.ListUserInterests(r.Context(), identity.ID)
	if err != nil {
		s.logger.Error("listing user interests", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string][]int64{"interest_ids": ids})
}

// handleAddMyInterest handles POST /users/me/interests/{id}. Re-adding an
// existing interest is a no-op.
func (s *Server) handleAddMyInterest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid interest id")
		return
	}

	identity := auth.MustFromContext(r.Context())
	if err := s.store.AddUserInterest(r.Context(), identity.ID, id); err != nil {
		s.storeError(w, err, "interest not found")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// handleRemoveMyInterest handles DELETE /users/me/interests/{id}.
func (s *Server) handleRemoveMyInterest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid interest id")
		return
	}

	identity := auth.MustFromContext(r.Context())
	if err := s.store.RemoveUserInterest(r.Context(), identity.ID, id); err != nil {
		s.storeError(w, err, "interest link not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAddEventInterest handles POST /events/{id}/interests/{interestID}.
func (s *Server) handleAddEventInterest(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	interestID, ok := pathID(r, "interestID")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid interest id")
		return
	}

	if err := s.store.AddEventInterest(r.Context(), eventID, interestID); err != nil {
		s.storeError(w, err, "event or interest not found")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// handleRemoveEventInterest handles DELETE /events/{id}/interests/{interestID}.
func (s *Server) handleRemoveEventInterest(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	interestID, ok := pathID(r, "interestID")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid interest id")
		return
	}

	if err := s.store.RemoveEventInterest(r.Context(), eventID, interestID); err != nil {
		s.storeError(w, err, "interest link not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
