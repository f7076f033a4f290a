// ABOUTME: Event CRUD, listing with filters and recommendations, enrollment, and cover selection
// ABOUTME: Read endpoints cache serialized bodies under short TTLs

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/convene-hq/convene/internal/auth"
	"github.com/convene-hq/convene/internal/cache"
	"github.com/convene-hq/convene/internal/store"
)

// EventRequest is the JSON request body for POST /events and PUT /events/{id}.
// On update, empty fields keep their current values.
type EventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Location    string `json:"location"`
}

// EventResponse is the JSON shape for event records.
type EventResponse struct {
	ID          int64  `json:"event_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Location    string `json:"location"`
	CreatedBy   *int64 `json:"created_by,omitempty"`
	CoverID     *int64 `json:"cover_attachment_id,omitempty"`
	Recommended bool   `json:"recommended"`
}

// EventListResponse is the JSON response for GET /events.
type EventListResponse struct {
	Events     []EventResponse `json:"events"`
	TotalPages int             `json:"total_pages"`
}

func eventResponse(e *store.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartDate:   e.StartDate.Format("2006-01-02"),
		EndDate:     e.EndDate.Format("2006-01-02"),
		Location:    e.Location,
		CreatedBy:   e.CreatedBy,
		CoverID:     e.CoverID,
		Recommended: e.Recommended,
	}
}

// parseEventDate accepts a plain date or a full RFC3339 timestamp.
func parseEventDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// handleCreateEvent handles POST /events.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := decodeJSON(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == "" || req.StartDate == "" || req.EndDate == "" {
		sendJSONError(w, http.StatusBadRequest, "title, start_date, and end_date are required")
		return
	}

	start, err := parseEventDate(req.StartDate)
	if err != nil {
		sendJSONError(w, http.StatusBadRequest, "invalid start_date")
		return
	}
	end, err := parseEventDate(req.EndDate)
	if err != nil {
		sendJSONError(w, http.StatusBadRequest, "invalid end_date")
		return
	}
	if end.Before(start) {
		sendJSONError(w, http.StatusBadRequest, "end_date must not precede start_date")
		return
	}

	identity := auth.MustFromContext(r.Context())
	event := &store.Event{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Location:    req.Location,
		CreatedBy:   &identity.ID,
	}
	if err := s.store.CreateEvent(r.Context(), event); err != nil {
		s.logger.Error("creating event", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, eventResponse(event))
}

// handleGetEvent handles GET /events/{id}. The serialized body is cached so
// bursts of reads for a popular event skip the database.
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	key := eventCacheKey(id)
	if body, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	event, err := s.store.GetEvent(r.Context(), id)
	if err != nil {
		s.storeError(w, err, "event not found")
		return
	}

	body, err := json.Marshal(eventResponse(event))
	if err != nil {
		s.logger.Error("encoding event", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := s.cache.Set(r.Context(), key, body, cache.DefaultTTL); err != nil {
		s.logger.Warn("caching event", "event_id", id, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// handleListEvents handles GET /events. Authenticated callers get the
// recommended flag computed against their interests; anonymous responses are
// cached per query string.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.EventFilter{
		Title:    q.Get("title"),
		Location: q.Get("location"),
		Date:     q.Get("date"),
	}
	if v := q.Get("interest_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			sendJSONError(w, http.StatusBadRequest, "invalid interest_id")
			return
		}
		filter.InterestID = id
	}
	if v := q.Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			sendJSONError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		filter.Page = p
	}
	if v := q.Get("page_size"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			sendJSONError(w, http.StatusBadRequest, "page_size must be a positive integer")
			return
		}
		filter.PageSize = p
	}

	identity := auth.FromContext(r.Context())
	if identity != nil {
		filter.ViewerID = identity.ID
	}

	// Only anonymous responses are cacheable: the recommended flag is
	// viewer-specific.
	var key string
	if identity == nil {
		key = "events:" + r.URL.RawQuery
		if body, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	events, totalPages, err := s.store.ListEvents(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing events", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := EventListResponse{Events: make([]EventResponse, 0, len(events)), TotalPages: totalPages}
	for _, e := range events {
		out.Events = append(out.Events, eventResponse(e))
	}

	if key != "" {
		if body, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(r.Context(), key, body, cache.DefaultTTL); err != nil {
				s.logger.Warn("caching event list", "error", err)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	writeJSON(w, http.StatusOK, out)
}

// handleUpdateEvent handles PUT /events/{id}.
func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var req EventRequest
	if err := decodeJSON(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	upd := &store.EventUpdate{}
	if req.Title != "" {
		upd.Title = &req.Title
	}
	if req.Description != "" {
		upd.Description = &req.Description
	}
	if req.Location != "" {
		upd.Location = &req.Location
	}
	if req.StartDate != "" {
		start, err := parseEventDate(req.StartDate)
		if err != nil {
			sendJSONError(w, http.StatusBadRequest, "invalid start_date")
			return
		}
		upd.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := parseEventDate(req.EndDate)
		if err != nil {
			sendJSONError(w, http.StatusBadRequest, "invalid end_date")
			return
		}
		upd.EndDate = &end
	}

	event, err := s.store.UpdateEvent(r.Context(), id, upd)
	if err != nil {
		s.storeError(w, err, "event not found")
		return
	}

	s.invalidateEvent(r, id)
	writeJSON(w, http.StatusOK, eventResponse(event))
}

// handleDeleteEvent handles DELETE /events/{id}.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	if err := s.store.DeleteEvent(r.Context(), id); err != nil {
		s.storeError(w, err, "event not found")
		return
	}

	s.invalidateEvent(r, id)
	w.WriteHeader(http.StatusNoContent)
}

// handleEnroll handles POST /events/{id}/enroll.
func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	identity := auth.MustFromContext(r.Context())
	if err := s.store.Enroll(r.Context(), identity.ID, id); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			sendJSONError(w, http.StatusConflict, "already enrolled")
			return
		}
		s.storeError(w, err, "event not found")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "enrolled"})
}

// handleUnenroll handles DELETE /events/{id}/enroll.
func (s *Server) handleUnenroll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	identity := auth.MustFromContext(r.Context())
	if err := s.store.Unenroll(r.Context(), identity.ID, id); err != nil {
		s.storeError(w, err, "enrollment not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListEnrolled handles GET /events/enrolled.
func (s *Server) handleListEnrolled(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	events, err := s.store.ListEnrolledEvents(r.Context(), identity.ID)
	if err != nil {
		s.logger.Error("listing enrolled events", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

// SetCoverRequest is the JSON request body for PUT /events/{id}/cover.
type SetCoverRequest struct {
	AttachmentID int64 `json:"attachment_id"`
}

// handleSetCover handles PUT /events/{id}/cover. The attachment must belong
// to the event.
func (s *Server) handleSetCover(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var req SetCoverRequest
	if err := decodeJSON(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.AttachmentID <= 0 {
		sendJSONError(w, http.StatusBadRequest, "attachment_id is required")
		return
	}

	if err := s.store.SetEventCover(r.Context(), id, req.AttachmentID); err != nil {
		s.storeError(w, err, "event or attachment not found")
		return
	}

	s.invalidateEvent(r, id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cover set"})
}

func eventCacheKey(id int64) string {
	return fmt.Sprintf("event:%d", id)
}

// invalidateEvent drops the cached detail body after a mutation. List keys
// age out on their own short TTL.
func (s *Server) invalidateEvent(r *http.Request, id int64) {
	if err := s.cache.Delete(r.Context(), eventCacheKey(id)); err != nil {
		s.logger.Warn("invalidating event cache", "event_id", id, "error", err)
	}
}
