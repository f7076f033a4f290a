// ABOUTME: JSON response and request helpers shared by all handlers
// ABOUTME: Error bodies are always {"error": message}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/convene-hq/convene/internal/store"
)

// writeJSON serializes v with the given status. Encoding failures are logged
// by the caller's recovery path; headers are already written by then.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendJSONError writes a JSON error response.
func sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// decodeJSON parses the request body into v. The body is capped at 1MB.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

// pathID parses a numeric path value. Returns 0 and false on garbage.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// storeError maps persistence errors onto HTTP responses. notFoundMsg names
// the entity for the 404 body. Unexpected errors are logged before the
// opaque 500 so they leave a trace.
func (s *Server) storeError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		sendJSONError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, store.ErrDuplicate):
		sendJSONError(w, http.StatusConflict, "already exists")
	default:
		s.logger.Error("store operation failed", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
