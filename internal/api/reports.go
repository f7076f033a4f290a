// ABOUTME: Administrator reporting handlers
// ABOUTME: Report bodies are cached; the figures tolerate short staleness

package api

import (
	"encoding/json"
	"net/http"

	"github.com/convene-hq/convene/internal/cache"
)

// AttendanceRow is one line of the event attendance report.
type AttendanceRow struct {
	Title         string `json:"title"`
	AttendeeCount int64  `json:"attendee_count"`
}

// SignupsRow is one line of the monthly signups report.
type SignupsRow struct {
	Month   string `json:"month"`
	Signups int64  `json:"signups"`
}

// handleAttendanceReport handles GET /reports/event-attendance.
func (s *Server) handleAttendanceReport(w http.ResponseWriter, r *http.Request) {
	serveCachedReport(s, w, r, "report:attendance", func() (any, error) {
		rows, err := s.store.EventAttendanceReport(r.Context())
		if err != nil {
			return nil, err
		}
		out := make([]AttendanceRow, 0, len(rows))
		for _, row := range rows {
			out = append(out, AttendanceRow{Title: row.Title, AttendeeCount: row.AttendeeCount})
		}
		return out, nil
	})
}

// handleSignupsReport handles GET /reports/monthly-signups.
func (s *Server) handleSignupsReport(w http.ResponseWriter, r *http.Request) {
	serveCachedReport(s, w, r, "report:signups", func() (any, error) {
		rows, err := s.store.MonthlySignupsReport(r.Context())
		if err != nil {
			return nil, err
		}
		out := make([]SignupsRow, 0, len(rows))
		for _, row := range rows {
			out = append(out, SignupsRow{Month: row.Month, Signups: row.Signups})
		}
		return out, nil
	})
}

// serveCachedReport answers from the response cache when possible, otherwise
// builds the report and caches the serialized body.
func serveCachedReport(s *Server, w http.ResponseWriter, r *http.Request, key string, build func() (any, error)) {
	if body, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	report, err := build()
	if err != nil {
		s.logger.Error("building report", "key", key, "error", err)
		s.storeError(w, err, "report unavailable")
		return
	}

	body, err := json.Marshal(report)
	if err != nil {
		s.logger.Error("encoding report", "key", key, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := s.cache.Set(r.Context(), key, body, cache.DefaultTTL); err != nil {
		s.logger.Warn("caching report", "key", key, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
