// ABOUTME: HTTP server assembly: routes, middleware composition, health check
// ABOUTME: Route patterns use the Go 1.22 method-aware mux

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/convene-hq/convene/internal/auth"
	"github.com/convene-hq/convene/internal/cache"
	"github.com/convene-hq/convene/internal/chatbot"
	"github.com/convene-hq/convene/internal/store"
)

// Server holds the handler dependencies and builds the route table.
type Server struct {
	store  store.Store
	tokens *auth.TokenService
	cache  cache.Cache
	chat   *chatbot.Service // nil when the assistant is disabled

	accessTokenTTL time.Duration
	logger         *slog.Logger
}

// NewServer wires the API surface. chat may be nil; chat routes then answer
// 503.
func NewServer(st store.Store, tokens *auth.TokenService, c cache.Cache, chat *chatbot.Service, accessTokenTTL time.Duration) *Server {
	if c == nil {
		c = cache.Noop{}
	}
	return &Server{
		store:          st,
		tokens:         tokens,
		cache:          c,
		chat:           chat,
		accessTokenTTL: accessTokenTTL,
		logger:         slog.Default().With("component", "api"),
	}
}

// chain applies middleware left to right: the first listed runs outermost.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	authed := auth.RequireAuth(s.store, s.tokens)
	optional := auth.OptionalAuth(s.store, s.tokens)
	admin := auth.RequireRoles(store.RoleAdministrator)
	speaker := auth.RequireRoles(store.RoleSpeaker)
	attendee := auth.RequireRoles(store.RoleAttendee)
	adminOrSpeaker := auth.RequireRoles(store.RoleAdministrator, store.RoleSpeaker)

	h := func(fn http.HandlerFunc, mws ...func(http.Handler) http.Handler) http.Handler {
		return chain(fn, mws...)
	}

	// Auth
	mux.Handle("POST /token", h(s.handleLogin))

	// Users
	mux.Handle("POST /users", h(s.handleCreateUser, authed, admin))
	mux.Handle("GET /users", h(s.handleGetUserByEmail, authed, admin))
	mux.Handle("GET /users/all", h(s.handleListUsers, authed, admin))
	mux.Handle("PUT /users/{id}", h(s.handleUpdateUser, authed, admin))
	mux.Handle("GET /users/me", h(s.handleMe, authed))

	// User interests
	mux.Handle("GET /users/me/interests", h(s.handleListMyInterests, authed, attendee))
	mux.Handle("POST /users/me/interests/{id}", h(s.handleAddMyInterest, authed, attendee))
	mux.Handle("DELETE /users/me/interests/{id}", h(s.handleRemoveMyInterest, authed, attendee))

	// Events
	mux.Handle("POST /events", h(s.handleCreateEvent, authed, admin))
	mux.Handle("GET /events", h(s.handleListEvents, optional))
	mux.Handle("GET /events/enrolled", h(s.handleListEnrolled, authed, attendee))
	mux.Handle("GET /events/{id}", h(s.handleGetEvent))
	mux.Handle("PUT /events/{id}", h(s.handleUpdateEvent, authed, adminOrSpeaker))
	mux.Handle("DELETE /events/{id}", h(s.handleDeleteEvent, authed, admin))
	mux.Handle("POST /events/{id}/enroll", h(s.handleEnroll, authed, attendee))
	mux.Handle("DELETE /events/{id}/enroll", h(s.handleUnenroll, authed, attendee))
	mux.Handle("PUT /events/{id}/cover", h(s.handleSetCover, authed, adminOrSpeaker))

	// Event interests
	mux.Handle("POST /events/{id}/interests/{interestID}", h(s.handleAddEventInterest, authed, adminOrSpeaker))
	mux.Handle("DELETE /events/{id}/interests/{interestID}", h(s.handleRemoveEventInterest, authed, adminOrSpeaker))

	// Attachments
	mux.Handle("POST /events/{id}/attachments", h(s.handleUploadAttachment, authed, adminOrSpeaker))
	mux.Handle("GET /events/{id}/attachments", h(s.handleListAttachments))
	mux.Handle("GET /attachments/{id}", h(s.handleDownloadAttachment))
	mux.Handle("DELETE /attachments/{id}", h(s.handleDeleteAttachment, authed, adminOrSpeaker))

	// Interests
	mux.Handle("POST /interests", h(s.handleCreateInterest, authed, admin))
	mux.Handle("PUT /interests/{id}", h(s.handleUpdateInterest, authed, admin))
	mux.Handle("DELETE /interests/{id}", h(s.handleDeleteInterest, authed, admin))
	mux.Handle("GET /interests", h(s.handleListInterests))

	// Speakers
	mux.Handle("POST /speakers", h(s.handleCreateSpeaker, authed, admin))
	mux.Handle("DELETE /speakers/{id}", h(s.handleDeleteSpeaker, authed, admin))
	mux.Handle("GET /speakers", h(s.handleListSpeakers))

	// Q&A and ratings
	mux.Handle("POST /questions", h(s.handleCreateQuestion, authed, attendee))
	mux.Handle("POST /answers", h(s.handleCreateAnswer, authed, speaker))
	mux.Handle("GET /events/{id}/questions", h(s.handleListQuestions))
	mux.Handle("GET /questions/{id}/answers", h(s.handleListAnswers))
	mux.Handle("GET /events/{id}/qa", h(s.handleListQA))
	mux.Handle("PUT /events/{id}/rating", h(s.handleRateEvent, authed, attendee))
	mux.Handle("GET /events/{id}/rating", h(s.handleGetRating, optional))

	// Reports
	mux.Handle("GET /reports/event-attendance", h(s.handleAttendanceReport, authed, admin))
	mux.Handle("GET /reports/monthly-signups", h(s.handleSignupsReport, authed, admin))

	// Chat assistant
	mux.Handle("POST /chat", h(s.handleChat))
	mux.Handle("DELETE /chat/{session_id}", h(s.handleEndChat))

	mux.Handle("GET /healthz", h(s.handleHealth))

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
