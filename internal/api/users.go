// ABOUTME: Login and user management handlers
// ABOUTME: User creation and listing are administrator operations; /users/me serves any identity

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/convene-hq/convene/internal/auth"
	"github.com/convene-hq/convene/internal/store"
)

// LoginRequest is the JSON request body for POST /token.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the JSON response for POST /token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CreateUserRequest is the JSON request body for POST /users.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserRequest is the JSON request body for PUT /users/{id}.
// Empty fields keep their current values.
type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the JSON shape for user records. The password hash never
// leaves the store layer.
type UserResponse struct {
	ID        int64  `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func userResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// handleLogin handles POST /token. Every failure mode answers the same 401 so
// callers cannot probe for registered usernames.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		sendJSONError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	identity, err := auth.Authenticate(r.Context(), s.store, req.Username, req.Password)
	if err != nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		sendJSONError(w, http.StatusUnauthorized, "incorrect username or password")
		return
	}

	token, err := s.tokens.Issue(identity.Username, s.accessTokenTTL)
	if err != nil {
		s.logger.Error("issuing access token", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// handleCreateUser handles POST /users.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		sendJSONError(w, http.StatusBadRequest, "username, email, and password are required")
		return
	}

	role := store.Role(req.Role)
	if !role.Valid() {
		sendJSONError(w, http.StatusBadRequest, "role must be administrator, speaker, or attendee")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hashing password", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user := &store.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			sendJSONError(w, http.StatusConflict, "username or email already registered")
			return
		}
		s.logger.Error("creating user", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, userResponse(user))
}

// handleGetUserByEmail handles GET /users?email=.
func (s *Server) handleGetUserByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		sendJSONError(w, http.StatusBadRequest, "email query parameter is required")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		s.storeError(w, err, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, userResponse(user))
}

// handleListUsers handles GET /users/all.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.logger.Error("listing users", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleUpdateUser handles PUT /users/{id}.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" && req.Email == "" && req.Password == "" {
		sendJSONError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	var hash string
	if req.Password != "" {
		var err error
		hash, err = auth.HashPassword(req.Password)
		if err != nil {
			s.logger.Error("hashing password", "error", err)
			sendJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	user, err := s.store.UpdateUser(r.Context(), id, req.Username, req.Email, hash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			sendJSONError(w, http.StatusConflict, "username or email already registered")
			return
		}
		s.storeError(w, err, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, userResponse(user))
}

// handleMe handles GET /users/me.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	user, err := s.store.GetUserByUsername(r.Context(), identity.Username)
	if err != nil {
		s.storeError(w, err, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, userResponse(user))
}
