// ABOUTME: Tests for login and user management endpoints
// ABOUTME: Covers token issuance, uniform login failures, user CRUD, and /users/me

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convene-hq/convene/internal/store"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", store.RoleAttendee)

	rec := env.do(t, http.MethodPost, "/token", "", LoginRequest{
		Username: "alice",
		Password: testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[TokenResponse](t, rec)
	assert.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)

	// The issued token works against an authenticated route
	me := env.do(t, http.MethodGet, "/users/me", resp.AccessToken, nil)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "alice", decodeBody[UserResponse](t, me).Username)
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", store.RoleAttendee)

	tests := []struct {
		name string
		req  LoginRequest
		want int
	}{
		{"wrong password", LoginRequest{Username: "alice", Password: "nope"}, http.StatusUnauthorized},
		{"unknown user", LoginRequest{Username: "bob", Password: testPassword}, http.StatusUnauthorized},
		{"missing password", LoginRequest{Username: "alice"}, http.StatusBadRequest},
		{"missing username", LoginRequest{Password: testPassword}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/token", "", tt.req)
			assert.Equal(t, tt.want, rec.Code)

			if tt.want == http.StatusUnauthorized {
				// Wrong password and unknown user are indistinguishable
				body := decodeBody[map[string]string](t, rec)
				assert.Equal(t, "incorrect username or password", body["error"])
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin", store.RoleAdministrator)

	rec := env.do(t, http.MethodPost, "/users", adminToken, CreateUserRequest{
		Username: "newbie",
		Email:    "newbie@example.com",
		Password: "a sufficiently long password",
		Role:     "attendee",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeBody[UserResponse](t, rec)
	assert.Equal(t, "newbie", resp.Username)
	assert.Equal(t, "attendee", resp.Role)
	assert.NotZero(t, resp.ID)

	// The new user can log in immediately
	login := env.do(t, http.MethodPost, "/token", "", LoginRequest{
		Username: "newbie",
		Password: "a sufficiently long password",
	})
	assert.Equal(t, http.StatusOK, login.Code)
}

func TestCreateUser_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin", store.RoleAdministrator)

	tests := []struct {
		name string
		req  CreateUserRequest
		want int
	}{
		{"missing fields", CreateUserRequest{Username: "x"}, http.StatusBadRequest},
		{"bad role", CreateUserRequest{Username: "x", Email: "x@e.com", Password: "p", Role: "superuser"}, http.StatusBadRequest},
		{"duplicate username", CreateUserRequest{Username: "admin", Email: "other@e.com", Password: "p", Role: "attendee"}, http.StatusConflict},
		{"duplicate email", CreateUserRequest{Username: "other", Email: "admin@example.com", Password: "p", Role: "attendee"}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/users", adminToken, tt.req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestGetUserByEmail(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin", store.RoleAdministrator)
	env.seedUser(t, "target", store.RoleSpeaker)

	rec := env.do(t, http.MethodGet, "/users?email=target@example.com", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "target", decodeBody[UserResponse](t, rec).Username)

	rec = env.do(t, http.MethodGet, "/users?email=ghost@example.com", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/users", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin", store.RoleAdministrator)
	env.seedUser(t, "bob", store.RoleAttendee)
	env.seedUser(t, "carol", store.RoleSpeaker)

	rec := env.do(t, http.MethodGet, "/users/all", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	users := decodeBody[[]UserResponse](t, rec)
	assert.Len(t, users, 3)
}

func TestUpdateUser(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin", store.RoleAdministrator)
	target, _ := env.seedUser(t, "target", store.RoleAttendee)

	rec := env.do(t, http.MethodPut, "/users/"+itoa(target.ID), adminToken, UpdateUserRequest{
		Email: "renamed@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[UserResponse](t, rec)
	assert.Equal(t, "renamed@example.com", resp.Email)
	assert.Equal(t, "target", resp.Username) // unchanged

	// Unknown user
	rec = env.do(t, http.MethodPut, "/users/9999", adminToken, UpdateUserRequest{Email: "x@e.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Empty update
	rec = env.do(t, http.MethodPut, "/users/"+itoa(target.ID), adminToken, UpdateUserRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUser_PasswordChange(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin", store.RoleAdministrator)
	target, _ := env.seedUser(t, "target", store.RoleAttendee)

	rec := env.do(t, http.MethodPut, "/users/"+itoa(target.ID), adminToken, UpdateUserRequest{
		Password: "brand new password",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Old password rejected, new accepted
	old := env.do(t, http.MethodPost, "/token", "", LoginRequest{Username: "target", Password: testPassword})
	assert.Equal(t, http.StatusUnauthorized, old.Code)

	fresh := env.do(t, http.MethodPost, "/token", "", LoginRequest{Username: "target", Password: "brand new password"})
	assert.Equal(t, http.StatusOK, fresh.Code)
}

func TestMe_ResponseOmitsPasswordHash(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "alice", store.RoleAttendee)

	rec := env.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "$2a$")
}
