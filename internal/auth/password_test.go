// ABOUTME: Tests for credential verification and password hashing

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convene-hq/convene/internal/store"
)

// fakeUserStore serves users from a map keyed by username
type fakeUserStore struct {
	users map[string]*store.User
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*store.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user, nil
}

func newFakeUserStore(t *testing.T, username, password string, role store.Role) *fakeUserStore {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &fakeUserStore{users: map[string]*store.User{
		username: {
			ID:           1,
			Username:     username,
			Email:        username + "@example.com",
			PasswordHash: hash,
			Role:         role,
		},
	}}
}

func TestAuthenticate_Success(t *testing.T) {
	users := newFakeUserStore(t, "alice", "s3cret", store.RoleAttendee)

	identity, err := Authenticate(context.Background(), users, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, store.RoleAttendee, identity.Role)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	users := newFakeUserStore(t, "alice", "s3cret", store.RoleAttendee)

	_, err := Authenticate(context.Background(), users, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	users := newFakeUserStore(t, "alice", "s3cret", store.RoleAttendee)

	_, err := Authenticate(context.Background(), users, "mallory", "s3cret")
	// Same error as a wrong password: no user enumeration
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("same password")
	require.NoError(t, err)
	h2, err := HashPassword("same password")
	require.NoError(t, err)

	// Fresh salt per hash means distinct outputs
	assert.NotEqual(t, h1, h2)
}

func TestIdentityFromUser_DropsHash(t *testing.T) {
	users := newFakeUserStore(t, "alice", "s3cret", store.RoleSpeaker)

	identity, err := Authenticate(context.Background(), users, "alice", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, int64(1), identity.ID)
	assert.Equal(t, "alice@example.com", identity.Email)
	// Identity has no hash field; this test documents the boundary
}
