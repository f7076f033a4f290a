// ABOUTME: Credential verification against stored bcrypt hashes
// ABOUTME: Enumeration-safe: unknown users cost a dummy bcrypt comparison

package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/convene-hq/convene/internal/store"
)

// ErrInvalidCredentials is returned for any login failure. Unknown username
// and wrong password are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash keeps failed lookups and failed comparisons on the same timing
// path so usernames cannot be enumerated through response latency.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserStore is the persistence surface the auth package needs
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*store.User, error)
}

// HashPassword produces a bcrypt hash with a freshly generated salt embedded
// in the output, so verification needs no separate salt lookup.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Authenticate verifies a username/password pair and returns the matching
// identity. Every failure collapses to ErrInvalidCredentials.
func Authenticate(ctx context.Context, users UserStore, username, password string) (*Identity, error) {
	user, err := users.GetUserByUsername(ctx, username)
	if err != nil {
		// Dummy comparison to maintain constant timing
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return identityFromUser(user), nil
}

// identityFromUser strips the password hash off a user record. Nothing past
// the verification boundary sees the hash.
func identityFromUser(user *store.User) *Identity {
	return &Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}
