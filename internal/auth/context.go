// ABOUTME: Authenticated identity type and context propagation helpers
// ABOUTME: Provides WithIdentity/FromContext for passing identity to handlers

package auth

import (
	"context"

	"github.com/convene-hq/convene/internal/store"
)

// Identity is the caller principal resolved from a verified token. It never
// carries the password hash.
type Identity struct {
	ID       int64
	Username string
	Email    string
	Role     store.Role
}

// HasRole reports whether the identity's role is in the allowed set.
func (i *Identity) HasRole(allowed ...store.Role) bool {
	for _, r := range allowed {
		if i.Role == r {
			return true
		}
	}
	return false
}

// identityKey is the key type for storing Identity in context.Context.
type identityKey struct{}

// WithIdentity returns a new context with the Identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext retrieves the Identity from the context, returning nil if not present.
func FromContext(ctx context.Context) *Identity {
	val := ctx.Value(identityKey{})
	if val == nil {
		return nil
	}
	id, ok := val.(*Identity)
	if !ok {
		return nil
	}
	return id
}

// MustFromContext retrieves the Identity from the context, panicking if not present.
func MustFromContext(ctx context.Context) *Identity {
	id := FromContext(ctx)
	if id == nil {
		panic("auth: Identity not found in context")
	}
	return id
}
