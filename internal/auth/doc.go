// Package auth provides authentication and authorization for convene.
//
// # Authentication
//
// Users authenticate with username/password at the login endpoint; every
// other protected endpoint takes an HS256 JWT bearer token signed with the
// configured secret. The token carries the username in the "sub" claim and
// an absolute expiry; expiry is the only invalidation mechanism.
//
// # Authorization
//
// Identities carry one of three roles: administrator, speaker, attendee.
// Handlers compose middleware:
//
//	RequireAuth(users, tokens)                         // 401 on any failure
//	OptionalAuth(users, tokens)                        // anonymous passthrough
//	RequireRoles(store.RoleAdministrator, store.RoleSpeaker)
//
// RequireRoles checks set membership. Authentication failures (401) never
// reveal whether the token was bad or the user unknown; authorization
// failures (403) are reported distinctly since the caller is known.
package auth
