// Package api exposes the convene HTTP surface: authentication, users,
// events with enrollment and recommendations, interests, speakers, Q&A,
// ratings, attachments, administrator reports, and the chat assistant.
//
// Routes are registered on the stdlib mux with method-aware patterns and
// guarded by the auth package middleware. Error bodies are always
// {"error": message}.
package api
