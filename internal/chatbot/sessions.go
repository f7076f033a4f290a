// ABOUTME: Thread-safe in-memory registry of chat sessions with idle expiry.
// ABOUTME: Sessions are inserted lazily on first update, never on read.

package chatbot

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultIdleTTL is how long a session survives without an update.
const DefaultIdleTTL = time.Hour

// Session is one conversation transcript. Conversations alternates
// human/assistant messages in order; Expiry is refreshed on every update.
type Session struct {
	Conversations []string
	Expiry        time.Time
}

// Sessions is a process-wide, mutex-guarded registry of chat sessions keyed
// by an opaque caller-supplied identifier. Construct one per process and pass
// it by handle; reads and structural mutations are mutually exclusive, but
// concurrent updates to the same session may interleave (chat is not
// required to be linearizable).
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idleTTL  time.Duration
}

// NewSessions creates a session registry with the given idle window.
// A non-positive idleTTL falls back to DefaultIdleTTL.
func NewSessions(idleTTL time.Duration) *Sessions {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Sessions{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
	}
}

// GetOrCreate returns a copy of the session's transcript, or a fresh empty
// one if the session is unknown. The fresh session is NOT inserted into the
// registry: a session only becomes durable on its first Update, so a fetch
// that is never followed by an update leaves no trace.
func (s *Sessions) GetOrCreate(sessionID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		conversations := make([]string, len(sess.Conversations))
		copy(conversations, sess.Conversations)
		return Session{Conversations: conversations, Expiry: sess.Expiry}
	}

	return Session{Expiry: time.Now().UTC()}
}

// Update appends a human/assistant turn pair, in that order, to the
// session's transcript, creating the session if it did not exist, and
// refreshes the idle expiry.
func (s *Sessions) Update(sessionID, humanMsg, assistantMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry := time.Now().UTC().Add(s.idleTTL)

	if sess, ok := s.sessions[sessionID]; ok {
		sess.Conversations = append(sess.Conversations, humanMsg, assistantMsg)
		sess.Expiry = expiry
		return
	}

	s.sessions[sessionID] = &Session{
		Conversations: []string{humanMsg, assistantMsg},
		Expiry:        expiry,
	}
}

// Sweep removes every session whose expiry is at or before now and returns
// how many were evicted. The registry never sweeps itself on access; the
// host process schedules this (see Run).
func (s *Sessions) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if !sess.Expiry.After(now) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Remove deletes a session unconditionally. Removing an absent session is
// not an error.
func (s *Sessions) Remove(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Run sweeps expired sessions at the given interval until ctx is cancelled.
// Intended to run in its own goroutine for the process lifetime.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	logger := slog.Default().With("component", "chatbot-sessions")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if evicted := s.Sweep(time.Now().UTC()); evicted > 0 {
				logger.Debug("swept expired chat sessions", "evicted", evicted)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Len reports the number of live sessions in the registry.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
