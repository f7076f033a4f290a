// ABOUTME: Chat service wiring sessions, event context, and the LLM client
// ABOUTME: Send runs one conversational turn and records it in the session

package chatbot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/convene-hq/convene/internal/store"
)

// EventSource provides the event data the assistant answers from
type EventSource interface {
	FetchEventContext(ctx context.Context) ([]*store.EventContext, error)
}

// Service runs conversational turns against the language model, maintaining
// per-session transcripts in the Sessions registry.
type Service struct {
	sessions *Sessions
	events   EventSource
	client   Client
	logger   *slog.Logger
}

// NewService creates a chat service around an existing session registry.
func NewService(sessions *Sessions, events EventSource, client Client) *Service {
	return &Service{
		sessions: sessions,
		events:   events,
		client:   client,
		logger:   slog.Default().With("component", "chatbot"),
	}
}

// Sessions exposes the underlying registry for lifecycle management.
func (s *Service) Sessions() *Sessions {
	return s.sessions
}

// Send runs one turn: look up the session transcript, build the prompt from
// current event data, ask the model, and append the exchange to the session.
// The session only becomes durable here, on its first completed turn.
func (s *Service) Send(ctx context.Context, sessionID, input string) (string, error) {
	session := s.sessions.GetOrCreate(sessionID)

	events, err := s.events.FetchEventContext(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching event context: %w", err)
	}

	system := BuildSystemPrompt(events, time.Now())

	reply, err := s.client.Complete(ctx, system, session.Conversations, input)
	if err != nil {
		return "", fmt.Errorf("completing chat turn: %w", err)
	}

	s.sessions.Update(sessionID, input, reply)
	s.logger.Debug("chat turn completed", "session_id", sessionID, "turns", len(session.Conversations)/2+1)

	return reply, nil
}
