// Package chatbot provides the event assistant: an in-memory session
// registry with idle expiry, prompt construction from event data, and a
// chat-completions client.
package chatbot
