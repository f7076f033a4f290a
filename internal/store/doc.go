// Package store provides persistent storage for convene using SQLite.
//
// SQLiteStore implements the Store interface in a single struct. The schema
// is created automatically on open with WAL mode and foreign keys enabled.
//
// Data models:
//
//   - User: account with a role (administrator, speaker, attendee) and a
//     bcrypt password hash
//   - Event: conference event with dates, location, and optional cover image
//   - Interest: topic tag, linkable to users and events
//   - Question/Answer: per-event Q&A between attendees and speakers
//   - Attachment: event file stored as a BLOB
//
// Common errors:
//
//   - ErrNotFound: requested entity does not exist
//   - ErrDuplicate: insert violated a uniqueness constraint
//
// All methods accept context.Context for cancellation support. Use
// NewSQLiteStore(":memory:") for tests.
package store
