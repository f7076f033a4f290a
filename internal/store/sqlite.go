// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides user/event/interest persistence with automatic schema creation

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			user_id       INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			created_at    TEXT NOT NULL,

			CHECK (role IN ('administrator', 'speaker', 'attendee'))
		);

		CREATE TABLE IF NOT EXISTS events (
			event_id            INTEGER PRIMARY KEY AUTOINCREMENT,
			title               TEXT NOT NULL,
			description         TEXT NOT NULL DEFAULT '',
			start_date          TEXT NOT NULL,
			end_date            TEXT NOT NULL,
			location            TEXT NOT NULL DEFAULT '',
			created_by          INTEGER REFERENCES users(user_id),
			cover_attachment_id INTEGER REFERENCES attachments(attachment_id)
		);

		CREATE INDEX IF NOT EXISTS idx_events_start_date ON events(start_date);

		CREATE TABLE IF NOT EXISTS interests (
			interest_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS user_interests (
			user_id     INTEGER NOT NULL REFERENCES users(user_id),
			interest_id INTEGER NOT NULL REFERENCES interests(interest_id),
			PRIMARY KEY (user_id, interest_id)
		);

		CREATE TABLE IF NOT EXISTS event_interests (
			event_id    INTEGER NOT NULL REFERENCES events(event_id),
			interest_id INTEGER NOT NULL REFERENCES interests(interest_id),
			PRIMARY KEY (event_id, interest_id)
		);

		CREATE TABLE IF NOT EXISTS attendee_events (
			user_id  INTEGER NOT NULL REFERENCES users(user_id),
			event_id INTEGER NOT NULL REFERENCES events(event_id),
			PRIMARY KEY (user_id, event_id)
		);

		CREATE TABLE IF NOT EXISTS speakers (
			speaker_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS questions (
			question_id   INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id      INTEGER NOT NULL REFERENCES events(event_id),
			user_id       INTEGER NOT NULL REFERENCES users(user_id),
			question_text TEXT NOT NULL,
			asked_on      TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_questions_event ON questions(event_id);

		CREATE TABLE IF NOT EXISTS answers (
			answer_id   INTEGER PRIMARY KEY AUTOINCREMENT,
			question_id INTEGER NOT NULL REFERENCES questions(question_id),
			user_id     INTEGER NOT NULL REFERENCES users(user_id),
			answer_text TEXT NOT NULL,
			answered_on TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_answers_question ON answers(question_id);

		CREATE TABLE IF NOT EXISTS ratings (
			event_id INTEGER NOT NULL REFERENCES events(event_id),
			user_id  INTEGER NOT NULL REFERENCES users(user_id),
			rating   INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			PRIMARY KEY (event_id, user_id)
		);

		CREATE TABLE IF NOT EXISTS attachments (
			attachment_id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id      INTEGER NOT NULL REFERENCES events(event_id),
			file_name     TEXT NOT NULL,
			mime_type     TEXT NOT NULL,
			file_size     INTEGER NOT NULL,
			content       BLOB NOT NULL,
			uploaded_on   TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_attachments_event ON attachments(event_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite uniqueness constraint error
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Close closes the underlying database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
