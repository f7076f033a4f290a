// ABOUTME: Speaker profile persistence methods for the SQLite store

package store

import (
	"context"
	"fmt"
)

// CreateSpeaker inserts a new speaker profile and returns its ID
func (s *SQLiteStore) CreateSpeaker(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO speakers (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("creating speaker: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading speaker id: %w", err)
	}
	return id, nil
}

// DeleteSpeaker removes a speaker profile
func (s *SQLiteStore) DeleteSpeaker(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM speakers WHERE speaker_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting speaker: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSpeakers returns all speaker profiles
func (s *SQLiteStore) ListSpeakers(ctx context.Context) ([]*Speaker, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT speaker_id, name FROM speakers ORDER BY speaker_id")
	if err != nil {
		return nil, fmt.Errorf("listing speakers: %w", err)
	}
	defer rows.Close()

	var speakers []*Speaker
	for rows.Next() {
		var sp Speaker
		if err := rows.Scan(&sp.ID, &sp.Name); err != nil {
			return nil, fmt.Errorf("scanning speaker: %w", err)
		}
		speakers = append(speakers, &sp)
	}
	return speakers, rows.Err()
}
