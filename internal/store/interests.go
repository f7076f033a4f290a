// ABOUTME: Interest persistence plus the user/event interest link tables
// ABOUTME: Link operations are idempotent where the original semantics allow

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateInterest inserts a new interest and returns its ID
func (s *SQLiteStore) CreateInterest(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO interests (name) VALUES (?)", name)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("creating interest: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading interest id: %w", err)
	}
	return id, nil
}

// UpdateInterest renames an interest and returns the updated row
func (s *SQLiteStore) UpdateInterest(ctx context.Context, id int64, name string) (*Interest, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE interests SET name = ? WHERE interest_id = ?", name, id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("updating interest: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return &Interest{ID: id, Name: name}, nil
}

// DeleteInterest removes an interest and its user/event links
func (s *SQLiteStore) DeleteInterest(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_interests WHERE interest_id = ?", id); err != nil {
		return fmt.Errorf("deleting user links: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM event_interests WHERE interest_id = ?", id); err != nil {
		return fmt.Errorf("deleting event links: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM interests WHERE interest_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting interest: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// ListInterests returns all interests ordered by name
func (s *SQLiteStore) ListInterests(ctx context.Context) ([]*Interest, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT interest_id, name FROM interests ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing interests: %w", err)
	}
	defer rows.Close()

	var interests []*Interest
	for rows.Next() {
		var in Interest
		if err := rows.Scan(&in.ID, &in.Name); err != nil {
			return nil, fmt.Errorf("scanning interest: %w", err)
		}
		interests = append(interests, &in)
	}
	return interests, rows.Err()
}

// AddUserInterest links an interest to a user. Idempotent.
func (s *SQLiteStore) AddUserInterest(ctx context.Context, userID, interestID int64) error {
	if err := s.interestExists(ctx, interestID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO user_interests (user_id, interest_id) VALUES (?, ?)", userID, interestID)
	if err != nil {
		return fmt.Errorf("adding user interest: %w", err)
	}
	return nil
}

// RemoveUserInterest unlinks an interest from a user. Returns ErrNotFound
// when no link existed.
func (s *SQLiteStore) RemoveUserInterest(ctx context.Context, userID, interestID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM user_interests WHERE user_id = ? AND interest_id = ?", userID, interestID)
	if err != nil {
		return fmt.Errorf("removing user interest: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking remove result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUserInterests returns the interest IDs linked to a user
func (s *SQLiteStore) ListUserInterests(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT interest_id FROM user_interests WHERE user_id = ? ORDER BY interest_id", userID)
	if err != nil {
		return nil, fmt.Errorf("listing user interests: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning interest id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddEventInterest links an interest to an event. Idempotent.
func (s *SQLiteStore) AddEventInterest(ctx context.Context, eventID, interestID int64) error {
	if err := s.eventExists(ctx, eventID); err != nil {
		return err
	}
	if err := s.interestExists(ctx, interestID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO event_interests (event_id, interest_id) VALUES (?, ?)", eventID, interestID)
	if err != nil {
		return fmt.Errorf("adding event interest: %w", err)
	}
	return nil
}

// RemoveEventInterest unlinks an interest from an event
func (s *SQLiteStore) RemoveEventInterest(ctx context.Context, eventID, interestID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM event_interests WHERE event_id = ? AND interest_id = ?", eventID, interestID)
	if err != nil {
		return fmt.Errorf("removing event interest: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking remove result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListEventInterests returns the interests linked to an event
func (s *SQLiteStore) ListEventInterests(ctx context.Context, eventID int64) ([]*Interest, error) {
	query := `
		SELECT i.interest_id, i.name
		FROM interests i
		JOIN event_interests ei ON ei.interest_id = i.interest_id
		WHERE ei.event_id = ?
		ORDER BY i.name
	`

	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("listing event interests: %w", err)
	}
	defer rows.Close()

	var interests []*Interest
	for rows.Next() {
		var in Interest
		if err := rows.Scan(&in.ID, &in.Name); err != nil {
			return nil, fmt.Errorf("scanning interest: %w", err)
		}
		interests = append(interests, &in)
	}
	return interests, rows.Err()
}

func (s *SQLiteStore) interestExists(ctx context.Context, id int64) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM interests WHERE interest_id = ?", id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("checking interest: %w", err)
	}
	return nil
}
