// ABOUTME: Event persistence methods including filtered listing and enrollment
// ABOUTME: ListEvents computes the per-viewer recommended flag via interest joins

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateEvent inserts a new event and populates its ID.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *Event) error {
	query := `
		INSERT INTO events (title, description, start_date, end_date, location, created_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.StartDate.UTC().Format(time.RFC3339),
		event.EndDate.UTC().Format(time.RFC3339),
		event.Location,
		event.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("creating event: %w", err)
	}

	event.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading event id: %w", err)
	}

	s.logger.Debug("created event", "event_id", event.ID, "title", event.Title)
	return nil
}

// GetEvent retrieves an event by ID
func (s *SQLiteStore) GetEvent(ctx context.Context, id int64) (*Event, error) {
	query := `
		SELECT event_id, title, description, start_date, end_date, location, created_by, cover_attachment_id
		FROM events
		WHERE event_id = ?
	`

	event, err := scanEvent(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting event: %w", err)
	}
	return event, nil
}

// UpdateEvent applies the non-nil fields of upd and returns the updated event.
func (s *SQLiteStore) UpdateEvent(ctx context.Context, id int64, upd *EventUpdate) (*Event, error) {
	query := `
		UPDATE events
		SET title       = COALESCE(?, title),
		    description = COALESCE(?, description),
		    start_date  = COALESCE(?, start_date),
		    end_date    = COALESCE(?, end_date),
		    location    = COALESCE(?, location)
		WHERE event_id = ?
	`

	var start, end *string
	if upd.StartDate != nil {
		v := upd.StartDate.UTC().Format(time.RFC3339)
		start = &v
	}
	if upd.EndDate != nil {
		v := upd.EndDate.UTC().Format(time.RFC3339)
		end = &v
	}

	res, err := s.db.ExecContext(ctx, query, upd.Title, upd.Description, start, end, upd.Location, id)
	if err != nil {
		return nil, fmt.Errorf("updating event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetEvent(ctx, id)
}

// DeleteEvent removes an event and its dependent rows
func (s *SQLiteStore) DeleteEvent(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback()

	// Clear the cover reference before removing attachments
	if _, err := tx.ExecContext(ctx, "UPDATE events SET cover_attachment_id = NULL WHERE event_id = ?", id); err != nil {
		return fmt.Errorf("clearing cover: %w", err)
	}

	dependents := []string{
		"DELETE FROM answers WHERE question_id IN (SELECT question_id FROM questions WHERE event_id = ?)",
		"DELETE FROM questions WHERE event_id = ?",
		"DELETE FROM ratings WHERE event_id = ?",
		"DELETE FROM attendee_events WHERE event_id = ?",
		"DELETE FROM event_interests WHERE event_id = ?",
		"DELETE FROM attachments WHERE event_id = ?",
	}
	for _, q := range dependents {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("deleting event dependents: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM events WHERE event_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	s.logger.Debug("deleted event", "event_id", id)
	return nil
}

// ListEvents returns a page of events matching the filter plus the total page
// count. When filter.ViewerID is set, events sharing an interest with the
// viewer carry Recommended=true and sort first.
func (s *SQLiteStore) ListEvents(ctx context.Context, filter EventFilter) ([]*Event, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	recommendedExpr := "0 AS recommended"
	joins := "LEFT JOIN event_interests ei ON e.event_id = ei.event_id"
	args := []any{}

	if filter.ViewerID != 0 {
		recommendedExpr = "MAX(CASE WHEN ui.interest_id IS NOT NULL THEN 1 ELSE 0 END) AS recommended"
		joins += " LEFT JOIN user_interests ui ON ui.interest_id = ei.interest_id AND ui.user_id = ?"
		args = append(args, filter.ViewerID)
	}

	where := " WHERE 1=1"
	if filter.InterestID != 0 {
		where += " AND ei.interest_id = ?"
		args = append(args, filter.InterestID)
	}
	if filter.Title != "" {
		where += " AND e.title LIKE ? COLLATE NOCASE"
		args = append(args, "%"+filter.Title+"%")
	}
	if filter.Location != "" {
		where += " AND e.location LIKE ? COLLATE NOCASE"
		args = append(args, "%"+filter.Location+"%")
	}
	if filter.Date != "" {
		where += " AND date(e.start_date) = ?"
		args = append(args, filter.Date)
	}

	countQuery := "SELECT COUNT(DISTINCT e.event_id) FROM events e " + joins + where

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting events: %w", err)
	}

	// The interest join can produce several rows per event; GROUP BY
	// collapses them and MAX keeps the flag when any interest matches.
	query := `
		SELECT e.event_id, e.title, e.description, e.start_date, e.end_date,
		       e.location, e.created_by, e.cover_attachment_id, ` + recommendedExpr + `
		FROM events e ` + joins + where + `
		GROUP BY e.event_id
		ORDER BY recommended DESC, e.start_date
		LIMIT ? OFFSET ?
	`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var event Event
		var start, end string
		var recommended int
		if err := rows.Scan(&event.ID, &event.Title, &event.Description, &start, &end,
			&event.Location, &event.CreatedBy, &event.CoverID, &recommended); err != nil {
			return nil, 0, fmt.Errorf("scanning event: %w", err)
		}
		if err := parseEventDates(&event, start, end); err != nil {
			return nil, 0, err
		}
		event.Recommended = recommended == 1
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return events, totalPages, nil
}

// SetEventCover points an event's cover image at an existing attachment
func (s *SQLiteStore) SetEventCover(ctx context.Context, eventID, attachmentID int64) error {
	// The attachment must belong to the event
	var owner int64
	err := s.db.QueryRowContext(ctx,
		"SELECT event_id FROM attachments WHERE attachment_id = ?", attachmentID).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("checking attachment: %w", err)
	}
	if owner != eventID {
		return fmt.Errorf("attachment %d does not belong to event %d: %w", attachmentID, eventID, ErrNotFound)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE events SET cover_attachment_id = ? WHERE event_id = ?", attachmentID, eventID)
	if err != nil {
		return fmt.Errorf("setting cover: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking cover result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// eventExists returns ErrNotFound when no event has the given id. Insert
// paths use it so unknown events do not surface as raw FK violations.
func (s *SQLiteStore) eventExists(ctx context.Context, eventID int64) error {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM events WHERE event_id = ?", eventID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking event: %w", err)
	}
	return nil
}

// Enroll registers a user for an event
func (s *SQLiteStore) Enroll(ctx context.Context, userID, eventID int64) error {
	if err := s.eventExists(ctx, eventID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO attendee_events (user_id, event_id) VALUES (?, ?)", userID, eventID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("enrolling: %w", err)
	}
	s.logger.Debug("enrolled user", "user_id", userID, "event_id", eventID)
	return nil
}

// Unenroll removes a user's enrollment. Returns ErrNotFound when no
// enrollment existed.
func (s *SQLiteStore) Unenroll(ctx context.Context, userID, eventID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM attendee_events WHERE user_id = ? AND event_id = ?", userID, eventID)
	if err != nil {
		return fmt.Errorf("unenrolling: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking unenroll result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsEnrolled reports whether the user is enrolled in the event
func (s *SQLiteStore) IsEnrolled(ctx context.Context, userID, eventID int64) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM attendee_events WHERE user_id = ? AND event_id = ?)",
		userID, eventID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking enrollment: %w", err)
	}
	return exists == 1, nil
}

// ListEnrolledEvents returns the events a user is enrolled in, earliest first
func (s *SQLiteStore) ListEnrolledEvents(ctx context.Context, userID int64) ([]*Event, error) {
	query := `
		SELECT e.event_id, e.title, e.description, e.start_date, e.end_date, e.location,
		       e.created_by, e.cover_attachment_id
		FROM events e
		JOIN attendee_events ae ON e.event_id = ae.event_id
		WHERE ae.user_id = ?
		ORDER BY e.start_date
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing enrolled events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanEvent(row scanner) (*Event, error) {
	var event Event
	var start, end string

	if err := row.Scan(&event.ID, &event.Title, &event.Description, &start, &end,
		&event.Location, &event.CreatedBy, &event.CoverID); err != nil {
		return nil, err
	}

	if err := parseEventDates(&event, start, end); err != nil {
		return nil, err
	}
	return &event, nil
}

func parseEventDates(event *Event, start, end string) error {
	var err error
	event.StartDate, err = time.Parse(time.RFC3339, start)
	if err != nil {
		return fmt.Errorf("parsing start_date: %w", err)
	}
	event.EndDate, err = time.Parse(time.RFC3339, end)
	if err != nil {
		return fmt.Errorf("parsing end_date: %w", err)
	}
	return nil
}
