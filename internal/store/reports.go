// ABOUTME: Aggregate reporting queries for administrators
// ABOUTME: Event attendance counts and monthly signup totals

package store

import (
	"context"
	"fmt"
)

// EventAttendanceReport returns per-event attendee counts, ordered by the
// earliest start date of each title.
func (s *SQLiteStore) EventAttendanceReport(ctx context.Context) ([]*EventAttendance, error) {
	query := `
		SELECT e.title, COUNT(ae.event_id) AS attendee_count
		FROM events e
		JOIN attendee_events ae ON e.event_id = ae.event_id
		GROUP BY e.title
		ORDER BY MIN(e.start_date)
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying attendance report: %w", err)
	}
	defer rows.Close()

	var report []*EventAttendance
	for rows.Next() {
		var row EventAttendance
		if err := rows.Scan(&row.Title, &row.AttendeeCount); err != nil {
			return nil, fmt.Errorf("scanning attendance row: %w", err)
		}
		report = append(report, &row)
	}
	return report, rows.Err()
}

// MonthlySignupsReport returns user signup counts grouped by calendar month
func (s *SQLiteStore) MonthlySignupsReport(ctx context.Context) ([]*MonthlySignups, error) {
	query := `
		SELECT strftime('%Y-%m', created_at) AS month, COUNT(*) AS signups
		FROM users
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying signups report: %w", err)
	}
	defer rows.Close()

	var report []*MonthlySignups
	for rows.Next() {
		var row MonthlySignups
		if err := rows.Scan(&row.Month, &row.Signups); err != nil {
			return nil, fmt.Errorf("scanning signups row: %w", err)
		}
		report = append(report, &row)
	}
	return report, rows.Err()
}

// FetchEventContext returns every event with its interests and Q&A, the
// denormalized view the chat assistant's system prompt is built from.
func (s *SQLiteStore) FetchEventContext(ctx context.Context) ([]*EventContext, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, title, description, start_date, end_date, location, created_by, cover_attachment_id
		FROM events
		ORDER BY start_date
	`)
	if err != nil {
		return nil, fmt.Errorf("listing events for context: %w", err)
	}
	defer rows.Close()

	var contexts []*EventContext
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		contexts = append(contexts, &EventContext{Event: *event})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, ec := range contexts {
		interests, err := s.ListEventInterests(ctx, ec.Event.ID)
		if err != nil {
			return nil, err
		}
		for _, in := range interests {
			ec.Interests = append(ec.Interests, in.Name)
		}

		qas, err := s.ListQuestionsWithAnswers(ctx, ec.Event.ID)
		if err != nil {
			return nil, err
		}
		for _, qa := range qas {
			ec.Questions = append(ec.Questions, *qa)
		}
	}

	return contexts, nil
}
