// ABOUTME: Q&A and rating persistence for events
// ABOUTME: Questions come from attendees, answers from speakers, ratings upsert per user

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateQuestion records an attendee question about an event. Returns
// ErrNotFound when the event does not exist.
func (s *SQLiteStore) CreateQuestion(ctx context.Context, eventID, userID int64, text string) (*Question, error) {
	if err := s.eventExists(ctx, eventID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO questions (event_id, user_id, question_text, asked_on) VALUES (?, ?, ?, ?)",
		eventID, userID, text, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("creating question: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading question id: %w", err)
	}

	return &Question{ID: id, EventID: eventID, UserID: userID, Text: text, AskedOn: now}, nil
}

// CreateAnswer records a speaker answer to a question
func (s *SQLiteStore) CreateAnswer(ctx context.Context, questionID, userID int64, text string) (*Answer, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM questions WHERE question_id = ?", questionID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("checking question: %w", err)
	}

	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO answers (question_id, user_id, answer_text, answered_on) VALUES (?, ?, ?, ?)",
		questionID, userID, text, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("creating answer: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading answer id: %w", err)
	}

	return &Answer{ID: id, QuestionID: questionID, UserID: userID, Text: text, AnsweredOn: now}, nil
}

// ListQuestionsByEvent returns an event's questions with the asker's username
func (s *SQLiteStore) ListQuestionsByEvent(ctx context.Context, eventID int64) ([]*Question, error) {
	query := `
		SELECT q.question_id, q.event_id, q.user_id, u.username, q.question_text, q.asked_on
		FROM questions q
		JOIN users u ON q.user_id = u.user_id
		WHERE q.event_id = ?
		ORDER BY q.question_id
	`

	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	defer rows.Close()

	var questions []*Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListAnswersByQuestion returns a question's answers with the answerer's username
func (s *SQLiteStore) ListAnswersByQuestion(ctx context.Context, questionID int64) ([]*Answer, error) {
	query := `
		SELECT a.answer_id, a.question_id, a.user_id, u.username, a.answer_text, a.answered_on
		FROM answers a
		JOIN users u ON a.user_id = u.user_id
		WHERE a.question_id = ?
		ORDER BY a.answered_on, a.answer_id
	`

	rows, err := s.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("listing answers: %w", err)
	}
	defer rows.Close()

	var answers []*Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// ListQuestionsWithAnswers returns the joined Q&A view for an event
func (s *SQLiteStore) ListQuestionsWithAnswers(ctx context.Context, eventID int64) ([]*QuestionWithAnswers, error) {
	questions, err := s.ListQuestionsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	result := make([]*QuestionWithAnswers, 0, len(questions))
	for _, q := range questions {
		answers, err := s.ListAnswersByQuestion(ctx, q.ID)
		if err != nil {
			return nil, err
		}
		qa := &QuestionWithAnswers{Question: *q, Answers: make([]Answer, len(answers))}
		for i, a := range answers {
			qa.Answers[i] = *a
		}
		result = append(result, qa)
	}
	return result, nil
}

// UpsertRating records or replaces a user's rating for an event
func (s *SQLiteStore) UpsertRating(ctx context.Context, eventID, userID int64, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}
	if err := s.eventExists(ctx, eventID); err != nil {
		return err
	}

	query := `
		INSERT INTO ratings (event_id, user_id, rating)
		VALUES (?, ?, ?)
		ON CONFLICT (event_id, user_id) DO UPDATE SET rating = excluded.rating
	`
	if _, err := s.db.ExecContext(ctx, query, eventID, userID, rating); err != nil {
		return fmt.Errorf("upserting rating: %w", err)
	}
	return nil
}

// GetRatingSummary returns the average rating and rating count for an event.
// An unrated event yields a zero-valued summary, not an error.
func (s *SQLiteStore) GetRatingSummary(ctx context.Context, eventID int64) (*RatingSummary, error) {
	var summary RatingSummary
	var avg sql.NullFloat64

	err := s.db.QueryRowContext(ctx,
		"SELECT AVG(rating), COUNT(*) FROM ratings WHERE event_id = ?", eventID).
		Scan(&avg, &summary.Count)
	if err != nil {
		return nil, fmt.Errorf("getting rating summary: %w", err)
	}

	if avg.Valid {
		summary.Average = avg.Float64
	}
	return &summary, nil
}

// GetUserRating returns the rating a user gave an event, or ErrNotFound
func (s *SQLiteStore) GetUserRating(ctx context.Context, eventID, userID int64) (int, error) {
	var rating int
	err := s.db.QueryRowContext(ctx,
		"SELECT rating FROM ratings WHERE event_id = ? AND user_id = ?", eventID, userID).
		Scan(&rating)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("getting user rating: %w", err)
	}
	return rating, nil
}

func scanQuestion(row scanner) (*Question, error) {
	var q Question
	var askedOn string
	if err := row.Scan(&q.ID, &q.EventID, &q.UserID, &q.AskedBy, &q.Text, &askedOn); err != nil {
		return nil, fmt.Errorf("scanning question: %w", err)
	}

	var err error
	q.AskedOn, err = time.Parse(time.RFC3339, askedOn)
	if err != nil {
		return nil, fmt.Errorf("parsing asked_on: %w", err)
	}
	return &q, nil
}

func scanAnswer(row scanner) (*Answer, error) {
	var a Answer
	var answeredOn string
	if err := row.Scan(&a.ID, &a.QuestionID, &a.UserID, &a.AnsweredBy, &a.Text, &answeredOn); err != nil {
		return nil, fmt.Errorf("scanning answer: %w", err)
	}

	var err error
	a.AnsweredOn, err = time.Parse(time.RFC3339, answeredOn)
	if err != nil {
		return nil, fmt.Errorf("parsing answered_on: %w", err)
	}
	return &a, nil
}
