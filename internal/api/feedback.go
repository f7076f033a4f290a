// ABOUTME: Question, answer, and rating handlers
// ABOUTME: Attendees ask and rate; speakers answer; reads are public or optionally authenticated

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/convene-hq/convene/internal/auth"
	"github.com/convene-hq/convene/internal/store"
)

// QuestionRequest is the JSON request body for POST /questions.
type QuestionRequest struct {
	EventID int64  `json:"event_id"`
	Text    string `json:"question"`
}

// AnswerRequest is the JSON request body for POST /answers.
type AnswerRequest struct {
	QuestionID int64  `json:"question_id"`
	Text       string `json:"answer"`
}

// QuestionResponse is the JSON shape for question records.
type QuestionResponse struct {
	ID      int64  `json:"question_id"`
	EventID int64  `json:"event_id"`
	AskedBy string `json:"asked_by,omitempty"`
	Text    string `json:"question"`
	AskedOn string `json:"asked_on"`
}

// AnswerResponse is the JSON shape for answer records.
type AnswerResponse struct {
	ID         int64  `json:"answer_id"`
	QuestionID int64  `json:"question_id"`
	AnsweredBy string `json:"answered_by,omitempty"`
	Text       string `json:"answer"`
	AnsweredOn string `json:"answered_on"`
}

// QAResponse pairs a question with its answers for GET /events/{id}/qa.
type QAResponse struct {
	Question QuestionResponse `json:"question"`
	Answers  []AnswerResponse `json:"answers"`
}

// RatingRequest is the JSON request body for PUT /events/{id}/rating.
type RatingRequest struct {
	Rating int `json:"rating"`
}

// RatingResponse is the JSON response for GET /events/{id}/rating. YourRating
// is present only for authenticated callers who have rated.
type RatingResponse struct {
	Average    float64 `json:"average"`
	Count      int64   `json:"count"`
	YourRating *int    `json:"your_rating,omitempty"`
}

func questionResponse(q *store.Question) QuestionResponse {
	return QuestionResponse{
		ID:      q.ID,
		EventID: q.EventID,
		AskedBy: q.AskedBy,
		Text:    q.Text,
		AskedOn: q.AskedOn.Format(time.RFC3339),
	}
}

func answerResponse(a *store.Answer) AnswerResponse {
	return AnswerResponse{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		AnsweredBy: a.AnsweredBy,
		Text:       a.Text,
		AnsweredOn: a.AnsweredOn.Format(time.RFC3339),
	}
}

// handleCreateQuestion handles POST /questions.
func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.EventID <= 0 || req.Text == "" {
		sendJSONError(w, http.StatusBadRequest, "event_id and question are required")
		return
	}

	identity := auth.MustFromContext(r.Context())
	question, err := s.store.CreateQuestion(r.Context(), req.EventID, identity.ID, req.Text)
	if err != nil {
		s.storeError(w, err, "event not found")
		return
	}

	writeJSON(w, http.StatusCreated, questionResponse(question))
}

// handleCreateAnswer handles POST /answers.
func (s *Server) handleCreateAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.QuestionID <= 0 || req.Text == "" {
		sendJSONError(w, http.StatusBadRequest, "question_id and answer are required")
		return
	}

	identity := auth.MustFromContext(r.Context())
	answer, err := s.store.CreateAnswer(r.Context(), req.QuestionID, identity.ID, req.Text)
	if err != nil {
		s.storeError(w, err, "question not found")
		return
	}

	writeJSON(w, http.StatusCreated, answerResponse(answer))
}

// handleListQuestions handles GET /events/{id}/questions.
func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	questions, err := s.store.ListQuestionsByEvent(r.Context(), id)
	if err != nil {
		s.logger.Error("listing questions", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, questionResponse(q))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleListAnswers handles GET /questions/{id}/answers.
func (s *Server) handleListAnswers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	answers, err := s.store.ListAnswersByQuestion(r.Context(), id)
	if err != nil {
		s.logger.Error("listing answers", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]AnswerResponse, 0, len(answers))
	for _, a := range answers {
		out = append(out, answerResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleListQA handles GET /events/{id}/qa.
func (s *Server) handleListQA(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	qas, err := s.store.ListQuestionsWithAnswers(r.Context(), id)
	if err != nil {
		s.logger.Error("listing q&a", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]QAResponse, 0, len(qas))
	for _, qa := range qas {
		answers := make([]AnswerResponse, 0, len(qa.Answers))
		for i := range qa.Answers {
			answers = append(answers, answerResponse(&qa.Answers[i]))
		}
		out = append(out, QAResponse{Question: questionResponse(&qa.Question), Answers: answers})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleRateEvent handles PUT /events/{id}/rating. A repeat rating replaces
// the previous one.
func (s *Server) handleRateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var req RatingRequest
	if err := decodeJSON(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		sendJSONError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	identity := auth.MustFromContext(r.Context())
	if err := s.store.UpsertRating(r.Context(), id, identity.ID, req.Rating); err != nil {
		s.storeError(w, err, "event not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "rated"})
}

// handleGetRating handles GET /events/{id}/rating. The summary is public;
// authenticated callers also get their own rating back when one exists.
func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	summary, err := s.store.GetRatingSummary(r.Context(), id)
	if err != nil {
		s.storeError(w, err, "event not found")
		return
	}

	out := RatingResponse{Average: summary.Average, Count: summary.Count}

	if identity := auth.FromContext(r.Context()); identity != nil {
		rating, err := s.store.GetUserRating(r.Context(), id, identity.ID)
		if err == nil {
			out.YourRating = &rating
		} else if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("fetching user rating", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, out)
}
