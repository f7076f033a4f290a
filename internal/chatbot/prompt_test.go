// ABOUTME: Tests for system prompt construction and event data formatting
// ABOUTME: Covers interest lists, Q&A rendering, and empty-state fallbacks

package chatbot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/convene-hq/convene/internal/store"
)

func testEventContext() *store.EventContext {
	return &store.EventContext{
		Event: store.Event{
			ID:          1,
			Title:       "Amman Tech Summit",
			Description: "Annual gathering of regional engineering teams",
			StartDate:   time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2026, 9, 12, 17, 0, 0, 0, time.UTC),
			Location:    "Amman",
		},
	}
}

func TestFormatEventData_FullEvent(t *testing.T) {
	ec := testEventContext()
	ec.Interests = []string{"Go", "Distributed Systems"}
	ec.Questions = []store.QuestionWithAnswers{
		{
			Question: store.Question{
				Text:    "Will talks be recorded?",
				AskedOn: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			},
			Answers: []store.Answer{
				{
					Text:       "Yes, all keynotes.",
					AnsweredOn: time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC),
				},
			},
		},
	}

	got := FormatEventData([]*store.EventContext{ec})

	assert.Contains(t, got, "Title: Amman Tech Summit")
	assert.Contains(t, got, "Start Date: 2026-09-10")
	assert.Contains(t, got, "End Date: 2026-09-12")
	assert.Contains(t, got, "Location: Amman")
	assert.Contains(t, got, "Interests: Go, Distributed Systems")
	assert.Contains(t, got, "Q: Will talks be recorded? (Asked on: 2026-08-01)")
	assert.Contains(t, got, "A: Yes, all keynotes. (Answered on: 2026-08-02)")
}

func TestFormatEventData_EmptyStates(t *testing.T) {
	got := FormatEventData([]*store.EventContext{testEventContext()})

	assert.Contains(t, got, "Interests: No specific interests listed")
	assert.Contains(t, got, "No questions have been asked for this event.")
}

func TestFormatEventData_UnansweredQuestion(t *testing.T) {
	ec := testEventContext()
	ec.Questions = []store.QuestionWithAnswers{
		{
			Question: store.Question{
				Text:    "Is there parking?",
				AskedOn: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
			},
		},
	}

	got := FormatEventData([]*store.EventContext{ec})

	assert.Contains(t, got, "Q: Is there parking? (Asked on: 2026-08-20)")
	assert.Contains(t, got, "No answers yet.")
}

func TestFormatEventData_MultipleEventsSeparated(t *testing.T) {
	first := testEventContext()
	second := testEventContext()
	second.Event.Title = "Design Week"

	got := FormatEventData([]*store.EventContext{first, second})

	assert.Contains(t, got, "Title: Amman Tech Summit")
	assert.Contains(t, got, "Title: Design Week")
	assert.Contains(t, got, "\n\n")
}

func TestFormatEventData_NoEvents(t *testing.T) {
	assert.Empty(t, FormatEventData(nil))
}

func TestBuildSystemPrompt(t *testing.T) {
	today := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)

	got := BuildSystemPrompt([]*store.EventContext{testEventContext()}, today)

	assert.Contains(t, got, "Today's date is: 2026-08-28")
	assert.Contains(t, got, "Title: Amman Tech Summit")
	assert.Contains(t, got, "INSTRUCTIONS FOR AI")
}
