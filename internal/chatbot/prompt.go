// ABOUTME: System prompt construction for the event assistant
// ABOUTME: Formats event data, interests, and Q&A into the instruction block

package chatbot

import (
	"fmt"
	"strings"
	"time"

	"github.com/convene-hq/convene/internal/store"
)

const systemTemplate = `***INSTRUCTIONS FOR AI: GENERATE NATURAL LANGUAGE RESPONSES BASED ON EVENTS INFORMATION***
As an advanced AI, you are tasked with responding to user queries about events in a natural, conversational manner. Use the provided event details to inform your responses, ensuring they are relevant and helpful based on the user's query.

If a user asks about tech events in Amman next month, you might respond with specifics about such events, suggesting dates, locations, and providing a brief overview of what to expect.

Today's date is: %s

Here are details about current events you can refer to:

%s

Remember, your responses should feel natural and provide value based on the user's interests and questions. Avoid technical descriptions or JSON-like structures.`

// BuildSystemPrompt renders the assistant instructions with today's date and
// the formatted event context.
func BuildSystemPrompt(events []*store.EventContext, today time.Time) string {
	return fmt.Sprintf(systemTemplate, today.Format("2006-01-02"), FormatEventData(events))
}

// FormatEventData renders events into the flat text block the assistant
// reads. Interests collapse to a comma list; each question carries its
// answers beneath it with timestamps.
func FormatEventData(events []*store.EventContext) string {
	blocks := make([]string, 0, len(events))

	for _, ec := range events {
		interests := "No specific interests listed"
		if len(ec.Interests) > 0 {
			interests = strings.Join(ec.Interests, ", ")
		}

		var qa strings.Builder
		if len(ec.Questions) == 0 {
			qa.WriteString("No questions have been asked for this event.")
		} else {
			for _, q := range ec.Questions {
				fmt.Fprintf(&qa, "Q: %s (Asked on: %s)\n",
					q.Question.Text, q.Question.AskedOn.Format("2006-01-02"))
				if len(q.Answers) == 0 {
					qa.WriteString("No answers yet.\n")
					continue
				}
				for _, a := range q.Answers {
					fmt.Fprintf(&qa, "A: %s (Answered on: %s)\n",
						a.Text, a.AnsweredOn.Format("2006-01-02"))
				}
			}
		}

		block := fmt.Sprintf(
			"Title: %s, Description: %s, Start Date: %s, End Date: %s, Location: %s, Interests: %s, Questions and Answers: \n%s",
			ec.Event.Title,
			ec.Event.Description,
			ec.Event.StartDate.Format("2006-01-02"),
			ec.Event.EndDate.Format("2006-01-02"),
			ec.Event.Location,
			interests,
			qa.String(),
		)
		blocks = append(blocks, block)
	}

	return strings.Join(blocks, "\n\n")
}
