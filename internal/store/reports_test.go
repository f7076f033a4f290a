// ABOUTME: Tests for reporting queries, attachments, interests, and the chat context view

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventAttendanceReport(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	popular := newTestEvent(t, s, "Popular", "Amman", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC))
	niche := newTestEvent(t, s, "Niche", "Aqaba", time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC))
	newTestEvent(t, s, "Empty", "Irbid", time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC))

	a := newTestUser(t, s, "a", RoleAttendee)
	b := newTestUser(t, s, "b", RoleAttendee)
	require.NoError(t, s.Enroll(ctx, a.ID, popular.ID))
	require.NoError(t, s.Enroll(ctx, b.ID, popular.ID))
	require.NoError(t, s.Enroll(ctx, a.ID, niche.ID))

	report, err := s.EventAttendanceReport(ctx)
	require.NoError(t, err)
	// Events with no attendees are absent; ordered by start date
	require.Len(t, report, 2)
	assert.Equal(t, "Popular", report[0].Title)
	assert.Equal(t, int64(2), report[0].AttendeeCount)
	assert.Equal(t, "Niche", report[1].Title)
	assert.Equal(t, int64(1), report[1].AttendeeCount)
}

func TestMonthlySignupsReport(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	for i, ts := range []time.Time{jan, jan.AddDate(0, 0, 1), feb} {
		user := &User{
			Username:     string(rune('p' + i)),
			Email:        string(rune('p'+i)) + "@example.com",
			PasswordHash: "h",
			Role:         RoleAttendee,
			CreatedAt:    ts,
		}
		require.NoError(t, s.CreateUser(ctx, user))
	}

	report, err := s.MonthlySignupsReport(ctx)
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, "2026-01", report[0].Month)
	assert.Equal(t, int64(2), report[0].Signups)
	assert.Equal(t, "2026-02", report[1].Month)
	assert.Equal(t, int64(1), report[1].Signups)
}

func TestAttachments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	event := newTestEvent(t, s, "With Files", "Amman", time.Now().UTC())

	att := &Attachment{
		EventID:  event.ID,
		FileName: "agenda.pdf",
		MimeType: "application/pdf",
		FileSize: 5,
		Content:  []byte("%PDF-"),
	}
	require.NoError(t, s.CreateAttachment(ctx, att))
	assert.NotZero(t, att.ID)

	got, err := s.GetAttachment(ctx, att.ID)
	require.NoError(t, err)
	assert.Equal(t, "agenda.pdf", got.FileName)
	assert.Equal(t, []byte("%PDF-"), got.Content)

	list, err := s.ListAttachmentsByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Content) // metadata only
	assert.Equal(t, int64(5), list[0].FileSize)

	require.NoError(t, s.DeleteAttachment(ctx, att.ID))
	_, err = s.GetAttachment(ctx, att.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteAttachment(ctx, att.ID), ErrNotFound)
}

func TestDeleteAttachment_ClearsCover(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	event := newTestEvent(t, s, "Covered", "Amman", time.Now().UTC())
	att := &Attachment{EventID: event.ID, FileName: "c.png", MimeType: "image/png", FileSize: 1, Content: []byte{0}}
	require.NoError(t, s.CreateAttachment(ctx, att))
	require.NoError(t, s.SetEventCover(ctx, event.ID, att.ID))

	require.NoError(t, s.DeleteAttachment(ctx, att.ID))

	got, err := s.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CoverID)
}

func TestInterestLinks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateInterest(ctx, "databases")
	require.NoError(t, err)

	_, err = s.CreateInterest(ctx, "databases")
	assert.ErrorIs(t, err, ErrDuplicate)

	user := newTestUser(t, s, "linked", RoleAttendee)
	require.NoError(t, s.AddUserInterest(ctx, user.ID, id))
	// idempotent
	require.NoError(t, s.AddUserInterest(ctx, user.ID, id))

	ids, err := s.ListUserInterests(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids)

	// linking an unknown interest fails
	assert.ErrorIs(t, s.AddUserInterest(ctx, user.ID, 9999), ErrNotFound)

	require.NoError(t, s.RemoveUserInterest(ctx, user.ID, id))
	assert.ErrorIs(t, s.RemoveUserInterest(ctx, user.ID, id), ErrNotFound)

	updated, err := s.UpdateInterest(ctx, id, "data stores")
	require.NoError(t, err)
	assert.Equal(t, "data stores", updated.Name)

	require.NoError(t, s.DeleteInterest(ctx, id))
	assert.ErrorIs(t, s.DeleteInterest(ctx, id), ErrNotFound)
}

func TestFetchEventContext(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	event := newTestEvent(t, s, "Ctx Event", "Amman", time.Now().UTC())
	interestID, err := s.CreateInterest(ctx, "cloud")
	require.NoError(t, err)
	require.NoError(t, s.AddEventInterest(ctx, event.ID, interestID))

	attendee := newTestUser(t, s, "asker", RoleAttendee)
	speaker := newTestUser(t, s, "answerer", RoleSpeaker)
	q, err := s.CreateQuestion(ctx, event.ID, attendee.ID, "Parking?")
	require.NoError(t, err)
	_, err = s.CreateAnswer(ctx, q.ID, speaker.ID, "Free garage.")
	require.NoError(t, err)

	contexts, err := s.FetchEventContext(ctx)
	require.NoError(t, err)
	require.Len(t, contexts, 1)

	ec := contexts[0]
	assert.Equal(t, "Ctx Event", ec.Event.Title)
	assert.Equal(t, []string{"cloud"}, ec.Interests)
	require.Len(t, ec.Questions, 1)
	assert.Equal(t, "Parking?", ec.Questions[0].Question.Text)
	require.Len(t, ec.Questions[0].Answers, 1)
	assert.Equal(t, "Free garage.", ec.Questions[0].Answers[0].Text)
}
