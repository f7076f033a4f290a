// ABOUTME: Tests for event CRUD, listing, enrollment, cover, and response caching
// ABOUTME: Caching behavior is observed through an instrumented in-memory cache

package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convene-hq/convene/internal/store"
)

func TestCreateEvent(t *testing.T) {
	env := newTestEnv(t)
	admin, adminToken := env.seedUser(t, "admin", store.RoleAdministrator)

	rec := env.do(t, http.MethodPost, "/events", adminToken, EventRequest{
		Title:       "GopherCon MENA",
		Description: "Regional Go conference",
		StartDate:   "2026-10-01",
		EndDate:     "2026-10-03",
		Location:    "Amman",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeBody[EventResponse](t, rec)
	assert.Equal(t, "GopherCon MENA", resp.Title)
	assert.Equal(t, "2026-10-01", resp.StartDate)
	require.NotNil(t, resp.CreatedBy)
	assert.Equal(t, admin.ID, *resp.CreatedBy)
}

func TestCreateEvent_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin", store.RoleAdministrator)

	tests := []struct {
		name string
		req  EventRequest
	}{
		{"missing title", EventRequest{StartDate: "2026-10-01", EndDate: "2026-10-02"}},
		{"bad start date", EventRequest{Title: "x", StartDate: "soon", EndDate: "2026-10-02"}},
		{"bad end date", EventRequest{Title: "x", StartDate: "2026-10-01", EndDate: "later"}},
		{"end before start", EventRequest{Title: "x", StartDate: "2026-10-02", EndDate: "2026-10-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/events", adminToken, tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetEvent(t *testing.T) {
	env := newTestEnv(t)
	event := env.seedEvent(t, "Solo Event")

	rec := env.do(t, http.MethodGet, "/events/"+itoa(event.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Solo Event", decodeBody[EventResponse](t, rec).Title)

	rec = env.do(t, http.MethodGet, "/events/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/events/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEvent_Caching(t *testing.T) {
	env := newTestEnv(t)
	mc := newMemCache()
	env.server.cache = mc

	event := env.seedEvent(t, "Popular Event")
	path := "/events/" + itoa(event.ID)

	first := env.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, 1, mc.sets)
	assert.Equal(t, 0, mc.hits)

	second := env.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 1, mc.hits)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestUpdateEvent_InvalidatesCache(t *testing.T) {
	env := newTestEnv(t)
	mc := newMemCache()
	env.server.cache = mc

	_, adminToken := env.seedUser(t, "admin", store.RoleAdministrator)
	event := env.seedEvent(t, "Before")
	path := "/events/" + itoa(event.ID)

	// Prime the cache
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, path, "", nil).Code)

	rec := env.do(t, http.MethodPut, path, adminToken, EventRequest{Title: "After"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Next read misses the cache and sees the new title
	fresh := env.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, fresh.Code)
	assert.Equal(t, "After", decodeBody[EventResponse](t, fresh).Title)
}

func TestUpdateEvent_PartialFields(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin", store.RoleAdministrator)
	event := env.seedEvent(t, "Original")

	rec := env.do(t, http.MethodPut, "/events/"+itoa(event.ID), adminToken, EventRequest{
		Location: "Aqaba",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[EventResponse](t, rec)
	assert.Equal(t, "Original", resp.Title)
	assert.Equal(t, "Aqaba", resp.Location)
}

func TestDeleteEvent(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin", store.RoleAdministrator)
	event := env.seedEvent(t, "Doomed")

	rec := env.do(t, http.MethodDelete, "/events/"+itoa(event.ID), adminToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/events/"+itoa(event.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/events/"+itoa(event.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEvents_FiltersAndPagination(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "Go Workshop")
	env.seedEvent(t, "Rust Workshop")
	env.seedEvent(t, "Go Conference")

	rec := env.do(t, http.MethodGet, "/events?title=go", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[EventListResponse](t, rec)
	assert.Len(t, resp.Events, 2)

	rec = env.do(t, http.MethodGet, "/events?page=1&page_size=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeBody[EventListResponse](t, rec)
	assert.Len(t, resp.Events, 2)
	assert.Equal(t, 2, resp.TotalPages)

	rec = env.do(t, http.MethodGet, "/events?page=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/events?interest_id=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEvents_RecommendedForViewer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, attendeeToken := env.seedUser(t, "fan", store.RoleAttendee)
	attendee, err := env.store.GetUserByUsername(ctx, "fan")
	require.NoError(t, err)

	matching := env.seedEvent(t, "Matching Event")
	env.seedEvent(t, "Other Event")

	interestID, err := env.store.CreateInterest(ctx, "golang")
	require.NoError(t, err)
	require.NoError(t, env.store.AddEventInterest(ctx, matching.ID, interestID))
	require.NoError(t, env.store.AddUserInterest(ctx, attendee.ID, interestID))

	rec := env.do(t, http.MethodGet, "/events", attendeeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[EventListResponse](t, rec)
	require.Len(t, resp.Events, 2)

	// Recommended events sort first
	assert.Equal(t, "Matching Event", resp.Events[0].Title)
	assert.True(t, resp.Events[0].Recommended)
	assert.False(t, resp.Events[1].Recommended)

	// Anonymous callers never see recommendations
	anon := env.do(t, http.MethodGet, "/events", "", nil)
	require.Equal(t, http.StatusOK, anon.Code)
	for _, e := range decodeBody[EventListResponse](t, anon).Events {
		assert.False(t, e.Recommended)
	}
}

func TestEnrollment(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "fan", store.RoleAttendee)
	event := env.seedEvent(t, "Enrollable")
	path := "/events/" + itoa(event.ID) + "/enroll"

	rec := env.do(t, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Double enrollment conflicts
	rec = env.do(t, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The event appears under /events/enrolled
	list := env.do(t, http.MethodGet, "/events/enrolled", token, nil)
	require.Equal(t, http.StatusOK, list.Code)
	events := decodeBody[[]EventResponse](t, list)
	require.Len(t, events, 1)
	assert.Equal(t, "Enrollable", events[0].Title)

	rec = env.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEnroll_UnknownEvent(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "fan", store.RoleAttendee)

	rec := env.do(t, http.MethodPost, "/events/9999/enroll", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestSetCover(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, adminToken := env.seedUser(t, "admin", store.RoleAdministrator)
	event := env.seedEvent(t, "Covered")
	other := env.seedEvent(t, "Other")

	attachment := &store.Attachment{
		EventID:  event.ID,
		FileName: "cover.png",
		MimeType: "image/png",
		FileSize: 3,
		Content:  []byte{1, 2, 3},
	}
	require.NoError(t, env.store.CreateAttachment(ctx, attachment))

	rec := env.do(t, http.MethodPut, "/events/"+itoa(event.ID)+"/cover", adminToken,
		SetCoverRequest{AttachmentID: attachment.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := env.do(t, http.MethodGet, "/events/"+itoa(event.ID), "", nil)
	resp := decodeBody[EventResponse](t, got)
	require.NotNil(t, resp.CoverID)
	assert.Equal(t, attachment.ID, *resp.CoverID)

	// An attachment belonging to another event is rejected
	rec = env.do(t, http.MethodPut, "/events/"+itoa(other.ID)+"/cover", adminToken,
		SetCoverRequest{AttachmentID: attachment.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin", store.RoleAdministrator)

	expired, err := env.tokens.Issue("admin", -time.Minute)
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/users/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "could not validate credentials",
		decodeBody[map[string]string](t, rec)["error"])
}
