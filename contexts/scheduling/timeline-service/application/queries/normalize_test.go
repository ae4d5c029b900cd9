package queries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier/contexts/scheduling/timeline-service/domain/entities"
)

func TestNormalizeScheduledEvent(t *testing.T) {
	start := time.Date(2026, time.September, 14, 9, 30, 0, 0, time.Local)
	end := start.Add(time.Hour)

	events := Normalize(SourceRecords{ScheduledEvents: []entities.ScheduledEvent{{
		EventID:        "evt-1",
		Title:          "Design review",
		EventType:      "Meeting",
		Status:         "PENDING",
		OccursOn:       start,
		StartsAt:       &start,
		EndsAt:         &end,
		OwnerPrincipal: "owner-1",
	}}})

	require.Len(t, events, 1)
	event := events[0]
	assert.Equal(t, "evt-1", event.ID)
	assert.Equal(t, entities.SourceScheduledEvent, event.SourceKind)
	assert.Equal(t, entities.CategoryMeeting, event.Category)
	assert.Equal(t, entities.StatusPending, event.LifecycleStatus)
	assert.Equal(t, time.Date(2026, time.September, 14, 0, 0, 0, 0, time.Local), event.OccursOn)
	assert.Equal(t, &start, event.StartsAt)
}

func TestNormalizeScheduledEventDefaults(t *testing.T) {
	events := Normalize(SourceRecords{ScheduledEvents: []entities.ScheduledEvent{{
		EventID:   "evt-2",
		Title:     "Untyped entry",
		EventType: "offsite",
		OccursOn:  time.Date(2026, time.September, 14, 0, 0, 0, 0, time.Local),
	}}})

	require.Len(t, events, 1)
	assert.Equal(t, entities.CategoryOther, events[0].Category)
	assert.Equal(t, entities.StatusApproved, events[0].LifecycleStatus)
}

func TestNormalizeTaskRequiresDueDate(t *testing.T) {
	due := time.Date(2026, time.September, 20, 0, 0, 0, 0, time.Local)
	events := Normalize(SourceRecords{Tasks: []entities.TaskRecord{
		{TaskID: "t-1", Title: "With due date", DueOn: &due},
		{TaskID: "t-2", Title: "Backlog item"},
	}})

	require.Len(t, events, 1)
	assert.Equal(t, "task-t-1", events[0].ID)
	assert.Equal(t, "t-1", events[0].SourceID)
	assert.Equal(t, entities.CategoryTask, events[0].Category)
	assert.Nil(t, events[0].StartsAt)
}

func TestNormalizeJournalFallsBackToCreationDate(t *testing.T) {
	entryDate := time.Date(2026, time.September, 12, 0, 0, 0, 0, time.Local)
	createdAt := time.Date(2026, time.September, 13, 18, 45, 0, 0, time.Local)

	events := Normalize(SourceRecords{JournalEntries: []entities.JournalEntry{
		{EntryID: "j-1", Title: "Dated entry", EntryDate: &entryDate, CreatedAt: createdAt},
		{EntryID: "j-2", Title: "Undated entry", CreatedAt: createdAt},
	}})

	require.Len(t, events, 2)
	assert.Equal(t, entryDate, events[0].OccursOn)
	assert.Equal(t, time.Date(2026, time.September, 13, 0, 0, 0, 0, time.Local), events[1].OccursOn)
	assert.Equal(t, "journal-j-2", events[1].ID)
}

func TestNormalizeBookingRequiresSelectedSlot(t *testing.T) {
	events := Normalize(SourceRecords{MeetingBookings: []entities.BookingProjection{
		{
			BookingID:     "b-1",
			Title:         "Vendor sync",
			Status:        "pending_approval",
			SelectedDate:  "2026-09-14",
			SelectedStart: "13:00",
			SelectedEnd:   "14:00",
		},
		{BookingID: "b-2", Title: "Awaiting selection", Status: "pending_selection"},
		{BookingID: "b-3", Title: "Garbled slot", Status: "approved", SelectedDate: "14/09/2026", SelectedStart: "13:00"},
	}})

	require.Len(t, events, 1)
	event := events[0]
	assert.Equal(t, "booking-b-1", event.ID)
	assert.Equal(t, entities.CategoryMeeting, event.Category)
	assert.Equal(t, entities.LifecycleStatus("pending_approval"), event.LifecycleStatus)
	require.NotNil(t, event.StartsAt)
	assert.Equal(t, 13, event.StartsAt.Hour())
	require.NotNil(t, event.EndsAt)
	assert.Equal(t, 14, event.EndsAt.Hour())
}
