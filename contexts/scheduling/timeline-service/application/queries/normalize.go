package queries

import (
	"strings"
	"time"

	"atelier/contexts/scheduling/timeline-service/domain/entities"
)

// FallbackDisplayHour is where sourceless-time events land on the day grid.
// It doubles as their sort position so they interleave mid-morning instead of
// pinning to the top or bottom of a day.
const FallbackDisplayHour = 10

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// SourceRecords carries one snapshot of the four heterogeneous source
// collections, already tenant-scoped by the caller.
type SourceRecords struct {
	ScheduledEvents []entities.ScheduledEvent
	Tasks           []entities.TaskRecord
	JournalEntries  []entities.JournalEntry
	MeetingBookings []entities.BookingProjection
}

// Normalize converts the heterogeneous source records into canonical timeline
// events. It is a pure function: no network, no storage, deterministic output
// up to ordering. Every output traces back to exactly one input; the only
// records dropped are tasks without a due date and bookings without a selected
// slot.
func Normalize(sources SourceRecords) []entities.TimelineEvent {
	events := make([]entities.TimelineEvent, 0,
		len(sources.ScheduledEvents)+len(sources.Tasks)+len(sources.JournalEntries)+len(sources.MeetingBookings))

	for _, record := range sources.ScheduledEvents {
		events = append(events, normalizeScheduledEvent(record))
	}
	for _, record := range sources.Tasks {
		if event, ok := normalizeTask(record); ok {
			events = append(events, event)
		}
	}
	for _, record := range sources.JournalEntries {
		events = append(events, normalizeJournalEntry(record))
	}
	for _, record := range sources.MeetingBookings {
		if event, ok := normalizeBooking(record); ok {
			events = append(events, event)
		}
	}
	return events
}

func normalizeScheduledEvent(record entities.ScheduledEvent) entities.TimelineEvent {
	return entities.TimelineEvent{
		ID:              record.EventID,
		SourceKind:      entities.SourceScheduledEvent,
		SourceID:        record.EventID,
		Title:           record.Title,
		Description:     record.Description,
		OccursOn:        dateOf(record.OccursOn),
		StartsAt:        record.StartsAt,
		EndsAt:          record.EndsAt,
		Category:        categoryFromEventType(record.EventType),
		LifecycleStatus: statusOrApproved(record.Status),
		OwnerPrincipal:  record.OwnerPrincipal,
	}
}

// Tasks surface on the timeline only once they carry a due date. The id is a
// stable composite so a task and a scheduled event sharing a raw id never
// collide within one query.
func normalizeTask(record entities.TaskRecord) (entities.TimelineEvent, bool) {
	if record.DueOn == nil {
		return entities.TimelineEvent{}, false
	}
	return entities.TimelineEvent{
		ID:              "task-" + record.TaskID,
		SourceKind:      entities.SourceTask,
		SourceID:        record.TaskID,
		Title:           record.Title,
		Description:     record.Description,
		OccursOn:        dateOf(*record.DueOn),
		Category:        entities.CategoryTask,
		LifecycleStatus: entities.StatusApproved,
		OwnerPrincipal:  record.OwnerPrincipal,
	}, true
}

func normalizeJournalEntry(record entities.JournalEntry) entities.TimelineEvent {
	occursOn := record.CreatedAt
	if record.EntryDate != nil {
		occursOn = *record.EntryDate
	}
	return entities.TimelineEvent{
		ID:              "journal-" + record.EntryID,
		SourceKind:      entities.SourceJournalEntry,
		SourceID:        record.EntryID,
		Title:           record.Title,
		Description:     record.Body,
		OccursOn:        dateOf(occursOn),
		Category:        entities.CategoryJournal,
		LifecycleStatus: entities.StatusApproved,
		OwnerPrincipal:  record.OwnerPrincipal,
	}
}

// An unconfirmed proposal is not a timeline event: bookings map only once a
// slot has been selected. Start/end instants are synthesized from the selected
// slot's wire fields, and the booking status passes through unchanged so
// pending_approval renders distinctly.
func normalizeBooking(record entities.BookingProjection) (entities.TimelineEvent, bool) {
	if strings.TrimSpace(record.SelectedDate) == "" || strings.TrimSpace(record.SelectedStart) == "" {
		return entities.TimelineEvent{}, false
	}
	day, err := time.ParseInLocation(dateLayout, record.SelectedDate, time.Local)
	if err != nil {
		return entities.TimelineEvent{}, false
	}
	startsAt, ok := combine(day, record.SelectedStart)
	if !ok {
		return entities.TimelineEvent{}, false
	}
	event := entities.TimelineEvent{
		ID:              "booking-" + record.BookingID,
		SourceKind:      entities.SourceMeetingBooking,
		SourceID:        record.BookingID,
		Title:           record.Title,
		OccursOn:        day,
		StartsAt:        &startsAt,
		Category:        entities.CategoryMeeting,
		LifecycleStatus: entities.LifecycleStatus(record.Status),
		OwnerPrincipal:  record.OwnerPrincipal,
	}
	if endsAt, ok := combine(day, record.SelectedEnd); ok {
		event.EndsAt = &endsAt
	}
	return event, true
}

func categoryFromEventType(eventType string) entities.Category {
	switch entities.Category(strings.ToLower(strings.TrimSpace(eventType))) {
	case entities.CategoryMeeting:
		return entities.CategoryMeeting
	case entities.CategoryDeadline:
		return entities.CategoryDeadline
	case entities.CategoryTask:
		return entities.CategoryTask
	case entities.CategoryJournal:
		return entities.CategoryJournal
	default:
		return entities.CategoryOther
	}
}

func statusOrApproved(status string) entities.LifecycleStatus {
	switch entities.LifecycleStatus(strings.ToLower(strings.TrimSpace(status))) {
	case entities.StatusPending:
		return entities.StatusPending
	case entities.StatusPendingApproval:
		return entities.StatusPendingApproval
	case entities.StatusCancelled:
		return entities.StatusCancelled
	default:
		return entities.StatusApproved
	}
}

func combine(day time.Time, clock string) (time.Time, bool) {
	parsed, err := time.ParseInLocation(timeLayout, strings.TrimSpace(clock), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), true
}

func dateOf(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}
