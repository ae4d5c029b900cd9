package icaladapter

import (
	"strings"
	"testing"
	"time"

	"atelier/contexts/scheduling/timeline-service/domain/entities"
)

func TestFeedRendersTimedAndAllDayEvents(t *testing.T) {
	start := time.Date(2026, time.September, 14, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	day := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)

	feed := Exporter{ProdID: "-//Atelier//Test//EN"}.Feed([]entities.TimelineEvent{
		{
			ID:              "evt-1",
			SourceKind:      entities.SourceScheduledEvent,
			SourceID:        "evt-1",
			Title:           "Client kickoff",
			Description:     "Bring the floor plans",
			OccursOn:        start,
			StartsAt:        &start,
			EndsAt:          &end,
			LifecycleStatus: entities.StatusApproved,
		},
		{
			ID:              "task-t-1",
			SourceKind:      entities.SourceTask,
			SourceID:        "t-1",
			Title:           "Send revised estimate",
			OccursOn:        day,
			LifecycleStatus: entities.StatusPendingApproval,
		},
	}, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))

	for _, fragment := range []string{
		"BEGIN:VCALENDAR",
		"PRODID:-//Atelier//Test//EN",
		"METHOD:PUBLISH",
		"UID:scheduled_event-evt-1@atelier",
		"SUMMARY:Client kickoff",
		"DESCRIPTION:Bring the floor plans",
		"STATUS:CONFIRMED",
		"UID:task-t-1@atelier",
		"STATUS:TENTATIVE",
		"END:VCALENDAR",
	} {
		if !strings.Contains(feed, fragment) {
			t.Fatalf("feed is missing %q:\n%s", fragment, feed)
		}
	}

	// The dateless task renders as an all-day entry.
	if !strings.Contains(feed, "DTSTART;VALUE=DATE:20260915") {
		t.Fatalf("expected all-day start for the task:\n%s", feed)
	}
}

func TestFeedSynthesizesOneHourEndWhenMissing(t *testing.T) {
	start := time.Date(2026, time.September, 14, 13, 0, 0, 0, time.UTC)
	feed := Exporter{}.Feed([]entities.TimelineEvent{{
		ID:              "booking-b-1",
		SourceKind:      entities.SourceMeetingBooking,
		SourceID:        "b-1",
		Title:           "Vendor sync",
		OccursOn:        start,
		StartsAt:        &start,
		LifecycleStatus: entities.StatusPendingApproval,
	}}, time.Now().UTC())

	if !strings.Contains(feed, "DTEND:20260914T140000Z") {
		t.Fatalf("expected synthesized one-hour end:\n%s", feed)
	}
}
