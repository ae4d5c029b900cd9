package unit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	timelineservice "atelier/contexts/scheduling/timeline-service"
	"atelier/contexts/scheduling/timeline-service/domain/entities"
	domainerrors "atelier/contexts/scheduling/timeline-service/domain/errors"
	"atelier/contexts/scheduling/timeline-service/domain/services"
	httptransport "atelier/contexts/scheduling/timeline-service/transport/http"
)

func seedTimelineFixtures(module timelineservice.Module) {
	base := time.Date(2026, time.September, 14, 8, 0, 0, 0, time.UTC)
	start := time.Date(2026, time.September, 14, 9, 0, 0, 0, time.Local)
	end := start.Add(time.Hour)

	module.Store.SeedScheduledEvent(entities.ScheduledEvent{
		EventID:        "evt-1",
		Title:          "Client kickoff",
		EventType:      "meeting",
		Status:         "approved",
		OccursOn:       start,
		StartsAt:       &start,
		EndsAt:         &end,
		OwnerPrincipal: "owner-1",
		CreatedAt:      base,
	})

	due := time.Date(2026, time.September, 14, 0, 0, 0, 0, time.Local)
	module.Store.SeedTask(entities.TaskRecord{
		TaskID:         "t-1",
		Title:          "Send revised estimate",
		DueOn:          &due,
		OwnerPrincipal: "owner-1",
		CreatedAt:      base.Add(time.Minute),
	})
	module.Store.SeedTask(entities.TaskRecord{
		TaskID:         "t-2",
		Title:          "Backlog grooming",
		OwnerPrincipal: "owner-1",
		CreatedAt:      base.Add(2 * time.Minute),
	})

	module.Store.SeedJournalEntry(entities.JournalEntry{
		EntryID:        "j-1",
		Title:          "Site notes",
		Body:           "Measured the east wall.",
		OwnerPrincipal: "owner-1",
		CreatedAt:      time.Date(2026, time.September, 14, 17, 30, 0, 0, time.Local),
	})

	module.Store.SetMeetingBooking(entities.BookingProjection{
		BookingID:      "b-1",
		Title:          "Vendor sync",
		Status:         "pending_approval",
		SelectedDate:   "2026-09-14",
		SelectedStart:  "13:00",
		SelectedEnd:    "14:00",
		OwnerPrincipal: "owner-1",
		CreatedAt:      base.Add(3 * time.Minute),
	})
	module.Store.SetMeetingBooking(entities.BookingProjection{
		BookingID:      "b-2",
		Title:          "Unselected proposal",
		Status:         "pending_selection",
		OwnerPrincipal: "owner-1",
		CreatedAt:      base.Add(4 * time.Minute),
	})

	module.Store.SeedScheduledEvent(entities.ScheduledEvent{
		EventID:        "evt-other",
		Title:          "Someone else's review",
		EventType:      "meeting",
		OccursOn:       start,
		OwnerPrincipal: "owner-2",
		CreatedAt:      base,
	})
}

func TestTimelineAggregatesAndOrdersAllSources(t *testing.T) {
	module := timelineservice.NewInMemoryModule(nil)
	seedTimelineFixtures(module)

	resp, err := module.Handler.TimelineHandler(context.Background(),
		services.Principal{ID: "owner-1", Role: services.RoleStandard},
		httptransport.TimelineRequest{From: "2026-09-14", To: "2026-09-14"},
	)
	if err != nil {
		t.Fatalf("timeline query failed: %v", err)
	}

	ids := make([]string, 0, len(resp.Events))
	for _, event := range resp.Events {
		ids = append(ids, event.ID)
	}

	// 09:00 meeting, then the dateless task and journal at the 10:00 fallback
	// ("journal-j-1" < "task-t-1" on the id tie-break), then the 13:00 booking.
	want := []string{"evt-1", "journal-j-1", "task-t-1", "booking-b-1"}
	if len(ids) != len(want) {
		t.Fatalf("expected events %v, got %v", want, ids)
	}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("expected events %v, got %v", want, ids)
		}
	}

	for _, event := range resp.Events {
		switch event.ID {
		case "task-t-1":
			if event.SourceKind != "task" || event.SourceID != "t-1" || event.Category != "task" {
				t.Fatalf("unexpected task projection: %+v", event)
			}
		case "booking-b-1":
			if event.LifecycleStatus != "pending_approval" || event.StartsAt == "" {
				t.Fatalf("unexpected booking projection: %+v", event)
			}
		}
	}
}

func TestTimelineScopeRestrictsStandardPrincipals(t *testing.T) {
	module := timelineservice.NewInMemoryModule(nil)
	seedTimelineFixtures(module)

	standard, err := module.Handler.TimelineHandler(context.Background(),
		services.Principal{ID: "owner-2", Role: services.RoleStandard},
		httptransport.TimelineRequest{From: "2026-09-14", To: "2026-09-14"},
	)
	if err != nil {
		t.Fatalf("timeline query failed: %v", err)
	}
	if len(standard.Events) != 1 || standard.Events[0].ID != "evt-other" {
		t.Fatalf("expected only owner-2's event, got %+v", standard.Events)
	}

	elevated, err := module.Handler.TimelineHandler(context.Background(),
		services.Principal{ID: "admin-1", Role: services.RoleElevated},
		httptransport.TimelineRequest{From: "2026-09-14", To: "2026-09-14"},
	)
	if err != nil {
		t.Fatalf("timeline query failed: %v", err)
	}
	if len(elevated.Events) != 5 {
		t.Fatalf("expected elevated principal to see all 5 events, got %d", len(elevated.Events))
	}

	unresolved, err := module.Handler.TimelineHandler(context.Background(),
		services.Principal{},
		httptransport.TimelineRequest{From: "2026-09-14", To: "2026-09-14"},
	)
	if err != nil {
		t.Fatalf("timeline query failed: %v", err)
	}
	if len(unresolved.Events) != 0 {
		t.Fatalf("expected unresolved principal to see nothing, got %d events", len(unresolved.Events))
	}
}

func TestTimelineCategoryAndStatusFilters(t *testing.T) {
	module := timelineservice.NewInMemoryModule(nil)
	seedTimelineFixtures(module)
	principal := services.Principal{ID: "owner-1", Role: services.RoleStandard}

	meetings, err := module.Handler.TimelineHandler(context.Background(), principal,
		httptransport.TimelineRequest{From: "2026-09-14", To: "2026-09-14", Categories: []string{"meeting"}},
	)
	if err != nil {
		t.Fatalf("timeline query failed: %v", err)
	}
	if len(meetings.Events) != 2 {
		t.Fatalf("expected 2 meeting events, got %d", len(meetings.Events))
	}

	// The pending toggle also covers pending_approval bookings.
	pending, err := module.Handler.TimelineHandler(context.Background(), principal,
		httptransport.TimelineRequest{From: "2026-09-14", To: "2026-09-14", Statuses: []string{"pending"}},
	)
	if err != nil {
		t.Fatalf("timeline query failed: %v", err)
	}
	if len(pending.Events) != 1 || pending.Events[0].ID != "booking-b-1" {
		t.Fatalf("expected the pending_approval booking, got %+v", pending.Events)
	}

	// A raw pending_approval toggle behaves exactly like pending.
	rawToggle, err := module.Handler.TimelineHandler(context.Background(), principal,
		httptransport.TimelineRequest{From: "2026-09-14", To: "2026-09-14", Statuses: []string{"pending_approval"}},
	)
	if err != nil {
		t.Fatalf("timeline query failed: %v", err)
	}
	if len(rawToggle.Events) != 1 || rawToggle.Events[0].ID != "booking-b-1" {
		t.Fatalf("expected pending_approval toggle to match the booking, got %+v", rawToggle.Events)
	}

	none, err := module.Handler.TimelineHandler(context.Background(), principal,
		httptransport.TimelineRequest{From: "2026-09-14", To: "2026-09-14", Statuses: []string{"cancelled"}},
	)
	if err != nil {
		t.Fatalf("timeline query failed: %v", err)
	}
	if len(none.Events) != 0 {
		t.Fatalf("expected no cancelled events, got %d", len(none.Events))
	}
}

func TestTimelineRejectsInvalidRanges(t *testing.T) {
	module := timelineservice.NewInMemoryModule(nil)
	principal := services.Principal{ID: "owner-1", Role: services.RoleStandard}

	_, err := module.Handler.TimelineHandler(context.Background(), principal,
		httptransport.TimelineRequest{From: "not-a-date", To: "2026-09-14"},
	)
	if !errors.Is(err, domainerrors.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for malformed date, got %v", err)
	}

	_, err = module.Handler.TimelineHandler(context.Background(), principal,
		httptransport.TimelineRequest{From: "2026-09-15", To: "2026-09-14"},
	)
	if !errors.Is(err, domainerrors.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for inverted range, got %v", err)
	}
}

func TestTimelineFeedRendersICS(t *testing.T) {
	module := timelineservice.NewInMemoryModule(nil)
	seedTimelineFixtures(module)

	feed, err := module.Handler.FeedHandler(context.Background(),
		services.Principal{ID: "owner-1", Role: services.RoleStandard},
		httptransport.TimelineRequest{From: "2026-09-14", To: "2026-09-14"},
	)
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if !strings.Contains(feed, "BEGIN:VCALENDAR") || !strings.Contains(feed, "END:VCALENDAR") {
		t.Fatalf("feed is not an iCalendar document:\n%s", feed)
	}
	if !strings.Contains(feed, "Client kickoff") || !strings.Contains(feed, "Vendor sync") {
		t.Fatalf("feed is missing event summaries:\n%s", feed)
	}
	if !strings.Contains(feed, "STATUS:TENTATIVE") {
		t.Fatalf("expected the awaiting-approval booking to render tentative:\n%s", feed)
	}
}
