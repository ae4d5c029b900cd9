package queries

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	application "atelier/contexts/scheduling/timeline-service/application"
	"atelier/contexts/scheduling/timeline-service/domain/entities"
	domainerrors "atelier/contexts/scheduling/timeline-service/domain/errors"
	"atelier/contexts/scheduling/timeline-service/domain/services"
	"atelier/contexts/scheduling/timeline-service/ports"
)

// ViewQuery is the explicit, passed-in view state consumed by the aggregator.
// Filters travel with the query instead of living in ambient UI state. A nil
// category or status set means the corresponding toggles are all enabled; an
// empty non-nil set disables everything.
type ViewQuery struct {
	From       time.Time
	To         time.Time
	Categories map[entities.Category]bool
	Statuses   map[entities.LifecycleStatus]bool
}

// TimelineUseCase fetches, scopes, normalizes, and filters the four source
// collections into one ordered timeline.
type TimelineUseCase struct {
	Events     ports.ScheduledEventReader
	Tasks      ports.TaskReader
	Journals   ports.JournalReader
	Bookings   ports.BookingReader
	FetchLimit int
	Logger     *slog.Logger
}

// Query returns the principal's timeline for an inclusive date range. Scoping
// is applied per source collection before normalization so elevated and
// standard principals never observe partially-mixed results.
func (uc TimelineUseCase) Query(
	ctx context.Context,
	principal services.Principal,
	view ViewQuery,
) ([]entities.TimelineEvent, error) {
	logger := application.ResolveLogger(uc.Logger)
	if view.From.IsZero() || view.To.IsZero() || view.To.Before(view.From) {
		return nil, domainerrors.ErrInvalidRange
	}

	sources, err := uc.fetchScoped(ctx, principal)
	if err != nil {
		logger.Error("timeline source fetch failed",
			"event", "timeline_query_fetch_failed",
			"module", "scheduling/timeline-service",
			"layer", "application",
			"principal_id", principal.ID,
			"error", err.Error(),
		)
		return nil, err
	}

	events := Normalize(sources)
	matched := make([]entities.TimelineEvent, 0, len(events))
	for _, event := range events {
		if !withinRange(event.OccursOn, view.From, view.To) {
			continue
		}
		if !matchesFilters(event, view) {
			continue
		}
		matched = append(matched, event)
	}
	sortTimeline(matched)

	logger.Info("timeline query completed",
		"event", "timeline_query_completed",
		"module", "scheduling/timeline-service",
		"layer", "application",
		"principal_id", principal.ID,
		"elevated", principal.Elevated(),
		"event_count", len(matched),
	)
	return matched, nil
}

// Day is the single-day convenience form of Query.
func (uc TimelineUseCase) Day(
	ctx context.Context,
	principal services.Principal,
	day time.Time,
	view ViewQuery,
) ([]entities.TimelineEvent, error) {
	view.From = day
	view.To = day
	return uc.Query(ctx, principal, view)
}

func (uc TimelineUseCase) fetchScoped(
	ctx context.Context,
	principal services.Principal,
) (SourceRecords, error) {
	limit := uc.FetchLimit
	if limit <= 0 {
		limit = 200
	}

	scheduled, err := uc.Events.ListScheduledEvents(ctx, limit)
	if err != nil {
		return SourceRecords{}, fmt.Errorf("%w: scheduled events: %v", domainerrors.ErrSourceFetch, err)
	}
	tasks, err := uc.Tasks.ListTasks(ctx, limit)
	if err != nil {
		return SourceRecords{}, fmt.Errorf("%w: tasks: %v", domainerrors.ErrSourceFetch, err)
	}
	journals, err := uc.Journals.ListJournalEntries(ctx, limit)
	if err != nil {
		return SourceRecords{}, fmt.Errorf("%w: journal entries: %v", domainerrors.ErrSourceFetch, err)
	}
	bookings, err := uc.Bookings.ListMeetingBookings(ctx, limit)
	if err != nil {
		return SourceRecords{}, fmt.Errorf("%w: meeting bookings: %v", domainerrors.ErrSourceFetch, err)
	}

	return SourceRecords{
		ScheduledEvents: services.ScopeRecords(scheduled,
			func(r entities.ScheduledEvent) string { return r.OwnerPrincipal }, principal),
		Tasks: services.ScopeRecords(tasks,
			func(r entities.TaskRecord) string { return r.OwnerPrincipal }, principal),
		JournalEntries: services.ScopeRecords(journals,
			func(r entities.JournalEntry) string { return r.OwnerPrincipal }, principal),
		MeetingBookings: services.ScopeRecords(bookings,
			func(r entities.BookingProjection) string { return r.OwnerPrincipal }, principal),
	}, nil
}

// Range matching compares date components only; time of day affects sort
// order, never inclusion.
func withinRange(occursOn time.Time, from time.Time, to time.Time) bool {
	day := dateOf(occursOn)
	return !day.Before(dateOf(from)) && !day.After(dateOf(to))
}

func matchesFilters(event entities.TimelineEvent, view ViewQuery) bool {
	if view.Categories != nil && !view.Categories[event.Category] {
		return false
	}
	if view.Statuses != nil && !view.Statuses[event.LifecycleStatus.Normalized()] {
		return false
	}
	return true
}

func sortTimeline(events []entities.TimelineEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		left := sortInstant(events[i])
		right := sortInstant(events[j])
		if left.Equal(right) {
			return events[i].ID < events[j].ID
		}
		return left.Before(right)
	})
}

// Events without a start time sort at the fallback display hour so they land
// mid-morning rather than first or last within a day.
func sortInstant(event entities.TimelineEvent) time.Time {
	if event.StartsAt != nil {
		return *event.StartsAt
	}
	day := event.OccursOn
	return time.Date(day.Year(), day.Month(), day.Day(), FallbackDisplayHour, 0, 0, 0, day.Location())
}
