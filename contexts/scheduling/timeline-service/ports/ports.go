package ports

import (
	"context"
	"time"

	"atelier/contexts/scheduling/timeline-service/domain/entities"
)

// Record store adapter contract. Each reader returns the most recent records
// first, bounded by limit; the aggregator accepts that extremely old records
// may be absent from a query window.

type ScheduledEventReader interface {
	ListScheduledEvents(ctx context.Context, limit int) ([]entities.ScheduledEvent, error)
}

type TaskReader interface {
	ListTasks(ctx context.Context, limit int) ([]entities.TaskRecord, error)
}

type JournalReader interface {
	ListJournalEntries(ctx context.Context, limit int) ([]entities.JournalEntry, error)
}

type BookingReader interface {
	ListMeetingBookings(ctx context.Context, limit int) ([]entities.BookingProjection, error)
}

type Clock interface {
	Now() time.Time
}
