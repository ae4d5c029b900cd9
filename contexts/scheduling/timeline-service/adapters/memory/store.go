package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"atelier/contexts/scheduling/timeline-service/domain/entities"
)

// Store is the in-memory record store adapter. The scheduling core treats the
// record store as an external collaborator; this adapter stands in for it in
// tests and single-process deployments.
type Store struct {
	mu sync.RWMutex

	scheduled []entities.ScheduledEvent
	tasks     []entities.TaskRecord
	journals  []entities.JournalEntry
	bookings  []entities.BookingProjection
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) SeedScheduledEvent(record entities.ScheduledEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.EventID = strings.TrimSpace(record.EventID)
	s.scheduled = append(s.scheduled, record)
}

func (s *Store) SeedTask(record entities.TaskRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.TaskID = strings.TrimSpace(record.TaskID)
	s.tasks = append(s.tasks, record)
}

func (s *Store) SeedJournalEntry(record entities.JournalEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.EntryID = strings.TrimSpace(record.EntryID)
	s.journals = append(s.journals, record)
}

func (s *Store) SetMeetingBooking(record entities.BookingProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.BookingID = strings.TrimSpace(record.BookingID)
	for i, existing := range s.bookings {
		if existing.BookingID == record.BookingID {
			s.bookings[i] = record
			return
		}
	}
	s.bookings = append(s.bookings, record)
}

func (s *Store) ListScheduledEvents(_ context.Context, limit int) ([]entities.ScheduledEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mostRecent(s.scheduled, limit, func(r entities.ScheduledEvent) time.Time { return r.CreatedAt }), nil
}

func (s *Store) ListTasks(_ context.Context, limit int) ([]entities.TaskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mostRecent(s.tasks, limit, func(r entities.TaskRecord) time.Time { return r.CreatedAt }), nil
}

func (s *Store) ListJournalEntries(_ context.Context, limit int) ([]entities.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mostRecent(s.journals, limit, func(r entities.JournalEntry) time.Time { return r.CreatedAt }), nil
}

func (s *Store) ListMeetingBookings(_ context.Context, limit int) ([]entities.BookingProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mostRecent(s.bookings, limit, func(r entities.BookingProjection) time.Time { return r.CreatedAt }), nil
}

// mostRecent mirrors the hosted store's fetch cap: newest records first,
// bounded by limit. Records older than the cap fall out of the aggregation
// window.
func mostRecent[T any](records []T, limit int, createdAt func(T) time.Time) []T {
	out := append([]T(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return createdAt(out[i]).After(createdAt(out[j]))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
