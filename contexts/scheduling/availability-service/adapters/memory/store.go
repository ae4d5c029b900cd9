package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"atelier/contexts/scheduling/availability-service/domain/entities"
)

// Store is an in-memory commitment source used by tests and single-process
// wiring. Commitments are keyed by principal.
type Store struct {
	mu          sync.RWMutex
	commitments map[string][]entities.Commitment
	now         time.Time
}

func NewStore() *Store {
	return &Store{commitments: make(map[string][]entities.Commitment)}
}

func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) AddCommitment(principalID string, commitment entities.Commitment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(principalID)
	s.commitments[key] = append(s.commitments[key], commitment)
}

func (s *Store) ListCommitments(_ context.Context, principalID string, date string) ([]entities.Commitment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	day, err := time.ParseInLocation(entities.DateLayout, strings.TrimSpace(date), time.Local)
	if err != nil {
		return nil, err
	}
	var matched []entities.Commitment
	for _, commitment := range s.commitments[strings.TrimSpace(principalID)] {
		if commitment.StartsAt.Year() == day.Year() && commitment.StartsAt.YearDay() == day.YearDay() {
			matched = append(matched, commitment)
		}
	}
	return matched, nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now.IsZero() {
		return time.Now()
	}
	return s.now
}
