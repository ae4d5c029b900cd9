package memory

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"atelier/contexts/scheduling/booking-service/domain/entities"
	domainerrors "atelier/contexts/scheduling/booking-service/domain/errors"
	"atelier/contexts/scheduling/booking-service/ports"

	"github.com/google/uuid"
)

const (
	tokenLength   = 24
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

type Store struct {
	mu sync.RWMutex

	proposals map[string]entities.Proposal
	byToken   map[string]string
	outbox    map[string]outboxRecord

	now func() time.Time
}

func NewStore(seed []entities.Proposal) *Store {
	proposals := make(map[string]entities.Proposal, len(seed))
	byToken := make(map[string]string, len(seed))
	for _, proposal := range seed {
		proposals[proposal.ProposalID] = cloneProposal(proposal)
		if proposal.LinkToken != "" {
			byToken[proposal.LinkToken] = proposal.ProposalID
		}
	}
	return &Store{
		proposals: proposals,
		byToken:   byToken,
		outbox:    make(map[string]outboxRecord),
	}
}

// SetNow pins the store clock for tests.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) CreateProposal(_ context.Context, proposal entities.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposalID := strings.TrimSpace(proposal.ProposalID)
	if _, exists := s.proposals[proposalID]; exists {
		return domainerrors.ErrConflict
	}
	if existingID, exists := s.byToken[proposal.LinkToken]; exists && existingID != proposalID {
		return domainerrors.ErrConflict
	}
	s.proposals[proposalID] = cloneProposal(proposal)
	if proposal.LinkToken != "" {
		s.byToken[proposal.LinkToken] = proposalID
	}
	return nil
}

func (s *Store) GetProposal(_ context.Context, proposalID string) (entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, ok := s.proposals[strings.TrimSpace(proposalID)]
	if !ok {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}
	return cloneProposal(proposal), nil
}

func (s *Store) GetProposalByToken(_ context.Context, linkToken string) (entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposalID, ok := s.byToken[strings.TrimSpace(linkToken)]
	if !ok {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}
	proposal, ok := s.proposals[proposalID]
	if !ok {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}
	return cloneProposal(proposal), nil
}

func (s *Store) ListProposalsByOwner(_ context.Context, ownerPrincipal string) ([]entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Proposal, 0)
	for _, proposal := range s.proposals {
		if proposal.OwnerPrincipal == strings.TrimSpace(ownerPrincipal) {
			items = append(items, cloneProposal(proposal))
		}
	}
	sortProposalsByCreation(items)
	return items, nil
}

func (s *Store) ListRecentProposals(_ context.Context, limit int) ([]entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	items := make([]entities.Proposal, 0, len(s.proposals))
	for _, proposal := range s.proposals {
		items = append(items, cloneProposal(proposal))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ProposalID < items[j].ProposalID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) DeleteProposal(_ context.Context, proposalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	proposal, ok := s.proposals[strings.TrimSpace(proposalID)]
	if !ok {
		return domainerrors.ErrProposalNotFound
	}
	delete(s.proposals, proposal.ProposalID)
	delete(s.byToken, proposal.LinkToken)
	return nil
}

func (s *Store) SelectSlotIf(
	_ context.Context,
	proposalID string,
	slot entities.SlotWindow,
	from entities.Status,
	to entities.Status,
	now time.Time,
) (entities.Proposal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposal, ok := s.proposals[strings.TrimSpace(proposalID)]
	if !ok {
		return entities.Proposal{}, false, domainerrors.ErrProposalNotFound
	}
	if proposal.Status != from {
		return cloneProposal(proposal), false, nil
	}
	selected := slot
	proposal.SelectedSlot = &selected
	proposal.Status = to
	proposal.UpdatedAt = now.UTC()
	s.proposals[proposal.ProposalID] = proposal
	return cloneProposal(proposal), true, nil
}

func (s *Store) TransitionStatusIf(
	_ context.Context,
	proposalID string,
	from []entities.Status,
	to entities.Status,
	now time.Time,
) (entities.Proposal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposal, ok := s.proposals[strings.TrimSpace(proposalID)]
	if !ok {
		return entities.Proposal{}, false, domainerrors.ErrProposalNotFound
	}
	matched := false
	for _, status := range from {
		if proposal.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return cloneProposal(proposal), false, nil
	}
	proposal.Status = to
	if to == entities.StatusCancelled {
		proposal.SelectedSlot = nil
	}
	proposal.UpdatedAt = now.UTC()
	s.proposals[proposal.ProposalID] = proposal
	return cloneProposal(proposal), true, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.message.Payload, payload) {
			return domainerrors.ErrConflict
		}
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = s.clock().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:  outboxID,
			EventType: strings.TrimSpace(envelope.EventType),
			Payload:   payload,
			CreatedAt: createdAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return s.clock().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// NewToken draws from crypto/rand; link tokens authorize guest access and
// must not be guessable.
func (s *Store) NewToken(_ context.Context) (string, error) {
	token := make([]byte, tokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range token {
		index, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		token[i] = tokenAlphabet[index.Int64()]
	}
	return string(token), nil
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func cloneProposal(proposal entities.Proposal) entities.Proposal {
	clone := proposal
	clone.CandidateSlots = append([]entities.SlotWindow(nil), proposal.CandidateSlots...)
	if proposal.SelectedSlot != nil {
		selected := *proposal.SelectedSlot
		clone.SelectedSlot = &selected
	}
	return clone
}

func sortProposalsByCreation(items []entities.Proposal) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
