package ports

import (
	"context"
	"encoding/json"
	"time"

	"atelier/contexts/scheduling/booking-service/domain/entities"
)

// ProposalRepository persists meeting-slot proposals. The two *If methods are
// conditional writes: they apply the mutation only while the stored status
// still matches, and report whether this caller won. A naive read-then-write
// cannot guarantee the single-winner rule for racing guest selections, so the
// compare-and-swap is part of the contract rather than an assumption about
// the store.
type ProposalRepository interface {
	CreateProposal(ctx context.Context, proposal entities.Proposal) error
	GetProposal(ctx context.Context, proposalID string) (entities.Proposal, error)
	GetProposalByToken(ctx context.Context, linkToken string) (entities.Proposal, error)
	ListProposalsByOwner(ctx context.Context, ownerPrincipal string) ([]entities.Proposal, error)
	ListRecentProposals(ctx context.Context, limit int) ([]entities.Proposal, error)
	DeleteProposal(ctx context.Context, proposalID string) error

	SelectSlotIf(
		ctx context.Context,
		proposalID string,
		slot entities.SlotWindow,
		from entities.Status,
		to entities.Status,
		now time.Time,
	) (entities.Proposal, bool, error)

	TransitionStatusIf(
		ctx context.Context,
		proposalID string,
		from []entities.Status,
		to entities.Status,
		now time.Time,
	) (entities.Proposal, bool, error)
}

type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelChat  NotificationChannel = "chat_message"
	ChannelBoth  NotificationChannel = "both"
)

type Notification struct {
	Channel     NotificationChannel
	Destination string
	Subject     string
	Body        string
}

// Notifier is the outbound dispatch collaborator. Callers treat failures as
// non-fatal warnings; a failed dispatch never rolls back booking state.
type Notifier interface {
	Dispatch(ctx context.Context, notification Notification) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// TokenGenerator mints link tokens. Tokens are capabilities, not identifiers:
// implementations must draw from a cryptographically strong random source.
type TokenGenerator interface {
	NewToken(ctx context.Context) (string, error)
}
