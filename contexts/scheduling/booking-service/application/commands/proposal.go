package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "atelier/contexts/scheduling/booking-service/application"
	"atelier/contexts/scheduling/booking-service/domain/entities"
	domainerrors "atelier/contexts/scheduling/booking-service/domain/errors"
	"atelier/contexts/scheduling/booking-service/ports"
)

// CreateProposalCommand is the write-model input for opening a booking link.
type CreateProposalCommand struct {
	OwnerPrincipal  string
	Title           string
	DurationMinutes int
	CandidateSlots  []entities.SlotWindow
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	LinkedProjectID string
	Notes           string
	ZoomEnabled     bool
	// AutoApprove skips the owner approval gate: a guest selection confirms
	// the booking directly. New proposals default to requiring approval.
	AutoApprove bool
}

// SelectSlotCommand is the guest-side selection, authorized solely by the
// link token.
type SelectSlotCommand struct {
	LinkToken string
	Slot      entities.SlotWindow
}

type DecisionCommand struct {
	ProposalID     string
	ActorPrincipal string
}

// ProposalUseCase owns the booking proposal lifecycle:
// pending_selection -> pending_approval -> {approved, cancelled}, with a
// direct pending_selection -> cancelled path for revocation before any
// selection.
type ProposalUseCase struct {
	Proposals ports.ProposalRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Tokens    ports.TokenGenerator
	LinkTTL   time.Duration
	Logger    *slog.Logger
}

func (uc ProposalUseCase) CreateProposal(ctx context.Context, cmd CreateProposalCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	owner := strings.TrimSpace(cmd.OwnerPrincipal)
	if owner == "" {
		return entities.Proposal{}, domainerrors.ErrScopeViolation
	}
	if strings.TrimSpace(cmd.Title) == "" || cmd.DurationMinutes <= 0 || len(cmd.CandidateSlots) == 0 {
		logger.Warn("proposal create validation failed",
			"event", "booking_create_validation_failed",
			"module", "scheduling/booking-service",
			"layer", "application",
			"owner_principal", owner,
			"slot_count", len(cmd.CandidateSlots),
		)
		return entities.Proposal{}, domainerrors.ErrInvalidProposalInput
	}
	for i, slot := range cmd.CandidateSlots {
		if !slot.Valid() {
			return entities.Proposal{}, domainerrors.ErrInvalidProposalInput
		}
		for _, other := range cmd.CandidateSlots[:i] {
			if slot.Overlaps(other) {
				return entities.Proposal{}, domainerrors.ErrInvalidProposalInput
			}
		}
	}

	now := uc.now()
	proposalID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Proposal{}, err
	}
	linkToken, err := uc.Tokens.NewToken(ctx)
	if err != nil {
		return entities.Proposal{}, err
	}

	proposal := entities.Proposal{
		ProposalID:       proposalID,
		LinkToken:        linkToken,
		OwnerPrincipal:   owner,
		Title:            strings.TrimSpace(cmd.Title),
		DurationMinutes:  cmd.DurationMinutes,
		CandidateSlots:   append([]entities.SlotWindow(nil), cmd.CandidateSlots...),
		Status:           entities.StatusPendingSelection,
		RequiresApproval: !cmd.AutoApprove,
		ExpiresAt:        now.Add(uc.resolveLinkTTL()),
		GuestName:        strings.TrimSpace(cmd.GuestName),
		GuestEmail:       strings.TrimSpace(cmd.GuestEmail),
		GuestPhone:       strings.TrimSpace(cmd.GuestPhone),
		LinkedProjectID:  strings.TrimSpace(cmd.LinkedProjectID),
		Notes:            strings.TrimSpace(cmd.Notes),
		ZoomEnabled:      cmd.ZoomEnabled,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.Proposals.CreateProposal(ctx, proposal); err != nil {
		return entities.Proposal{}, err
	}
	if err := uc.appendProposalEvent(ctx, "booking.created", proposal, now, nil); err != nil {
		return entities.Proposal{}, err
	}

	logger.Info("proposal created",
		"event", "booking_created",
		"module", "scheduling/booking-service",
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"owner_principal", owner,
		"slot_count", len(proposal.CandidateSlots),
		"requires_approval", proposal.RequiresApproval,
		"expires_at", proposal.ExpiresAt.UTC().Format(time.RFC3339),
	)
	return proposal, nil
}

// SelectSlot applies a guest's choice. Expiry is checked lazily here, before
// anything else; a proposal past its deadline is inert no matter its status.
// The status write is conditional on pending_selection so that of two racing
// guests exactly one wins; the loser observes ErrProposalNotSelectable.
func (uc ProposalUseCase) SelectSlot(ctx context.Context, cmd SelectSlotCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	token := strings.TrimSpace(cmd.LinkToken)
	if token == "" {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}

	proposal, err := uc.Proposals.GetProposalByToken(ctx, token)
	if err != nil {
		return entities.Proposal{}, err
	}
	now := uc.now()
	if proposal.Expired(now) {
		logger.Info("selection rejected on expired link",
			"event", "booking_select_expired",
			"module", "scheduling/booking-service",
			"layer", "application",
			"proposal_id", proposal.ProposalID,
		)
		return entities.Proposal{}, domainerrors.ErrProposalExpired
	}
	if proposal.Status != entities.StatusPendingSelection {
		return entities.Proposal{}, domainerrors.ErrProposalNotSelectable
	}
	if !proposal.HasCandidate(cmd.Slot) {
		return entities.Proposal{}, domainerrors.ErrSlotUnavailable
	}

	target := entities.StatusPendingApproval
	if !proposal.RequiresApproval {
		target = entities.StatusApproved
	}
	updated, won, err := uc.Proposals.SelectSlotIf(
		ctx, proposal.ProposalID, cmd.Slot, entities.StatusPendingSelection, target, now)
	if err != nil {
		return entities.Proposal{}, err
	}
	if !won {
		logger.Info("selection lost the race",
			"event", "booking_select_conflict",
			"module", "scheduling/booking-service",
			"layer", "application",
			"proposal_id", proposal.ProposalID,
		)
		return entities.Proposal{}, domainerrors.ErrProposalNotSelectable
	}

	if err := uc.appendProposalEvent(ctx, "booking.slot_selected", updated, now, nil); err != nil {
		return entities.Proposal{}, err
	}
	if updated.Status == entities.StatusApproved {
		if err := uc.appendProposalEvent(ctx, "booking.approved", updated, now, map[string]any{
			"auto_approved": true,
		}); err != nil {
			return entities.Proposal{}, err
		}
	}

	logger.Info("slot selected",
		"event", "booking_slot_selected",
		"module", "scheduling/booking-service",
		"layer", "application",
		"proposal_id", updated.ProposalID,
		"status", string(updated.Status),
	)
	return updated, nil
}

// Approve confirms a guest-selected slot. Re-invoking on a terminal proposal
// replays the current state without side effects, tolerating duplicate
// clicks.
func (uc ProposalUseCase) Approve(ctx context.Context, cmd DecisionCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	proposal, err := uc.ownedProposal(ctx, cmd)
	if err != nil {
		return entities.Proposal{}, err
	}
	if proposal.Status.Terminal() {
		logger.Info("approve replayed on terminal proposal",
			"event", "booking_approve_replayed",
			"module", "scheduling/booking-service",
			"layer", "application",
			"proposal_id", proposal.ProposalID,
			"status", string(proposal.Status),
		)
		return proposal, nil
	}
	if proposal.Status != entities.StatusPendingApproval {
		return entities.Proposal{}, domainerrors.ErrNotAwaitingApproval
	}

	now := uc.now()
	updated, won, err := uc.Proposals.TransitionStatusIf(
		ctx, proposal.ProposalID,
		[]entities.Status{entities.StatusPendingApproval},
		entities.StatusApproved, now)
	if err != nil {
		return entities.Proposal{}, err
	}
	if !won {
		if updated.Status.Terminal() {
			return updated, nil
		}
		return entities.Proposal{}, domainerrors.ErrNotAwaitingApproval
	}

	if err := uc.appendProposalEvent(ctx, "booking.approved", updated, now, nil); err != nil {
		return entities.Proposal{}, err
	}
	logger.Info("proposal approved",
		"event", "booking_approved",
		"module", "scheduling/booking-service",
		"layer", "application",
		"proposal_id", updated.ProposalID,
	)
	return updated, nil
}

// Decline cancels a proposal before or after guest selection. Irreversible;
// terminal proposals replay idempotently.
func (uc ProposalUseCase) Decline(ctx context.Context, cmd DecisionCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	proposal, err := uc.ownedProposal(ctx, cmd)
	if err != nil {
		return entities.Proposal{}, err
	}
	if proposal.Status.Terminal() {
		logger.Info("decline replayed on terminal proposal",
			"event", "booking_decline_replayed",
			"module", "scheduling/booking-service",
			"layer", "application",
			"proposal_id", proposal.ProposalID,
			"status", string(proposal.Status),
		)
		return proposal, nil
	}

	now := uc.now()
	updated, won, err := uc.Proposals.TransitionStatusIf(
		ctx, proposal.ProposalID,
		[]entities.Status{entities.StatusPendingSelection, entities.StatusPendingApproval},
		entities.StatusCancelled, now)
	if err != nil {
		return entities.Proposal{}, err
	}
	if !won {
		if updated.Status.Terminal() {
			return updated, nil
		}
		return entities.Proposal{}, domainerrors.ErrConflict
	}

	if err := uc.appendProposalEvent(ctx, "booking.declined", updated, now, nil); err != nil {
		return entities.Proposal{}, err
	}
	logger.Info("proposal declined",
		"event", "booking_declined",
		"module", "scheduling/booking-service",
		"layer", "application",
		"proposal_id", updated.ProposalID,
	)
	return updated, nil
}

// Delete removes a proposal outright. Expired proposals stay readable until
// deleted; expiry alone only makes them inert.
func (uc ProposalUseCase) Delete(ctx context.Context, cmd DecisionCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	proposal, err := uc.ownedProposal(ctx, cmd)
	if err != nil {
		return err
	}
	if err := uc.Proposals.DeleteProposal(ctx, proposal.ProposalID); err != nil {
		return err
	}
	logger.Info("proposal deleted",
		"event", "booking_deleted",
		"module", "scheduling/booking-service",
		"layer", "application",
		"proposal_id", proposal.ProposalID,
	)
	return nil
}

// ownedProposal loads the proposal and enforces the owner-only mutation rule
// for approve/decline/delete. Guests hold a token, not an identity; they can
// never pass this gate.
func (uc ProposalUseCase) ownedProposal(ctx context.Context, cmd DecisionCommand) (entities.Proposal, error) {
	actor := strings.TrimSpace(cmd.ActorPrincipal)
	if actor == "" {
		return entities.Proposal{}, domainerrors.ErrScopeViolation
	}
	proposal, err := uc.Proposals.GetProposal(ctx, strings.TrimSpace(cmd.ProposalID))
	if err != nil {
		return entities.Proposal{}, err
	}
	if !strings.EqualFold(strings.TrimSpace(proposal.OwnerPrincipal), actor) {
		return entities.Proposal{}, domainerrors.ErrScopeViolation
	}
	return proposal, nil
}

func (uc ProposalUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc ProposalUseCase) resolveLinkTTL() time.Duration {
	if uc.LinkTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return uc.LinkTTL
}

func (uc ProposalUseCase) appendProposalEvent(
	ctx context.Context,
	eventType string,
	proposal entities.Proposal,
	occurredAt time.Time,
	metadata map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data := map[string]any{
		"proposal_id":     proposal.ProposalID,
		"owner_principal": proposal.OwnerPrincipal,
		"title":           proposal.Title,
		"status":          string(proposal.Status),
		"link_token":      proposal.LinkToken,
		"guest_name":      proposal.GuestName,
		"guest_email":     proposal.GuestEmail,
		"guest_phone":     proposal.GuestPhone,
		"zoom_enabled":    proposal.ZoomEnabled,
		"expires_at":      proposal.ExpiresAt.UTC().Format(time.RFC3339),
		"occurred_at":     occurredAt.Format(time.RFC3339),
	}
	if proposal.SelectedSlot != nil {
		data["selected_date"] = proposal.SelectedSlot.Date
		data["selected_start_time"] = proposal.SelectedSlot.StartTime
		data["selected_end_time"] = proposal.SelectedSlot.EndTime
	}
	for key, value := range metadata {
		data[key] = value
	}

	envelope, err := newBookingEnvelope(eventID, eventType, proposal.ProposalID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
