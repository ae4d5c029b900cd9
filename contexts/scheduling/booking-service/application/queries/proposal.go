package queries

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	application "atelier/contexts/scheduling/booking-service/application"
	"atelier/contexts/scheduling/booking-service/domain/entities"
	domainerrors "atelier/contexts/scheduling/booking-service/domain/errors"
	"atelier/contexts/scheduling/booking-service/ports"
)

// Guest-facing reasons a link is no longer actionable. They stay
// distinguishable all the way to the presentation layer.
const (
	LinkReasonExpired       = "expired"
	LinkReasonAlreadyBooked = "already_booked"
	LinkReasonCancelled     = "cancelled"
)

// GuestView is the token-holder's projection of a proposal. It never exposes
// owner-only fields (notes, linked project, owner identity).
type GuestView struct {
	Title           string
	DurationMinutes int
	CandidateSlots  []entities.SlotWindow
	SelectedSlot    *entities.SlotWindow
	Status          entities.Status
	ZoomEnabled     bool
	ExpiresAt       time.Time
	Selectable      bool
	Reason          string
}

type ProposalQueryUseCase struct {
	Proposals    ports.ProposalRepository
	Clock        ports.Clock
	ShareBaseURL string
	Logger       *slog.Logger
}

func (uc ProposalQueryUseCase) Get(ctx context.Context, actorPrincipal string, proposalID string) (entities.Proposal, error) {
	actor := strings.TrimSpace(actorPrincipal)
	if actor == "" {
		return entities.Proposal{}, domainerrors.ErrScopeViolation
	}
	proposal, err := uc.Proposals.GetProposal(ctx, strings.TrimSpace(proposalID))
	if err != nil {
		return entities.Proposal{}, err
	}
	if !strings.EqualFold(strings.TrimSpace(proposal.OwnerPrincipal), actor) {
		return entities.Proposal{}, domainerrors.ErrScopeViolation
	}
	return proposal, nil
}

func (uc ProposalQueryUseCase) ListByOwner(ctx context.Context, ownerPrincipal string) ([]entities.Proposal, error) {
	owner := strings.TrimSpace(ownerPrincipal)
	if owner == "" {
		return nil, domainerrors.ErrScopeViolation
	}
	return uc.Proposals.ListProposalsByOwner(ctx, owner)
}

// ResolveLink answers a guest opening the shareable link. The token is the
// sole credential; when the proposal exists the guest always gets a view,
// with Selectable/Reason telling an expired link apart from one already
// booked by someone else or revoked by the owner.
func (uc ProposalQueryUseCase) ResolveLink(ctx context.Context, linkToken string) (GuestView, error) {
	logger := application.ResolveLogger(uc.Logger)
	token := strings.TrimSpace(linkToken)
	if token == "" {
		return GuestView{}, domainerrors.ErrProposalNotFound
	}
	proposal, err := uc.Proposals.GetProposalByToken(ctx, token)
	if err != nil {
		return GuestView{}, err
	}

	view := GuestView{
		Title:           proposal.Title,
		DurationMinutes: proposal.DurationMinutes,
		CandidateSlots:  append([]entities.SlotWindow(nil), proposal.CandidateSlots...),
		SelectedSlot:    proposal.SelectedSlot,
		Status:          proposal.Status,
		ZoomEnabled:     proposal.ZoomEnabled,
		ExpiresAt:       proposal.ExpiresAt,
	}

	now := uc.now()
	switch {
	case proposal.Expired(now) && proposal.Status == entities.StatusPendingSelection:
		view.Reason = LinkReasonExpired
	case proposal.Status == entities.StatusCancelled:
		view.Reason = LinkReasonCancelled
	case proposal.Status == entities.StatusPendingApproval || proposal.Status == entities.StatusApproved:
		view.Reason = LinkReasonAlreadyBooked
	default:
		view.Selectable = true
	}

	logger.Info("booking link resolved",
		"event", "booking_link_resolved",
		"module", "scheduling/booking-service",
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"selectable", view.Selectable,
		"reason", view.Reason,
	)
	return view, nil
}

// ShareLocator builds the shareable URL. The token rides verbatim in a query
// parameter; guests must treat it as opaque.
func (uc ProposalQueryUseCase) ShareLocator(linkToken string) string {
	base := strings.TrimRight(strings.TrimSpace(uc.ShareBaseURL), "/")
	if base == "" {
		base = "https://app.atelier.studio"
	}
	return base + "/share/book?token=" + url.QueryEscape(strings.TrimSpace(linkToken))
}

func (uc ProposalQueryUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
