package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"atelier/contexts/scheduling/booking-service/application/commands"
	"atelier/contexts/scheduling/booking-service/application/queries"
	"atelier/contexts/scheduling/booking-service/domain/entities"
	httptransport "atelier/contexts/scheduling/booking-service/transport/http"
)

type Handler struct {
	Proposals commands.ProposalUseCase
	Queries   queries.ProposalQueryUseCase
	// AutoApproveDefault applies when a create request leaves auto_approve
	// unset. The zero value keeps the owner approval gate.
	AutoApproveDefault bool
	Logger             *slog.Logger
}

func (h Handler) CreateProposalHandler(
	ctx context.Context,
	ownerPrincipal string,
	req httptransport.CreateProposalRequest,
) (httptransport.ProposalResponse, error) {
	autoApprove := h.AutoApproveDefault
	if req.AutoApprove != nil {
		autoApprove = *req.AutoApprove
	}
	proposal, err := h.Proposals.CreateProposal(ctx, commands.CreateProposalCommand{
		OwnerPrincipal:  ownerPrincipal,
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
		CandidateSlots:  mapWindows(req.CandidateSlots),
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		LinkedProjectID: req.LinkedProjectID,
		Notes:           req.Notes,
		ZoomEnabled:     req.ZoomEnabled,
		AutoApprove:     autoApprove,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return h.toProposalResponse(proposal), nil
}

func (h Handler) GetProposalHandler(
	ctx context.Context,
	actorPrincipal string,
	proposalID string,
) (httptransport.ProposalResponse, error) {
	proposal, err := h.Queries.Get(ctx, actorPrincipal, proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return h.toProposalResponse(proposal), nil
}

func (h Handler) ListProposalsHandler(
	ctx context.Context,
	ownerPrincipal string,
) (httptransport.ProposalListResponse, error) {
	proposals, err := h.Queries.ListByOwner(ctx, ownerPrincipal)
	if err != nil {
		return httptransport.ProposalListResponse{}, err
	}
	items := make([]httptransport.ProposalResponse, 0, len(proposals))
	for _, proposal := range proposals {
		items = append(items, h.toProposalResponse(proposal))
	}
	return httptransport.ProposalListResponse{Items: items}, nil
}

func (h Handler) ResolveLinkHandler(
	ctx context.Context,
	linkToken string,
) (httptransport.GuestViewResponse, error) {
	view, err := h.Queries.ResolveLink(ctx, linkToken)
	if err != nil {
		return httptransport.GuestViewResponse{}, err
	}
	response := httptransport.GuestViewResponse{
		Title:           view.Title,
		DurationMinutes: view.DurationMinutes,
		CandidateSlots:  mapWindowDTOs(view.CandidateSlots),
		SelectedSlot:    toSlotDTO(view.SelectedSlot),
		Status:          string(view.Status),
		ZoomEnabled:     view.ZoomEnabled,
		Selectable:      view.Selectable,
		Reason:          view.Reason,
	}
	if !view.ExpiresAt.IsZero() {
		response.ExpiresAt = view.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return response, nil
}

func (h Handler) SelectSlotHandler(
	ctx context.Context,
	linkToken string,
	req httptransport.SelectSlotRequest,
) (httptransport.GuestViewResponse, error) {
	proposal, err := h.Proposals.SelectSlot(ctx, commands.SelectSlotCommand{
		LinkToken: linkToken,
		Slot: entities.SlotWindow{
			Date:      strings.TrimSpace(req.Slot.Date),
			StartTime: strings.TrimSpace(req.Slot.StartTime),
			EndTime:   strings.TrimSpace(req.Slot.EndTime),
		},
	})
	if err != nil {
		return httptransport.GuestViewResponse{}, err
	}
	response := httptransport.GuestViewResponse{
		Title:           proposal.Title,
		DurationMinutes: proposal.DurationMinutes,
		CandidateSlots:  mapWindowDTOs(proposal.CandidateSlots),
		SelectedSlot:    toSlotDTO(proposal.SelectedSlot),
		Status:          string(proposal.Status),
		ZoomEnabled:     proposal.ZoomEnabled,
	}
	if !proposal.ExpiresAt.IsZero() {
		response.ExpiresAt = proposal.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return response, nil
}

func (h Handler) ApproveProposalHandler(
	ctx context.Context,
	actorPrincipal string,
	proposalID string,
) (httptransport.ProposalResponse, error) {
	proposal, err := h.Proposals.Approve(ctx, commands.DecisionCommand{
		ProposalID:     proposalID,
		ActorPrincipal: actorPrincipal,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return h.toProposalResponse(proposal), nil
}

func (h Handler) DeclineProposalHandler(
	ctx context.Context,
	actorPrincipal string,
	proposalID string,
) (httptransport.ProposalResponse, error) {
	proposal, err := h.Proposals.Decline(ctx, commands.DecisionCommand{
		ProposalID:     proposalID,
		ActorPrincipal: actorPrincipal,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return h.toProposalResponse(proposal), nil
}

func (h Handler) DeleteProposalHandler(
	ctx context.Context,
	actorPrincipal string,
	proposalID string,
) error {
	return h.Proposals.Delete(ctx, commands.DecisionCommand{
		ProposalID:     proposalID,
		ActorPrincipal: actorPrincipal,
	})
}

func (h Handler) toProposalResponse(proposal entities.Proposal) httptransport.ProposalResponse {
	response := httptransport.ProposalResponse{
		ProposalID:       proposal.ProposalID,
		Title:            proposal.Title,
		DurationMinutes:  proposal.DurationMinutes,
		CandidateSlots:   mapWindowDTOs(proposal.CandidateSlots),
		SelectedSlot:     toSlotDTO(proposal.SelectedSlot),
		Status:           string(proposal.Status),
		RequiresApproval: proposal.RequiresApproval,
		ShareURL:         h.Queries.ShareLocator(proposal.LinkToken),
		GuestName:        proposal.GuestName,
		GuestEmail:       proposal.GuestEmail,
		GuestPhone:       proposal.GuestPhone,
		LinkedProjectID:  proposal.LinkedProjectID,
		Notes:            proposal.Notes,
		ZoomEnabled:      proposal.ZoomEnabled,
		CreatedAt:        proposal.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        proposal.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if !proposal.ExpiresAt.IsZero() {
		response.ExpiresAt = proposal.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return response
}

func mapWindows(items []httptransport.SlotWindowDTO) []entities.SlotWindow {
	windows := make([]entities.SlotWindow, 0, len(items))
	for _, item := range items {
		windows = append(windows, entities.SlotWindow{
			Date:      strings.TrimSpace(item.Date),
			StartTime: strings.TrimSpace(item.StartTime),
			EndTime:   strings.TrimSpace(item.EndTime),
		})
	}
	return windows
}

func mapWindowDTOs(items []entities.SlotWindow) []httptransport.SlotWindowDTO {
	windows := make([]httptransport.SlotWindowDTO, 0, len(items))
	for _, item := range items {
		windows = append(windows, httptransport.SlotWindowDTO{
			Date:      item.Date,
			StartTime: item.StartTime,
			EndTime:   item.EndTime,
		})
	}
	return windows
}

func toSlotDTO(slot *entities.SlotWindow) *httptransport.SlotWindowDTO {
	if slot == nil {
		return nil
	}
	return &httptransport.SlotWindowDTO{
		Date:      slot.Date,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
	}
}
