package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"atelier/contexts/scheduling/availability-service/application/commands"
	"atelier/contexts/scheduling/availability-service/application/queries"
	"atelier/contexts/scheduling/availability-service/domain/entities"
	"atelier/contexts/scheduling/availability-service/ports"
	httptransport "atelier/contexts/scheduling/availability-service/transport/http"
)

type Handler struct {
	Grid        queries.GridUseCase
	Planner     commands.SlotPlanner
	Commitments ports.CommitmentSource
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (h Handler) DayGridHandler(
	ctx context.Context,
	principalID string,
	date string,
	selected []httptransport.SlotWindowDTO,
) (httptransport.DayGridResponse, error) {
	cells, err := h.Grid.DayGrid(ctx, principalID, date, mapWindows(selected))
	if err != nil {
		return httptransport.DayGridResponse{}, err
	}
	items := make([]httptransport.HourCellItem, 0, len(cells))
	for _, cell := range cells {
		items = append(items, httptransport.HourCellItem{
			Date:       cell.Date,
			Hour:       cell.Hour,
			IsPast:     cell.IsPast,
			IsBusy:     cell.IsBusy,
			IsSelected: cell.IsSelected,
		})
	}
	return httptransport.DayGridResponse{Date: strings.TrimSpace(date), Cells: items}, nil
}

func (h Handler) ProposeSlotHandler(
	ctx context.Context,
	principalID string,
	req httptransport.ProposeSlotRequest,
) (httptransport.ProposeSlotResponse, error) {
	commitments, err := h.Commitments.ListCommitments(ctx, strings.TrimSpace(principalID), strings.TrimSpace(req.StartDate))
	if err != nil {
		return httptransport.ProposeSlotResponse{}, err
	}
	window, err := h.Planner.ProposeSlot(
		entities.DragRange{
			StartDate: req.StartDate,
			StartHour: req.StartHour,
			EndDate:   req.EndDate,
			EndHour:   req.EndHour,
		},
		commitments,
		mapWindows(req.Selected),
		h.now(),
	)
	if err != nil {
		return httptransport.ProposeSlotResponse{}, err
	}
	return httptransport.ProposeSlotResponse{
		Slot: httptransport.SlotWindowDTO{
			Date:      window.Date,
			StartTime: window.StartTime,
			EndTime:   window.EndTime,
		},
	}, nil
}

func (h Handler) now() time.Time {
	if h.Clock != nil {
		return h.Clock.Now()
	}
	return time.Now()
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
