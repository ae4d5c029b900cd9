package commands

import (
	"log/slog"
	"strings"
	"time"

	application "atelier/contexts/scheduling/availability-service/application"
	availqueries "atelier/contexts/scheduling/availability-service/application/queries"
	"atelier/contexts/scheduling/availability-service/domain/entities"
	domainerrors "atelier/contexts/scheduling/availability-service/domain/errors"
)

// SlotPlanner normalizes interactive drag gestures into candidate slot
// windows. It is pure over its inputs; commitments and already-selected
// windows are supplied by the caller.
type SlotPlanner struct {
	Logger *slog.Logger
}

// ProposeSlot orders the drag's hour endpoints, converts the exclusive end
// hour to an inclusive boundary by adding one hour, and checks every covered
// cell. A drag must stay within one calendar day; a gesture over a past, busy,
// or already-selected cell is refused outright, never clamped to the nearest
// free range.
func (p SlotPlanner) ProposeSlot(
	drag entities.DragRange,
	commitments []entities.Commitment,
	selected []entities.SlotWindow,
	now time.Time,
) (entities.SlotWindow, error) {
	logger := application.ResolveLogger(p.Logger)

	startDate := strings.TrimSpace(drag.StartDate)
	endDate := strings.TrimSpace(drag.EndDate)
	if endDate == "" {
		endDate = startDate
	}
	if startDate == "" || startDate != endDate {
		logger.Warn("slot proposal rejected",
			"event", "availability_propose_rejected",
			"module", "scheduling/availability-service",
			"layer", "application",
			"reason", "multi_day_drag",
			"start_date", startDate,
			"end_date", endDate,
		)
		return entities.SlotWindow{}, domainerrors.ErrInvalidDragRange
	}
	if !entities.ValidHour(drag.StartHour) || !entities.ValidHour(drag.EndHour) {
		return entities.SlotWindow{}, domainerrors.ErrInvalidDragRange
	}

	startHour := drag.StartHour
	endHour := drag.EndHour
	if endHour < startHour {
		startHour, endHour = endHour, startHour
	}
	// Inclusive end boundary: dragging 9 through 11 covers three cells and
	// yields 09:00-12:00.
	endHour++

	for hour := startHour; hour < endHour; hour++ {
		cell, err := availqueries.Classify(startDate, hour, commitments, now)
		if err != nil {
			return entities.SlotWindow{}, domainerrors.ErrInvalidDragRange
		}
		if cell.IsPast || cell.IsBusy {
			return entities.SlotWindow{}, domainerrors.ErrSlotUnavailable
		}
		for _, window := range selected {
			if window.Covers(cell.Date, hour) {
				return entities.SlotWindow{}, domainerrors.ErrSlotUnavailable
			}
		}
	}

	window := entities.SlotWindow{
		Date:      startDate,
		StartTime: entities.FormatHour(startHour),
		EndTime:   entities.FormatHour(endHour),
	}
	logger.Info("slot proposed",
		"event", "availability_slot_proposed",
		"module", "scheduling/availability-service",
		"layer", "application",
		"date", window.Date,
		"start_time", window.StartTime,
		"end_time", window.EndTime,
	)
	return window, nil
}
