package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	availabilityservice "atelier/contexts/scheduling/availability-service"
	"atelier/contexts/scheduling/availability-service/domain/entities"
	domainerrors "atelier/contexts/scheduling/availability-service/domain/errors"
	httptransport "atelier/contexts/scheduling/availability-service/transport/http"
)

func newAvailabilityModule(t *testing.T) availabilityservice.Module {
	t.Helper()
	module := availabilityservice.NewInMemoryModule(nil)
	// Fixed mid-day clock: hours 0-11 on 2026-09-14 are in the past.
	module.Store.SetNow(time.Date(2026, time.September, 14, 12, 0, 0, 0, time.Local))
	module.Store.AddCommitment("owner-1", entities.Commitment{
		SourceID: "evt-1",
		StartsAt: time.Date(2026, time.September, 14, 14, 0, 0, 0, time.Local),
	})
	return module
}

func TestAvailabilityDayGridClassifiesCells(t *testing.T) {
	module := newAvailabilityModule(t)

	grid, err := module.Handler.DayGridHandler(context.Background(), "owner-1", "2026-09-14",
		[]httptransport.SlotWindowDTO{{Date: "2026-09-14", StartTime: "16:00", EndTime: "18:00"}},
	)
	if err != nil {
		t.Fatalf("day grid failed: %v", err)
	}
	if len(grid.Cells) != 24 {
		t.Fatalf("expected 24 hour cells, got %d", len(grid.Cells))
	}

	byHour := make(map[int]httptransport.HourCellItem, len(grid.Cells))
	for _, cell := range grid.Cells {
		byHour[cell.Hour] = cell
	}

	if !byHour[9].IsPast || byHour[9].IsBusy {
		t.Fatalf("expected 09:00 past and free, got %+v", byHour[9])
	}
	if byHour[13].IsPast || byHour[13].IsBusy {
		t.Fatalf("expected 13:00 future and free, got %+v", byHour[13])
	}
	if !byHour[14].IsBusy {
		t.Fatalf("expected 14:00 busy, got %+v", byHour[14])
	}
	if !byHour[16].IsSelected || !byHour[17].IsSelected || byHour[18].IsSelected {
		t.Fatalf("expected 16:00-18:00 selected exclusive of 18:00, got %+v %+v %+v",
			byHour[16], byHour[17], byHour[18])
	}
}

func TestAvailabilityGridRejectsInvalidDate(t *testing.T) {
	module := newAvailabilityModule(t)
	_, err := module.Handler.DayGridHandler(context.Background(), "owner-1", "14-09-2026", nil)
	if err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestAvailabilityDragYieldsInclusiveWindow(t *testing.T) {
	module := newAvailabilityModule(t)

	resp, err := module.Handler.ProposeSlotHandler(context.Background(), "owner-1", httptransport.ProposeSlotRequest{
		StartDate: "2026-09-15",
		StartHour: 9,
		EndHour:   11,
	})
	if err != nil {
		t.Fatalf("propose slot failed: %v", err)
	}
	if resp.Slot.Date != "2026-09-15" || resp.Slot.StartTime != "09:00" || resp.Slot.EndTime != "12:00" {
		t.Fatalf("expected 09:00-12:00 window, got %+v", resp.Slot)
	}
}

func TestAvailabilityDragEndpointsMayArriveReversed(t *testing.T) {
	module := newAvailabilityModule(t)

	resp, err := module.Handler.ProposeSlotHandler(context.Background(), "owner-1", httptransport.ProposeSlotRequest{
		StartDate: "2026-09-15",
		StartHour: 11,
		EndHour:   9,
	})
	if err != nil {
		t.Fatalf("propose slot failed: %v", err)
	}
	if resp.Slot.StartTime != "09:00" || resp.Slot.EndTime != "12:00" {
		t.Fatalf("expected normalized 09:00-12:00 window, got %+v", resp.Slot)
	}
}

func TestAvailabilityDragRefusals(t *testing.T) {
	module := newAvailabilityModule(t)

	_, err := module.Handler.ProposeSlotHandler(context.Background(), "owner-1", httptransport.ProposeSlotRequest{
		StartDate: "2026-09-15",
		StartHour: 22,
		EndDate:   "2026-09-16",
		EndHour:   1,
	})
	if !errors.Is(err, domainerrors.ErrInvalidDragRange) {
		t.Fatalf("expected ErrInvalidDragRange for multi-day drag, got %v", err)
	}

	_, err = module.Handler.ProposeSlotHandler(context.Background(), "owner-1", httptransport.ProposeSlotRequest{
		StartDate: "2026-09-14",
		StartHour: 8,
		EndHour:   9,
	})
	if !errors.Is(err, domainerrors.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable for past cells, got %v", err)
	}

	_, err = module.Handler.ProposeSlotHandler(context.Background(), "owner-1", httptransport.ProposeSlotRequest{
		StartDate: "2026-09-14",
		StartHour: 13,
		EndHour:   15,
	})
	if !errors.Is(err, domainerrors.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable over the busy 14:00 cell, got %v", err)
	}

	_, err = module.Handler.ProposeSlotHandler(context.Background(), "owner-1", httptransport.ProposeSlotRequest{
		StartDate: "2026-09-14",
		StartHour: 16,
		EndHour:   17,
		Selected:  []httptransport.SlotWindowDTO{{Date: "2026-09-14", StartTime: "16:00", EndTime: "18:00"}},
	})
	if !errors.Is(err, domainerrors.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable over an already-selected cell, got %v", err)
	}
}
