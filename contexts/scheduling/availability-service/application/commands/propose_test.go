package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier/contexts/scheduling/availability-service/domain/entities"
	domainerrors "atelier/contexts/scheduling/availability-service/domain/errors"
)

var planner = SlotPlanner{}

func plannerNow() time.Time {
	return time.Date(2026, time.September, 14, 12, 0, 0, 0, time.Local)
}

func TestProposeSlotInclusiveEndBoundary(t *testing.T) {
	window, err := planner.ProposeSlot(
		entities.DragRange{StartDate: "2026-09-15", StartHour: 9, EndHour: 11},
		nil, nil, plannerNow(),
	)
	require.NoError(t, err)
	assert.Equal(t, entities.SlotWindow{Date: "2026-09-15", StartTime: "09:00", EndTime: "12:00"}, window)
}

func TestProposeSlotSingleCellDrag(t *testing.T) {
	window, err := planner.ProposeSlot(
		entities.DragRange{StartDate: "2026-09-15", StartHour: 14, EndHour: 14},
		nil, nil, plannerNow(),
	)
	require.NoError(t, err)
	assert.Equal(t, "14:00", window.StartTime)
	assert.Equal(t, "15:00", window.EndTime)
}

func TestProposeSlotNormalizesReversedEndpoints(t *testing.T) {
	window, err := planner.ProposeSlot(
		entities.DragRange{StartDate: "2026-09-15", StartHour: 11, EndHour: 9},
		nil, nil, plannerNow(),
	)
	require.NoError(t, err)
	assert.Equal(t, "09:00", window.StartTime)
	assert.Equal(t, "12:00", window.EndTime)
}

func TestProposeSlotRejectsMultiDayDrag(t *testing.T) {
	_, err := planner.ProposeSlot(
		entities.DragRange{StartDate: "2026-09-15", StartHour: 22, EndDate: "2026-09-16", EndHour: 1},
		nil, nil, plannerNow(),
	)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidDragRange)
}

func TestProposeSlotRejectsPastCells(t *testing.T) {
	_, err := planner.ProposeSlot(
		entities.DragRange{StartDate: "2026-09-14", StartHour: 8, EndHour: 9},
		nil, nil, plannerNow(),
	)
	assert.ErrorIs(t, err, domainerrors.ErrSlotUnavailable)
}

func TestProposeSlotRejectsBusyCells(t *testing.T) {
	commitments := []entities.Commitment{{
		SourceID: "evt-1",
		StartsAt: time.Date(2026, time.September, 14, 15, 0, 0, 0, time.Local),
	}}
	_, err := planner.ProposeSlot(
		entities.DragRange{StartDate: "2026-09-14", StartHour: 14, EndHour: 15},
		commitments, nil, plannerNow(),
	)
	assert.ErrorIs(t, err, domainerrors.ErrSlotUnavailable)
}

func TestProposeSlotRejectsAlreadySelectedCells(t *testing.T) {
	selected := []entities.SlotWindow{{Date: "2026-09-14", StartTime: "16:00", EndTime: "18:00"}}
	_, err := planner.ProposeSlot(
		entities.DragRange{StartDate: "2026-09-14", StartHour: 17, EndHour: 19},
		nil, selected, plannerNow(),
	)
	assert.ErrorIs(t, err, domainerrors.ErrSlotUnavailable)

	// Adjacent to the selection is fine: 18:00 is the exclusive boundary.
	window, err := planner.ProposeSlot(
		entities.DragRange{StartDate: "2026-09-14", StartHour: 18, EndHour: 19},
		nil, selected, plannerNow(),
	)
	require.NoError(t, err)
	assert.Equal(t, "18:00", window.StartTime)
}

func TestProposeSlotRejectsOutOfRangeHours(t *testing.T) {
	_, err := planner.ProposeSlot(
		entities.DragRange{StartDate: "2026-09-15", StartHour: -1, EndHour: 5},
		nil, nil, plannerNow(),
	)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidDragRange)

	_, err = planner.ProposeSlot(
		entities.DragRange{StartDate: "2026-09-15", StartHour: 9, EndHour: 24},
		nil, nil, plannerNow(),
	)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidDragRange)
}
