package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "atelier/contexts/scheduling/availability-service/application"
	"atelier/contexts/scheduling/availability-service/domain/entities"
	domainerrors "atelier/contexts/scheduling/availability-service/domain/errors"
	"atelier/contexts/scheduling/availability-service/ports"
)

// Classify labels one hour cell against the clock and existing commitments.
// isPast: the cell's start instant is before now. isBusy: any commitment
// starts within that hour on that calendar day. Collision checking is
// hour-granular, matching the grid interaction model.
func Classify(date string, hour int, commitments []entities.Commitment, now time.Time) (entities.HourCell, error) {
	day, err := time.ParseInLocation(entities.DateLayout, strings.TrimSpace(date), time.Local)
	if err != nil || !entities.ValidHour(hour) {
		return entities.HourCell{}, domainerrors.ErrInvalidDate
	}

	cellStart := day.Add(time.Duration(hour) * time.Hour)
	cell := entities.HourCell{
		Date:   day.Format(entities.DateLayout),
		Hour:   hour,
		IsPast: cellStart.Before(now),
	}
	for _, commitment := range commitments {
		starts := commitment.StartsAt
		if starts.Year() == day.Year() && starts.YearDay() == day.YearDay() && starts.Hour() == hour {
			cell.IsBusy = true
			break
		}
	}
	return cell, nil
}

// GridUseCase renders the full hour grid for a day.
type GridUseCase struct {
	Commitments ports.CommitmentSource
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (uc GridUseCase) DayGrid(
	ctx context.Context,
	principalID string,
	date string,
	selected []entities.SlotWindow,
) ([]entities.HourCell, error) {
	logger := application.ResolveLogger(uc.Logger)
	if _, err := time.ParseInLocation(entities.DateLayout, strings.TrimSpace(date), time.Local); err != nil {
		return nil, domainerrors.ErrInvalidDate
	}
	commitments, err := uc.Commitments.ListCommitments(ctx, strings.TrimSpace(principalID), strings.TrimSpace(date))
	if err != nil {
		logger.Error("availability commitments fetch failed",
			"event", "availability_grid_fetch_failed",
			"module", "scheduling/availability-service",
			"layer", "application",
			"principal_id", principalID,
			"date", date,
			"error", err.Error(),
		)
		return nil, err
	}

	now := uc.now()
	cells := make([]entities.HourCell, 0, 24)
	for hour := 0; hour < 24; hour++ {
		cell, err := Classify(date, hour, commitments, now)
		if err != nil {
			return nil, err
		}
		for _, window := range selected {
			if window.Covers(cell.Date, hour) {
				cell.IsSelected = true
				break
			}
		}
		cells = append(cells, cell)
	}
	return cells, nil
}

func (uc GridUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now()
	}
	return time.Now()
}
