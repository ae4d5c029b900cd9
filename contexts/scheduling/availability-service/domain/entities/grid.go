package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Commitment is an existing timeline entry's start instant, the only detail
// the hour-grid collision check needs.
type Commitment struct {
	SourceID string
	StartsAt time.Time
}

// HourCell is one cell of the day's hour grid.
type HourCell struct {
	Date       string
	Hour       int
	IsPast     bool
	IsBusy     bool
	IsSelected bool
}

// SlotWindow is one candidate meeting window in the booking wire format:
// a calendar date plus inclusive HH:00 boundaries.
type SlotWindow struct {
	Date      string
	StartTime string
	EndTime   string
}

// Hours returns the half-open hour range [start, end) covered by the window.
func (w SlotWindow) Hours() (int, int, bool) {
	start, okStart := parseHour(w.StartTime)
	end, okEnd := parseHour(w.EndTime)
	if !okStart || !okEnd || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

func (w SlotWindow) Covers(date string, hour int) bool {
	if w.Date != date {
		return false
	}
	start, end, ok := w.Hours()
	if !ok {
		return false
	}
	return hour >= start && hour < end
}

// DragRange captures a raw interactive drag gesture before normalization.
// Start and end may arrive in either order.
type DragRange struct {
	StartDate string
	StartHour int
	EndDate   string
	EndHour   int
}

func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

func ValidHour(hour int) bool {
	return hour >= 0 && hour <= 23
}

func parseHour(clock string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) == 0 || parts[0] == "" {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 24 {
		return 0, false
	}
	return hour, true
}
