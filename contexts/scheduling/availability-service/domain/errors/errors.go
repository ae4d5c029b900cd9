package errors

import "errors"

var (
	ErrInvalidDragRange = errors.New("drag range spans multiple days or covers no cells")
	ErrInvalidDate      = errors.New("availability date is invalid")
	ErrSlotUnavailable  = errors.New("requested slot overlaps a past, busy, or already-selected cell")
)
