package entities

import "time"

// Source record shapes as returned by the record store adapter. The timeline
// service only reads these; their mutation belongs to the surrounding CRUD
// layer.

type ScheduledEvent struct {
	EventID        string
	Title          string
	Description    string
	EventType      string
	Status         string
	OccursOn       time.Time
	StartsAt       *time.Time
	EndsAt         *time.Time
	OwnerPrincipal string
	CreatedAt      time.Time
}

type TaskRecord struct {
	TaskID         string
	Title          string
	Description    string
	DueOn          *time.Time
	Completed      bool
	OwnerPrincipal string
	CreatedAt      time.Time
}

type JournalEntry struct {
	EntryID        string
	Title          string
	Body           string
	EntryDate      *time.Time
	OwnerPrincipal string
	CreatedAt      time.Time
}

// BookingProjection mirrors the booking service's confirmed-or-awaiting
// proposals. Selected slot fields use the wire formats of the booking link
// flow ("2006-01-02" dates, "15:04" times).
type BookingProjection struct {
	BookingID      string
	Title          string
	Status         string
	SelectedDate   string
	SelectedStart  string
	SelectedEnd    string
	OwnerPrincipal string
	CreatedAt      time.Time
}
