package entities

import (
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusPendingSelection Status = "pending_selection"
	StatusPendingApproval  Status = "pending_approval"
	StatusApproved         Status = "approved"
	StatusCancelled        Status = "cancelled"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusCancelled
}

// SlotWindow is one candidate meeting window: a calendar date plus HH:00
// boundaries in the single operating time zone.
type SlotWindow struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (w SlotWindow) Equal(other SlotWindow) bool {
	return w.Date == other.Date && w.StartTime == other.StartTime && w.EndTime == other.EndTime
}

// Overlaps reports whether two windows share any hour on the same day.
func (w SlotWindow) Overlaps(other SlotWindow) bool {
	if w.Date != other.Date {
		return false
	}
	aStart, aEnd, okA := w.hours()
	bStart, bEnd, okB := other.hours()
	if !okA || !okB {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}

func (w SlotWindow) Valid() bool {
	if _, err := time.Parse("2006-01-02", w.Date); err != nil {
		return false
	}
	start, end, ok := w.hours()
	return ok && start < end
}

func (w SlotWindow) hours() (int, int, bool) {
	start, okStart := hourOf(w.StartTime)
	end, okEnd := hourOf(w.EndTime)
	return start, end, okStart && okEnd
}

func hourOf(clock string) (int, bool) {
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

// Proposal is the persisted meeting-slot proposal behind one shareable link.
// The link token is the sole guest-side authorization credential; it grants
// read/select on exactly this record.
type Proposal struct {
	ProposalID       string
	LinkToken        string
	OwnerPrincipal   string
	Title            string
	DurationMinutes  int
	CandidateSlots   []SlotWindow
	SelectedSlot     *SlotWindow
	Status           Status
	RequiresApproval bool
	ExpiresAt        time.Time
	GuestName        string
	GuestEmail       string
	GuestPhone       string
	LinkedProjectID  string
	Notes            string
	ZoomEnabled      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Expired is evaluated lazily at the point of use; a proposal needs no
// background sweep to become inert.
func (p Proposal) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt)
}

// HasCandidate checks membership by structural equality; a selected slot is
// never synthesized independently of the original candidates.
func (p Proposal) HasCandidate(slot SlotWindow) bool {
	for _, candidate := range p.CandidateSlots {
		if candidate.Equal(slot) {
			return true
		}
	}
	return false
}

// OpenLink reports whether the proposal was created without any guest
// contact, i.e. anyone holding the token may select.
func (p Proposal) OpenLink() bool {
	return strings.TrimSpace(p.GuestName) == "" &&
		strings.TrimSpace(p.GuestEmail) == "" &&
		strings.TrimSpace(p.GuestPhone) == ""
}
