package entities

import "time"

type SourceKind string

const (
	SourceScheduledEvent SourceKind = "scheduled_event"
	SourceTask           SourceKind = "task"
	SourceJournalEntry   SourceKind = "journal_entry"
	SourceMeetingBooking SourceKind = "meeting_booking"
)

type Category string

const (
	CategoryMeeting  Category = "meeting"
	CategoryDeadline Category = "deadline"
	CategoryTask     Category = "task"
	CategoryJournal  Category = "journal"
	CategoryOther    Category = "other"
)

type LifecycleStatus string

const (
	StatusApproved        LifecycleStatus = "approved"
	StatusPending         LifecycleStatus = "pending"
	StatusPendingApproval LifecycleStatus = "pending_approval"
	StatusCancelled       LifecycleStatus = "cancelled"
)

// Normalized folds pending_approval into the pending filter bucket. The UI
// exposes a single "pending" toggle; pending_approval is rendered distinctly
// but toggled together with pending.
func (s LifecycleStatus) Normalized() LifecycleStatus {
	if s == StatusPendingApproval {
		return StatusPending
	}
	return s
}

// TimelineEvent is the canonical read-only projection of any schedulable
// record. It is derived on every query and never persisted; each instance
// traces back to exactly one source record via SourceKind + SourceID.
type TimelineEvent struct {
	ID              string
	SourceKind      SourceKind
	SourceID        string
	Title           string
	Description     string
	OccursOn        time.Time
	StartsAt        *time.Time
	EndsAt          *time.Time
	Category        Category
	LifecycleStatus LifecycleStatus
	OwnerPrincipal  string
}
