package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SlotWindowDTO struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type CreateProposalRequest struct {
	Title           string          `json:"title"`
	DurationMinutes int             `json:"duration_minutes"`
	CandidateSlots  []SlotWindowDTO `json:"candidate_slots"`
	GuestName       string          `json:"guest_name,omitempty"`
	GuestEmail      string          `json:"guest_email,omitempty"`
	GuestPhone      string          `json:"guest_phone,omitempty"`
	LinkedProjectID string          `json:"linked_project_id,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	ZoomEnabled     bool            `json:"zoom_enabled,omitempty"`
	// AutoApprove left unset falls back to the deployment-wide approval
	// default.
	AutoApprove *bool `json:"auto_approve,omitempty"`
}

type SelectSlotRequest struct {
	Slot SlotWindowDTO `json:"slot"`
}

// ProposalResponse is the owner's projection, including the share URL and
// guest contact details.
type ProposalResponse struct {
	ProposalID       string          `json:"proposal_id"`
	Title            string          `json:"title"`
	DurationMinutes  int             `json:"duration_minutes"`
	CandidateSlots   []SlotWindowDTO `json:"candidate_slots"`
	SelectedSlot     *SlotWindowDTO  `json:"selected_slot,omitempty"`
	Status           string          `json:"status"`
	RequiresApproval bool            `json:"requires_approval"`
	ShareURL         string          `json:"share_url"`
	ExpiresAt        string          `json:"expires_at,omitempty"`
	GuestName        string          `json:"guest_name,omitempty"`
	GuestEmail       string          `json:"guest_email,omitempty"`
	GuestPhone       string          `json:"guest_phone,omitempty"`
	LinkedProjectID  string          `json:"linked_project_id,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	ZoomEnabled      bool            `json:"zoom_enabled"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

type ProposalListResponse struct {
	Items []ProposalResponse `json:"items"`
}

// GuestViewResponse is what a token holder sees; owner-only fields never
// appear here.
type GuestViewResponse struct {
	Title           string          `json:"title"`
	DurationMinutes int             `json:"duration_minutes"`
	CandidateSlots  []SlotWindowDTO `json:"candidate_slots"`
	SelectedSlot    *SlotWindowDTO  `json:"selected_slot,omitempty"`
	Status          string          `json:"status"`
	ZoomEnabled     bool            `json:"zoom_enabled"`
	ExpiresAt       string          `json:"expires_at,omitempty"`
	Selectable      bool            `json:"selectable"`
	Reason          string          `json:"reason,omitempty"`
}
