package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TimelineRequest struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Categories []string `json:"categories,omitempty"`
	Statuses   []string `json:"statuses,omitempty"`
}

type TimelineEventItem struct {
	ID              string `json:"id"`
	SourceKind      string `json:"source_kind"`
	SourceID        string `json:"source_id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	OccursOn        string `json:"occurs_on"`
	StartsAt        string `json:"starts_at,omitempty"`
	EndsAt          string `json:"ends_at,omitempty"`
	Category        string `json:"category"`
	LifecycleStatus string `json:"lifecycle_status"`
}

type TimelineResponse struct {
	From   string              `json:"from"`
	To     string              `json:"to"`
	Events []TimelineEventItem `json:"events"`
}
