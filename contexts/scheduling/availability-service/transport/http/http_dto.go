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

type HourCellItem struct {
	Date       string `json:"date"`
	Hour       int    `json:"hour"`
	IsPast     bool   `json:"is_past"`
	IsBusy     bool   `json:"is_busy"`
	IsSelected bool   `json:"is_selected"`
}

type DayGridResponse struct {
	Date  string         `json:"date"`
	Cells []HourCellItem `json:"cells"`
}

type ProposeSlotRequest struct {
	StartDate string          `json:"start_date"`
	StartHour int             `json:"start_hour"`
	EndDate   string          `json:"end_date,omitempty"`
	EndHour   int             `json:"end_hour"`
	Selected  []SlotWindowDTO `json:"selected,omitempty"`
}

type ProposeSlotResponse struct {
	Slot SlotWindowDTO `json:"slot"`
}
