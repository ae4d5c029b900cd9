package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	availabilityerrors "atelier/contexts/scheduling/availability-service/domain/errors"
	availabilityhttp "atelier/contexts/scheduling/availability-service/transport/http"
)

func writeAvailabilityError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, availabilityhttp.ErrorResponse{Code: code, Message: message})
}

func writeAvailabilityDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, availabilityerrors.ErrInvalidDate):
		writeAvailabilityError(w, http.StatusBadRequest, "invalid_date", err.Error())
	case errors.Is(err, availabilityerrors.ErrInvalidDragRange):
		writeAvailabilityError(w, http.StatusUnprocessableEntity, "invalid_drag_range", err.Error())
	case errors.Is(err, availabilityerrors.ErrSlotUnavailable):
		writeAvailabilityError(w, http.StatusConflict, "slot_unavailable", err.Error())
	default:
		writeAvailabilityError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleAvailabilityDay(w http.ResponseWriter, r *http.Request) {
	principalID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if principalID == "" {
		writeAvailabilityError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.availability.Handler.DayGridHandler(r.Context(), principalID, r.PathValue("date"), nil)
	if err != nil {
		writeAvailabilityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAvailabilityProposeSlot(w http.ResponseWriter, r *http.Request) {
	principalID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if principalID == "" {
		writeAvailabilityError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req availabilityhttp.ProposeSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAvailabilityError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.availability.Handler.ProposeSlotHandler(r.Context(), principalID, req)
	if err != nil {
		writeAvailabilityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
