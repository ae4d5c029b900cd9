package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	bookingerrors "atelier/contexts/scheduling/booking-service/domain/errors"
	bookinghttp "atelier/contexts/scheduling/booking-service/transport/http"
)

func writeBookingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, bookinghttp.ErrorResponse{Code: code, Message: message})
}

// Guest-facing outcomes stay distinguishable: a dead token is 404, an expired
// link is 410, and a link consumed by another guest is 409.
func writeBookingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bookingerrors.ErrProposalNotFound):
		writeBookingError(w, http.StatusNotFound, "proposal_not_found", err.Error())
	case errors.Is(err, bookingerrors.ErrProposalExpired):
		writeBookingError(w, http.StatusGone, "link_expired", err.Error())
	case errors.Is(err, bookingerrors.ErrProposalNotSelectable):
		writeBookingError(w, http.StatusConflict, "not_selectable", err.Error())
	case errors.Is(err, bookingerrors.ErrSlotUnavailable):
		writeBookingError(w, http.StatusConflict, "slot_unavailable", err.Error())
	case errors.Is(err, bookingerrors.ErrNotAwaitingApproval):
		writeBookingError(w, http.StatusConflict, "not_awaiting_approval", err.Error())
	case errors.Is(err, bookingerrors.ErrInvalidProposalInput):
		writeBookingError(w, http.StatusBadRequest, "invalid_proposal", err.Error())
	case errors.Is(err, bookingerrors.ErrScopeViolation):
		writeBookingError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, bookingerrors.ErrConflict):
		writeBookingError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeBookingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireBookingUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeBookingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func (s *Server) handleBookingCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireBookingUser(w, r)
	if !ok {
		return
	}

	var req bookinghttp.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBookingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.booking.Handler.CreateProposalHandler(r.Context(), userID, req)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleBookingList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireBookingUser(w, r)
	if !ok {
		return
	}

	resp, err := s.booking.Handler.ListProposalsHandler(r.Context(), userID)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBookingGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireBookingUser(w, r)
	if !ok {
		return
	}

	resp, err := s.booking.Handler.GetProposalHandler(r.Context(), userID, r.PathValue("booking_id"))
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBookingApprove(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireBookingUser(w, r)
	if !ok {
		return
	}

	resp, err := s.booking.Handler.ApproveProposalHandler(r.Context(), userID, r.PathValue("booking_id"))
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBookingDecline(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireBookingUser(w, r)
	if !ok {
		return
	}

	resp, err := s.booking.Handler.DeclineProposalHandler(r.Context(), userID, r.PathValue("booking_id"))
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBookingDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireBookingUser(w, r)
	if !ok {
		return
	}

	if err := s.booking.Handler.DeleteProposalHandler(r.Context(), userID, r.PathValue("booking_id")); err != nil {
		writeBookingDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleShareResolve(w http.ResponseWriter, r *http.Request) {
	resp, err := s.booking.Handler.ResolveLinkHandler(r.Context(), r.PathValue("token"))
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleShareSelect(w http.ResponseWriter, r *http.Request) {
	var req bookinghttp.SelectSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBookingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.booking.Handler.SelectSlotHandler(r.Context(), r.PathValue("token"), req)
	if err != nil {
		writeBookingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
