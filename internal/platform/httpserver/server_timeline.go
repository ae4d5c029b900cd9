package httpserver

import (
	"errors"
	"net/http"
	"strings"

	timelineerrors "atelier/contexts/scheduling/timeline-service/domain/errors"
	"atelier/contexts/scheduling/timeline-service/domain/services"
	timelinehttp "atelier/contexts/scheduling/timeline-service/transport/http"
)

func writeTimelineError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, timelinehttp.ErrorResponse{Code: code, Message: message})
}

func writeTimelineDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, timelineerrors.ErrPrincipalMissing):
		writeTimelineError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, timelineerrors.ErrInvalidRange):
		writeTimelineError(w, http.StatusBadRequest, "invalid_range", err.Error())
	case errors.Is(err, timelineerrors.ErrSourceFetch):
		writeTimelineError(w, http.StatusFailedDependency, "source_unavailable", err.Error())
	default:
		writeTimelineError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func resolvePrincipal(r *http.Request) services.Principal {
	return services.Principal{
		ID:   strings.TrimSpace(r.Header.Get("X-User-Id")),
		Role: services.Role(strings.ToLower(strings.TrimSpace(r.Header.Get("X-User-Role")))),
	}
}

func timelineRequestFromQuery(r *http.Request) timelinehttp.TimelineRequest {
	query := r.URL.Query()
	return timelinehttp.TimelineRequest{
		From:       query.Get("from"),
		To:         query.Get("to"),
		Categories: splitCSV(query.Get("categories")),
		Statuses:   splitCSV(query.Get("statuses")),
	}
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	principal := resolvePrincipal(r)
	if !principal.Resolved() {
		writeTimelineDomainError(w, timelineerrors.ErrPrincipalMissing)
		return
	}

	resp, err := s.timeline.Handler.TimelineHandler(r.Context(), principal, timelineRequestFromQuery(r))
	if err != nil {
		writeTimelineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTimelineFeed(w http.ResponseWriter, r *http.Request) {
	principal := resolvePrincipal(r)
	if !principal.Resolved() {
		writeTimelineDomainError(w, timelineerrors.ErrPrincipalMissing)
		return
	}

	feed, err := s.timeline.Handler.FeedHandler(r.Context(), principal, timelineRequestFromQuery(r))
	if err != nil {
		writeTimelineDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(feed))
}

func splitCSV(raw string) []string {
	var values []string
	for _, value := range strings.Split(raw, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}
