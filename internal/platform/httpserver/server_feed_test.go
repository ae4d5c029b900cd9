package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	availabilityservice "atelier/contexts/scheduling/availability-service"
	bookingservice "atelier/contexts/scheduling/booking-service"
	timelineservice "atelier/contexts/scheduling/timeline-service"
)

func newTestServer(opts Options) *Server {
	return New(
		timelineservice.NewInMemoryModule(nil),
		availabilityservice.NewInMemoryModule(nil),
		bookingservice.NewInMemoryModule(nil, nil),
		nil,
		"",
		opts,
	)
}

func feedRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/scheduling/v1/timeline/ics?from=2026-09-14&to=2026-09-14", nil)
	req.Header.Set("X-User-Id", "owner-1")
	req.Header.Set("X-User-Role", "standard")
	return req
}

func TestTimelineFeedRouteHonorsToggle(t *testing.T) {
	enabled := newTestServer(Options{EnableTimelineFeed: true})
	rec := httptest.NewRecorder()
	enabled.Handler().ServeHTTP(rec, feedRequest())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from enabled feed, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "BEGIN:VCALENDAR") {
		t.Fatalf("expected an iCalendar body, got %q", rec.Body.String())
	}

	disabled := newTestServer(Options{})
	rec = httptest.NewRecorder()
	disabled.Handler().ServeHTTP(rec, feedRequest())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from disabled feed, got %d", rec.Code)
	}
}
