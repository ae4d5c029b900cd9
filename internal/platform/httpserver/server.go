package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	availabilityservice "atelier/contexts/scheduling/availability-service"
	bookingservice "atelier/contexts/scheduling/booking-service"
	timelineservice "atelier/contexts/scheduling/timeline-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "atelier/internal/platform/httpserver/docs"
)

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	addr         string
	opts         Options
	timeline     timelineservice.Module
	availability availabilityservice.Module
	booking      bookingservice.Module
}

// Options carries deployment toggles that change the exposed route set.
type Options struct {
	// EnableTimelineFeed exposes the iCalendar export route.
	EnableTimelineFeed bool
}

func New(
	timeline timelineservice.Module,
	availability availabilityservice.Module,
	booking bookingservice.Module,
	logger *slog.Logger,
	addr string,
	opts Options,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		opts:         opts,
		timeline:     timeline,
		availability: availability,
		booking:      booking,
	}
	s.registerRoutes()
	return s
}

// Handler exposes the routed mux.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/scheduling/v1/timeline", s.handleTimeline)
	if s.opts.EnableTimelineFeed {
		s.mux.HandleFunc("GET /api/scheduling/v1/timeline/ics", s.handleTimelineFeed)
	}

	s.mux.HandleFunc("GET /api/scheduling/v1/availability/{date}", s.handleAvailabilityDay)
	s.mux.HandleFunc("POST /api/scheduling/v1/availability/slots", s.handleAvailabilityProposeSlot)

	s.mux.HandleFunc("POST /api/scheduling/v1/bookings", s.handleBookingCreate)
	s.mux.HandleFunc("GET /api/scheduling/v1/bookings", s.handleBookingList)
	s.mux.HandleFunc("GET /api/scheduling/v1/bookings/{booking_id}", s.handleBookingGet)
	s.mux.HandleFunc("POST /api/scheduling/v1/bookings/{booking_id}/approve", s.handleBookingApprove)
	s.mux.HandleFunc("POST /api/scheduling/v1/bookings/{booking_id}/decline", s.handleBookingDecline)
	s.mux.HandleFunc("DELETE /api/scheduling/v1/bookings/{booking_id}", s.handleBookingDelete)

	s.mux.HandleFunc("GET /api/scheduling/v1/share/{token}", s.handleShareResolve)
	s.mux.HandleFunc("POST /api/scheduling/v1/share/{token}/select", s.handleShareSelect)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
