package timelineservice

import (
	"log/slog"

	httpadapter "atelier/contexts/scheduling/timeline-service/adapters/http"
	icaladapter "atelier/contexts/scheduling/timeline-service/adapters/ical"
	"atelier/contexts/scheduling/timeline-service/adapters/memory"
	"atelier/contexts/scheduling/timeline-service/application/queries"
	"atelier/contexts/scheduling/timeline-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Events     ports.ScheduledEventReader
	Tasks      ports.TaskReader
	Journals   ports.JournalReader
	Bookings   ports.BookingReader
	FetchLimit int
	FeedProdID string
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	timeline := queries.TimelineUseCase{
		Events:     deps.Events,
		Tasks:      deps.Tasks,
		Journals:   deps.Journals,
		Bookings:   deps.Bookings,
		FetchLimit: deps.FetchLimit,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Timeline: timeline,
			Exporter: icaladapter.Exporter{ProdID: deps.FeedProdID},
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Events:   store,
		Tasks:    store,
		Journals: store,
		Bookings: store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
