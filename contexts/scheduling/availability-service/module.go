package availabilityservice

import (
	"log/slog"

	httpadapter "atelier/contexts/scheduling/availability-service/adapters/http"
	"atelier/contexts/scheduling/availability-service/adapters/memory"
	"atelier/contexts/scheduling/availability-service/application/commands"
	"atelier/contexts/scheduling/availability-service/application/queries"
	"atelier/contexts/scheduling/availability-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Commitments ports.CommitmentSource
	Clock       ports.Clock
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Grid: queries.GridUseCase{
				Commitments: deps.Commitments,
				Clock:       deps.Clock,
				Logger:      deps.Logger,
			},
			Planner:     commands.SlotPlanner{Logger: deps.Logger},
			Commitments: deps.Commitments,
			Clock:       deps.Clock,
			Logger:      deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Commitments: store,
		Clock:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
