package bookingservice

import (
	"log/slog"
	"time"

	httpadapter "atelier/contexts/scheduling/booking-service/adapters/http"
	"atelier/contexts/scheduling/booking-service/adapters/memory"
	"atelier/contexts/scheduling/booking-service/application/commands"
	"atelier/contexts/scheduling/booking-service/application/queries"
	"atelier/contexts/scheduling/booking-service/application/workers"
	"atelier/contexts/scheduling/booking-service/ports"
)

type Module struct {
	Handler     httpadapter.Handler
	Proposals   commands.ProposalUseCase
	Queries     queries.ProposalQueryUseCase
	OutboxRelay workers.OutboxRelay
	Store       *memory.Store
}

type Dependencies struct {
	Repository   ports.ProposalRepository
	Outbox       ports.OutboxWriter
	OutboxReader ports.OutboxRepository
	Publisher    ports.EventPublisher
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Tokens       ports.TokenGenerator
	ShareBaseURL string
	LinkTTL      time.Duration
	// AutoApproveDefault flips the deployment-wide approval gate for create
	// requests that leave auto_approve unset.
	AutoApproveDefault bool
	Logger             *slog.Logger
}

func NewModule(deps Dependencies) Module {
	proposals := commands.ProposalUseCase{
		Proposals: deps.Repository,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Tokens:    deps.Tokens,
		LinkTTL:   deps.LinkTTL,
		Logger:    deps.Logger,
	}
	proposalQueries := queries.ProposalQueryUseCase{
		Proposals:    deps.Repository,
		Clock:        deps.Clock,
		ShareBaseURL: deps.ShareBaseURL,
		Logger:       deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Proposals:          proposals,
			Queries:            proposalQueries,
			AutoApproveDefault: deps.AutoApproveDefault,
			Logger:             deps.Logger,
		},
		Proposals: proposals,
		Queries:   proposalQueries,
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.OutboxReader,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore(nil)
	module := NewModule(Dependencies{
		Repository:   store,
		Outbox:       store,
		OutboxReader: store,
		Publisher:    publisher,
		Clock:        store,
		IDGen:        store,
		Tokens:       store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
