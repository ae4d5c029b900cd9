package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	availabilityservice "atelier/contexts/scheduling/availability-service"
	availabilityentities "atelier/contexts/scheduling/availability-service/domain/entities"
	availabilityports "atelier/contexts/scheduling/availability-service/ports"
	bookingservice "atelier/contexts/scheduling/booking-service"
	bookingpostgres "atelier/contexts/scheduling/booking-service/adapters/postgres"
	bookingports "atelier/contexts/scheduling/booking-service/ports"
	bookingworkers "atelier/contexts/scheduling/booking-service/application/workers"
	timelineservice "atelier/contexts/scheduling/timeline-service"
	timelinememory "atelier/contexts/scheduling/timeline-service/adapters/memory"
	timelineentities "atelier/contexts/scheduling/timeline-service/domain/entities"
	timelineports "atelier/contexts/scheduling/timeline-service/ports"
	"atelier/internal/platform/config"
	"atelier/internal/platform/db"
	"atelier/internal/platform/httpserver"
	"atelier/internal/platform/messaging"
	"atelier/internal/platform/notify"

	"github.com/robfig/cron/v3"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	outboxRelay   bookingworkers.OutboxRelay
	notifications bookingworkers.NotificationConsumer
	relaySchedule string
	enableNotify  bool
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, logger)
	if err != nil {
		return nil, err
	}
	if err := bookingpostgres.AutoMigrate(pg.DB); err != nil {
		return nil, err
	}

	repo := bookingpostgres.NewRepository(pg.DB, logger)
	booking := bookingservice.NewModule(bookingservice.Dependencies{
		Repository:         repo,
		Outbox:             repo,
		OutboxReader:       repo,
		Clock:              bookingpostgres.SystemClock{},
		IDGen:              bookingpostgres.UUIDGenerator{},
		Tokens:             bookingpostgres.CryptoTokenGenerator{},
		ShareBaseURL:       cfg.ShareLinkBaseURL,
		LinkTTL:            time.Duration(cfg.LinkTTLDays) * 24 * time.Hour,
		AutoApproveDefault: !cfg.RequireApprovalDefault,
		Logger:             logger,
	})

	// Scheduled events, tasks, and journal entries are owned by the studio
	// CRUD layer outside this subsystem; the timeline reads them through a
	// record store adapter. Meeting bookings bridge straight from the booking
	// repository so confirmed slots appear without a projection pipeline.
	recordStore := timelinememory.NewStore()
	timeline := timelineservice.NewModule(timelineservice.Dependencies{
		Events:     recordStore,
		Tasks:      recordStore,
		Journals:   recordStore,
		Bookings:   bookingProjectionSource{proposals: repo},
		FetchLimit: cfg.TimelineFetchLimit,
		FeedProdID: cfg.TimelineFeedProdID,
		Logger:     logger,
	})

	// Booked meeting slots must block their hour cells, so the availability
	// module reads commitments straight off the booking repository.
	availability := availabilityservice.NewModule(availabilityservice.Dependencies{
		Commitments: bookingCommitmentSource{proposals: repo, limit: cfg.TimelineFetchLimit},
		Clock:       bookingpostgres.SystemClock{},
		Logger:      logger,
	})

	server := httpserver.New(timeline, availability, booking, logger, normalizeAddr(cfg.HTTPPort), httpserver.Options{
		EnableTimelineFeed: cfg.EnableTimelineFeed,
	})
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, logger)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := bookingpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: bookingworkers.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     bookingpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		notifications: bookingworkers.NotificationConsumer{
			Subscriber:   kafka,
			Notifier:     notify.LogNotifier{Logger: logger},
			ShareBaseURL: cfg.ShareLinkBaseURL,
			Logger:       logger,
		},
		relaySchedule: cfg.OutboxRelayCron,
		enableNotify:  cfg.EnableBookingNotifications,
		logger:        logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.enableNotify {
		if err := w.notifications.Start(ctx); err != nil {
			return err
		}
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(w.relaySchedule, func() {
		if err := w.outboxRelay.RunOnce(ctx); err != nil && w.logger != nil {
			w.logger.Error("outbox relay run failed",
				"event", "bootstrap_outbox_relay_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
	}); err != nil {
		return err
	}
	scheduler.Start()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"relay_schedule", w.relaySchedule,
		"notifications_enabled", w.enableNotify,
	)

	<-ctx.Done()
	stopped := scheduler.Stop()
	<-stopped.Done()
	return nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// bookingProjectionSource adapts the booking repository to the timeline's
// booking reader port. Cross-service types never cross directly; the bridge
// lives here in the composition root.
type bookingProjectionSource struct {
	proposals bookingports.ProposalRepository
}

func (s bookingProjectionSource) ListMeetingBookings(
	ctx context.Context,
	limit int,
) ([]timelineentities.BookingProjection, error) {
	proposals, err := s.proposals.ListRecentProposals(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := make([]timelineentities.BookingProjection, 0, len(proposals))
	for _, proposal := range proposals {
		projection := timelineentities.BookingProjection{
			BookingID:      proposal.ProposalID,
			Title:          proposal.Title,
			Status:         string(proposal.Status),
			OwnerPrincipal: proposal.OwnerPrincipal,
			CreatedAt:      proposal.CreatedAt,
		}
		if proposal.SelectedSlot != nil {
			projection.SelectedDate = proposal.SelectedSlot.Date
			projection.SelectedStart = proposal.SelectedSlot.StartTime
			projection.SelectedEnd = proposal.SelectedSlot.EndTime
		}
		items = append(items, projection)
	}
	return items, nil
}

var _ timelineports.BookingReader = bookingProjectionSource{}

// bookingCommitmentSource adapts the booking repository to the availability
// commitment port. A proposal holding a selected slot occupies every hour the
// slot covers; only the owner's own bookings count against their grid.
type bookingCommitmentSource struct {
	proposals bookingports.ProposalRepository
	limit     int
}

func (s bookingCommitmentSource) ListCommitments(
	ctx context.Context,
	principalID string,
	date string,
) ([]availabilityentities.Commitment, error) {
	day, err := time.ParseInLocation(availabilityentities.DateLayout, strings.TrimSpace(date), time.Local)
	if err != nil {
		return nil, err
	}
	proposals, err := s.proposals.ListRecentProposals(ctx, s.limit)
	if err != nil {
		return nil, err
	}
	var commitments []availabilityentities.Commitment
	for _, proposal := range proposals {
		if proposal.SelectedSlot == nil {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(proposal.OwnerPrincipal), strings.TrimSpace(principalID)) {
			continue
		}
		window := availabilityentities.SlotWindow{
			Date:      proposal.SelectedSlot.Date,
			StartTime: proposal.SelectedSlot.StartTime,
			EndTime:   proposal.SelectedSlot.EndTime,
		}
		if window.Date != day.Format(availabilityentities.DateLayout) {
			continue
		}
		start, end, ok := window.Hours()
		if !ok {
			continue
		}
		for hour := start; hour < end; hour++ {
			commitments = append(commitments, availabilityentities.Commitment{
				SourceID: proposal.ProposalID,
				StartsAt: day.Add(time.Duration(hour) * time.Hour),
			})
		}
	}
	return commitments, nil
}

var _ availabilityports.CommitmentSource = bookingCommitmentSource{}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
