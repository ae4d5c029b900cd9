package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	icaladapter "atelier/contexts/scheduling/timeline-service/adapters/ical"
	"atelier/contexts/scheduling/timeline-service/application/queries"
	"atelier/contexts/scheduling/timeline-service/domain/entities"
	domainerrors "atelier/contexts/scheduling/timeline-service/domain/errors"
	"atelier/contexts/scheduling/timeline-service/domain/services"
	httptransport "atelier/contexts/scheduling/timeline-service/transport/http"
)

const dateLayout = "2006-01-02"

type Handler struct {
	Timeline queries.TimelineUseCase
	Exporter icaladapter.Exporter
	Logger   *slog.Logger
}

func (h Handler) TimelineHandler(
	ctx context.Context,
	principal services.Principal,
	req httptransport.TimelineRequest,
) (httptransport.TimelineResponse, error) {
	view, err := buildView(req)
	if err != nil {
		return httptransport.TimelineResponse{}, err
	}
	events, err := h.Timeline.Query(ctx, principal, view)
	if err != nil {
		return httptransport.TimelineResponse{}, err
	}
	return httptransport.TimelineResponse{
		From:   view.From.Format(dateLayout),
		To:     view.To.Format(dateLayout),
		Events: mapEvents(events),
	}, nil
}

// FeedHandler renders the same window as an iCalendar document.
func (h Handler) FeedHandler(
	ctx context.Context,
	principal services.Principal,
	req httptransport.TimelineRequest,
) (string, error) {
	view, err := buildView(req)
	if err != nil {
		return "", err
	}
	events, err := h.Timeline.Query(ctx, principal, view)
	if err != nil {
		return "", err
	}
	return h.Exporter.Feed(events, time.Now().UTC()), nil
}

func buildView(req httptransport.TimelineRequest) (queries.ViewQuery, error) {
	from, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.From), time.Local)
	if err != nil {
		return queries.ViewQuery{}, domainerrors.ErrInvalidRange
	}
	to, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.To), time.Local)
	if err != nil {
		return queries.ViewQuery{}, domainerrors.ErrInvalidRange
	}

	view := queries.ViewQuery{From: from, To: to}
	if len(req.Categories) > 0 {
		view.Categories = make(map[entities.Category]bool, len(req.Categories))
		for _, category := range req.Categories {
			view.Categories[entities.Category(strings.ToLower(strings.TrimSpace(category)))] = true
		}
	}
	if len(req.Statuses) > 0 {
		view.Statuses = make(map[entities.LifecycleStatus]bool, len(req.Statuses))
		for _, status := range req.Statuses {
			toggle := entities.LifecycleStatus(strings.ToLower(strings.TrimSpace(status)))
			view.Statuses[toggle.Normalized()] = true
		}
	}
	return view, nil
}

func mapEvents(events []entities.TimelineEvent) []httptransport.TimelineEventItem {
	items := make([]httptransport.TimelineEventItem, 0, len(events))
	for _, event := range events {
		item := httptransport.TimelineEventItem{
			ID:              event.ID,
			SourceKind:      string(event.SourceKind),
			SourceID:        event.SourceID,
			Title:           event.Title,
			Description:     event.Description,
			OccursOn:        event.OccursOn.Format(dateLayout),
			Category:        string(event.Category),
			LifecycleStatus: string(event.LifecycleStatus),
		}
		if event.StartsAt != nil {
			item.StartsAt = event.StartsAt.Format(time.RFC3339)
		}
		if event.EndsAt != nil {
			item.EndsAt = event.EndsAt.Format(time.RFC3339)
		}
		items = append(items, item)
	}
	return items
}
