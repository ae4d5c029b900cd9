package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	application "atelier/contexts/scheduling/booking-service/application"
	"atelier/contexts/scheduling/booking-service/ports"
)

// NotificationConsumer turns booking lifecycle events into outbound guest
// notifications. Dispatch failures are degraded to warnings: the booking
// state transition already happened and must never be rolled back by a
// delivery problem.
type NotificationConsumer struct {
	Subscriber    ports.EventSubscriber
	Notifier      ports.Notifier
	ShareBaseURL  string
	ConsumerGroup string
	Logger        *slog.Logger
}

type bookingEventData struct {
	ProposalID        string `json:"proposal_id"`
	Title             string `json:"title"`
	Status            string `json:"status"`
	LinkToken         string `json:"link_token"`
	GuestName         string `json:"guest_name"`
	GuestEmail        string `json:"guest_email"`
	GuestPhone        string `json:"guest_phone"`
	SelectedDate      string `json:"selected_date"`
	SelectedStartTime string `json:"selected_start_time"`
	SelectedEndTime   string `json:"selected_end_time"`
}

func (c NotificationConsumer) Start(ctx context.Context) error {
	group := c.ConsumerGroup
	if group == "" {
		group = "booking-notifications-cg"
	}
	for _, topic := range []string{"booking.created", "booking.approved", "booking.declined"} {
		if err := c.Subscriber.Subscribe(ctx, topic, group, c.handle); err != nil {
			return err
		}
	}
	return nil
}

func (c NotificationConsumer) handle(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)

	var data bookingEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		logger.Warn("booking notification payload undecodable",
			"event", "booking_notify_decode_failed",
			"module", "scheduling/booking-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return nil
	}

	notification, ok := c.render(event.EventType, data)
	if !ok {
		return nil
	}
	if err := c.Notifier.Dispatch(ctx, notification); err != nil {
		// Non-fatal by contract: surface as a warning and move on.
		logger.Warn("booking notification dispatch failed",
			"event", "booking_notify_dispatch_failed",
			"module", "scheduling/booking-service",
			"layer", "worker",
			"proposal_id", data.ProposalID,
			"channel", string(notification.Channel),
			"error", err.Error(),
		)
		return nil
	}

	logger.Info("booking notification dispatched",
		"event", "booking_notify_dispatched",
		"module", "scheduling/booking-service",
		"layer", "worker",
		"proposal_id", data.ProposalID,
		"event_type", event.EventType,
		"channel", string(notification.Channel),
	)
	return nil
}

func (c NotificationConsumer) render(eventType string, data bookingEventData) (ports.Notification, bool) {
	channel, destination, ok := resolveChannel(data)
	if !ok {
		// Open links carry no guest contact; nothing to deliver.
		return ports.Notification{}, false
	}

	greeting := "Hello"
	if strings.TrimSpace(data.GuestName) != "" {
		greeting = "Hello " + strings.TrimSpace(data.GuestName)
	}

	switch eventType {
	case "booking.created":
		locator := strings.TrimRight(strings.TrimSpace(c.ShareBaseURL), "/") + "/share/book?token=" + data.LinkToken
		return ports.Notification{
			Channel:     channel,
			Destination: destination,
			Subject:     fmt.Sprintf("Pick a time: %s", data.Title),
			Body: fmt.Sprintf("%s,\n\nyou have been invited to schedule \"%s\". Choose a time that works for you:\n%s\n",
				greeting, data.Title, locator),
		}, true
	case "booking.approved":
		return ports.Notification{
			Channel:     channel,
			Destination: destination,
			Subject:     fmt.Sprintf("Confirmed: %s", data.Title),
			Body: fmt.Sprintf("%s,\n\nyour meeting \"%s\" is confirmed for %s %s-%s.\n",
				greeting, data.Title, data.SelectedDate, data.SelectedStartTime, data.SelectedEndTime),
		}, true
	case "booking.declined":
		return ports.Notification{
			Channel:     channel,
			Destination: destination,
			Subject:     fmt.Sprintf("Cancelled: %s", data.Title),
			Body: fmt.Sprintf("%s,\n\nthe proposed meeting \"%s\" has been cancelled.\n",
				greeting, data.Title),
		}, true
	default:
		return ports.Notification{}, false
	}
}

func resolveChannel(data bookingEventData) (ports.NotificationChannel, string, bool) {
	email := strings.TrimSpace(data.GuestEmail)
	phone := strings.TrimSpace(data.GuestPhone)
	switch {
	case email != "" && phone != "":
		return ports.ChannelBoth, email, true
	case email != "":
		return ports.ChannelEmail, email, true
	case phone != "":
		return ports.ChannelChat, phone, true
	default:
		return "", "", false
	}
}
