package unit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	bookingservice "atelier/contexts/scheduling/booking-service"
	"atelier/contexts/scheduling/booking-service/application/workers"
	"atelier/contexts/scheduling/booking-service/ports"
	httptransport "atelier/contexts/scheduling/booking-service/transport/http"
	"atelier/internal/platform/messaging"
	"atelier/internal/platform/notify"
)

type recordingPublisher struct {
	mu        sync.Mutex
	published []ports.EventEnvelope
	failWith  error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failWith != nil {
		return p.failWith
	}
	if event.EventType != topic {
		return errors.New("topic does not match event type")
	}
	p.published = append(p.published, event)
	return nil
}

func (p *recordingPublisher) Published() []ports.EventEnvelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.EventEnvelope(nil), p.published...)
}

func TestOutboxRelayPublishesAndMarksPending(t *testing.T) {
	publisher := &recordingPublisher{}
	module := bookingservice.NewInMemoryModule(publisher, nil)

	created := createBookingProposal(t, module, "owner-1", true)
	token := shareToken(t, created.ShareURL)
	if _, err := module.Handler.SelectSlotHandler(context.Background(), token, httptransport.SelectSlotRequest{
		Slot: httptransport.SlotWindowDTO{Date: "2026-09-10", StartTime: "09:00", EndTime: "10:00"},
	}); err != nil {
		t.Fatalf("select slot failed: %v", err)
	}

	if err := module.OutboxRelay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay cycle failed: %v", err)
	}

	// Auto-approved selection appends created, slot_selected, and approved.
	events := publisher.Published()
	if len(events) != 3 {
		t.Fatalf("expected 3 published events, got %d", len(events))
	}
	types := make(map[string]int, len(events))
	for _, event := range events {
		types[event.EventType]++
		if event.SourceService != "booking-service" {
			t.Fatalf("unexpected source service %q", event.SourceService)
		}
		if event.PartitionKey != created.ProposalID {
			t.Fatalf("expected partition key %q, got %q", created.ProposalID, event.PartitionKey)
		}
	}
	for _, eventType := range []string{"booking.created", "booking.slot_selected", "booking.approved"} {
		if types[eventType] != 1 {
			t.Fatalf("expected one %s event, got counts %v", eventType, types)
		}
	}
	if events[0].EventType != "booking.created" {
		t.Fatalf("expected booking.created to publish first, got %s", events[0].EventType)
	}

	if err := module.OutboxRelay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay cycle failed: %v", err)
	}
	if len(publisher.Published()) != 3 {
		t.Fatalf("expected no republishing of marked rows, got %d events", len(publisher.Published()))
	}
}

func TestOutboxRelayStopsOnPublishFailureAndRetries(t *testing.T) {
	failing := &recordingPublisher{failWith: errors.New("broker unavailable")}
	module := bookingservice.NewInMemoryModule(failing, nil)
	createBookingProposal(t, module, "owner-1", false)

	if err := module.OutboxRelay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected relay to surface the publish failure")
	}

	retry := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: &recordingPublisher{},
		Clock:     module.Store,
	}
	if err := retry.RunOnce(context.Background()); err != nil {
		t.Fatalf("retry cycle failed: %v", err)
	}
	published := retry.Publisher.(*recordingPublisher).Published()
	if len(published) != 1 || published[0].EventType != "booking.created" {
		t.Fatalf("expected the pending row to publish on retry, got %+v", published)
	}
}

func bookingEnvelope(t *testing.T, eventType string, data map[string]any) ports.EventEnvelope {
	t.Helper()
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal event data: %v", err)
	}
	return ports.EventEnvelope{
		EventID:          "evt-" + eventType,
		EventType:        eventType,
		OccurredAt:       time.Now().UTC(),
		SourceService:    "booking-service",
		TraceID:          "trace-1",
		SchemaVersion:    1,
		PartitionKeyPath: "data.proposal_id",
		PartitionKey:     "p-1",
		Data:             payload,
	}
}

func waitForNotifications(t *testing.T, notifier *notify.RecordingNotifier, count int) []ports.Notification {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		sent := notifier.Sent()
		if len(sent) >= count {
			return sent
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d notifications, have %d", count, len(notifier.Sent()))
	return nil
}

func TestNotificationConsumerDispatchesPerChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus: %v", err)
	}
	notifier := &notify.RecordingNotifier{}
	consumer := workers.NotificationConsumer{
		Subscriber:   bus,
		Notifier:     notifier,
		ShareBaseURL: "https://app.example.com",
	}
	if err := consumer.Start(ctx); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}

	if err := bus.Publish(ctx, "booking.created", bookingEnvelope(t, "booking.created", map[string]any{
		"proposal_id": "p-1",
		"title":       "Kickoff",
		"link_token":  "tok123",
		"guest_name":  "Dana",
		"guest_email": "dana@example.com",
	})); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := bus.Publish(ctx, "booking.declined", bookingEnvelope(t, "booking.declined", map[string]any{
		"proposal_id": "p-2",
		"title":       "Vendor sync",
		"guest_phone": "+15550100",
	})); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	sent := waitForNotifications(t, notifier, 2)
	if len(sent) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(sent))
	}

	invite := sent[0]
	if invite.Channel != ports.ChannelEmail || invite.Destination != "dana@example.com" {
		t.Fatalf("unexpected invite routing: %+v", invite)
	}
	if !strings.Contains(invite.Body, "https://app.example.com/share/book?token=tok123") {
		t.Fatalf("invite body is missing the share link:\n%s", invite.Body)
	}
	if !strings.Contains(invite.Body, "Hello Dana") {
		t.Fatalf("invite body is missing the greeting:\n%s", invite.Body)
	}

	cancelled := sent[1]
	if cancelled.Channel != ports.ChannelChat || cancelled.Destination != "+15550100" {
		t.Fatalf("unexpected cancellation routing: %+v", cancelled)
	}
	if !strings.Contains(cancelled.Subject, "Cancelled") {
		t.Fatalf("unexpected cancellation subject: %q", cancelled.Subject)
	}
}

func TestNotificationConsumerSkipsOpenLinksAndSurvivesDispatchFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus: %v", err)
	}
	notifier := &notify.RecordingNotifier{FailWith: errors.New("smtp down")}
	consumer := workers.NotificationConsumer{Subscriber: bus, Notifier: notifier}
	if err := consumer.Start(ctx); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}

	// No guest contact: nothing to deliver.
	if err := bus.Publish(ctx, "booking.created", bookingEnvelope(t, "booking.created", map[string]any{
		"proposal_id": "p-3",
		"title":       "Open link",
	})); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	// Dispatch failure is swallowed; the consumer keeps running.
	if err := bus.Publish(ctx, "booking.approved", bookingEnvelope(t, "booking.approved", map[string]any{
		"proposal_id": "p-4",
		"title":       "Doomed dispatch",
		"guest_email": "x@example.com",
	})); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if sent := notifier.Sent(); len(sent) != 0 {
		t.Fatalf("expected no recorded notifications, got %+v", sent)
	}
}
