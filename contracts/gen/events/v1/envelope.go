package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical, versioned event envelope for cross-runtime use.
// Booking lifecycle events (booking.created, booking.slot_selected,
// booking.approved, booking.declined) ride in this shape, partitioned by
// proposal id. This package is generated-contract-only and must stay backward
// compatible; the JSON schemas under contracts/events/v1 are the source of
// truth for consumers outside this repository.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}
