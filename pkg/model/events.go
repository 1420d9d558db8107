package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Envelope is the canonical event envelope published to NATS after a
// pipeline run, so downstream consumers (site rebuild hook, cache
// invalidator) learn that fresh data exists.
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	CorrelationID uuid.UUID       `json:"correlation_id"`
	Topic         string          `json:"topic"`
	EventType     string          `json:"event_type"`
	Version       string          `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	Payload       json.RawMessage `json:"payload"`
}

// Event subjects emitted by the pipeline.
const (
	SubjectCatalogNormalized = "evt.catalog.normalized.v1"
	SubjectSnapshotExported  = "evt.catalog.snapshot.exported.v1"
)
