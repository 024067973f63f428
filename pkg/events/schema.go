package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType defines the type of event
type EventType string

const (
	// Scan lifecycle events
	EventTypeScanMatched   EventType = "scan.matched"
	EventTypeScanUnmatched EventType = "scan.unmatched"
	EventTypeScanReviewed  EventType = "scan.reviewed"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType     EventType `json:"event_type"`
	SchemaVersion string    `json:"schema_version"`
	TenantID      string    `json:"tenant_id"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// ScanMatchedEvent is emitted when a scan produced at least one candidate
type ScanMatchedEvent struct {
	BaseEvent
	ScanID        string          `json:"scan_id"`
	CustomerID    string          `json:"customer_id"`
	AgreementID   *string         `json:"agreement_id,omitempty"`
	Confidence    int             `json:"confidence"`
	MatchReasons  []string        `json:"match_reasons,omitempty"`
	MatchSnapshot json.RawMessage `json:"match_snapshot,omitempty"`
}

// ScanUnmatchedEvent is emitted when a scan produced no candidates
type ScanUnmatchedEvent struct {
	BaseEvent
	ScanID        string `json:"scan_id"`
	OCRConfidence int    `json:"ocr_confidence"`
}

// ScanReviewedEvent is emitted when a reviewer links or dismisses a scan
type ScanReviewedEvent struct {
	BaseEvent
	ScanID       string  `json:"scan_id"`
	ReviewStatus string  `json:"review_status"` // linked, dismissed
	CustomerID   *string `json:"customer_id,omitempty"`
	AgreementID  *string `json:"agreement_id,omitempty"`
	ReviewedBy   *string `json:"reviewed_by,omitempty"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType EventType, tenantID string) BaseEvent {
	return BaseEvent{
		EventType:     eventType,
		SchemaVersion: SchemaVersion,
		TenantID:      tenantID,
		Timestamp:     time.Now().UTC(),
		CorrelationID: uuid.New().String(),
	}
}
