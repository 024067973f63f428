// Package events handles event emission for scan lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/tracing"

	"github.com/Ramsey-B/sage/pkg/kafka"
	"github.com/Ramsey-B/sage/pkg/models"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter handles event emission for Sage
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitScanMatched emits a scan.matched event with the best match attached
func (e *Emitter) EmitScanMatched(ctx context.Context, tenantID string, scanID string, result *models.FuzzyMatchResult) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitScanMatched")
	defer span.End()

	best := result.BestMatch
	snapshot, _ := json.Marshal(result.AllMatches)

	event := &kafka.ScanEvent{
		EventType:     string(EventTypeScanMatched),
		TenantID:      tenantID,
		ScanID:        scanID,
		CustomerID:    &best.ID,
		AgreementID:   best.AgreementID,
		Confidence:    best.Confidence,
		MatchSnapshot: snapshot,
	}

	if err := e.producer.PublishScanEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit scan.matched event")
		return err
	}

	return nil
}

// EmitScanUnmatched emits a scan.unmatched event
func (e *Emitter) EmitScanUnmatched(ctx context.Context, tenantID string, scanID string, ocrConfidence int) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitScanUnmatched")
	defer span.End()

	event := &kafka.ScanEvent{
		EventType:  string(EventTypeScanUnmatched),
		TenantID:   tenantID,
		ScanID:     scanID,
		Confidence: ocrConfidence,
	}

	if err := e.producer.PublishScanEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit scan.unmatched event")
		return err
	}

	return nil
}

// EmitScanReviewed emits a scan.reviewed event after a link or dismissal
func (e *Emitter) EmitScanReviewed(ctx context.Context, tenantID string, scanID string, reviewStatus string, customerID, agreementID *string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitScanReviewed")
	defer span.End()

	event := &kafka.ScanEvent{
		EventType:    string(EventTypeScanReviewed),
		TenantID:     tenantID,
		ScanID:       scanID,
		CustomerID:   customerID,
		AgreementID:  agreementID,
		ReviewStatus: reviewStatus,
	}

	if err := e.producer.PublishScanEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit scan.reviewed event")
		return err
	}

	return nil
}
