// Package processor handles incoming scan messages: each scanned invoice is
// matched against the candidate pool, persisted for review, and announced on
// the events topic.
package processor

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/tracing"

	"github.com/Ramsey-B/sage/internal/repositories/scanresult"
	"github.com/Ramsey-B/sage/pkg/events"
	"github.com/Ramsey-B/sage/pkg/kafka"
	"github.com/Ramsey-B/sage/pkg/matching"
	"github.com/Ramsey-B/sage/pkg/models"
)

// Processor handles scan message processing
type Processor struct {
	logger   ectologger.Logger
	engine   *matching.Engine
	scanRepo *scanresult.Repository
	emitter  *events.Emitter
}

// NewProcessor creates a new scan processor
func NewProcessor(
	logger ectologger.Logger,
	engine *matching.Engine,
	scanRepo *scanresult.Repository,
	emitter *events.Emitter,
) *Processor {
	return &Processor{
		logger:   logger,
		engine:   engine,
		scanRepo: scanRepo,
		emitter:  emitter,
	}
}

// HandleMessage processes one scan envelope from the scan topic. Persisting
// the scan is the commit point; event emission failures are logged but do
// not fail the message.
func (p *Processor) HandleMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.HandleMessage")
	defer span.End()

	tenantID := msg.GetTenantID()
	if tenantID == "" {
		p.logger.WithContext(ctx).WithFields(map[string]any{
			"topic":  msg.Topic,
			"offset": msg.Offset,
		}).Error("Scan message has no tenant, dropping")
		// Returning nil commits the message; there is no tenant to retry under.
		return nil
	}

	req := msg.ToScanRequest()
	req.Normalize()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id": tenantID,
	})

	result := p.engine.Match(ctx, tenantID, req)

	scan, err := p.persistScan(ctx, tenantID, req, result)
	if err != nil {
		log.WithError(err).Error("Failed to persist scan result")
		return err
	}

	if result.BestMatch != nil {
		if err := p.emitter.EmitScanMatched(ctx, tenantID, scan.ID, result); err != nil {
			log.WithError(err).Warn("Failed to emit scan.matched event")
		}
	} else {
		if err := p.emitter.EmitScanUnmatched(ctx, tenantID, scan.ID, result.OCRConfidence); err != nil {
			log.WithError(err).Warn("Failed to emit scan.unmatched event")
		}
	}

	log.WithFields(map[string]any{
		"scan_id":     scan.ID,
		"matched":     result.BestMatch != nil,
		"match_count": len(result.AllMatches),
		"confidence":  result.TotalConfidence,
	}).Info("Processed scan")

	return nil
}

// ProcessScan runs the match pipeline for a scan submitted over HTTP and
// returns both the stored record and the match result.
func (p *Processor) ProcessScan(ctx context.Context, tenantID string, req models.ScanRequest) (*models.ScanRecord, *models.FuzzyMatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.ProcessScan")
	defer span.End()

	if tenantID == "" {
		return nil, nil, errors.New("tenant id is required")
	}

	req.Normalize()
	result := p.engine.Match(ctx, tenantID, req)

	scan, err := p.persistScan(ctx, tenantID, req, result)
	if err != nil {
		return nil, nil, err
	}

	if result.BestMatch != nil {
		if err := p.emitter.EmitScanMatched(ctx, tenantID, scan.ID, result); err != nil {
			p.logger.WithContext(ctx).WithError(err).Warn("Failed to emit scan.matched event")
		}
	} else {
		if err := p.emitter.EmitScanUnmatched(ctx, tenantID, scan.ID, result.OCRConfidence); err != nil {
			p.logger.WithContext(ctx).WithError(err).Warn("Failed to emit scan.unmatched event")
		}
	}

	return scan, result, nil
}

func (p *Processor) persistScan(ctx context.Context, tenantID string, req models.ScanRequest, result *models.FuzzyMatchResult) (*models.ScanRecord, error) {
	structured, err := json.Marshal(req.Extracted)
	if err != nil {
		return nil, err
	}
	allMatches, err := json.Marshal(result.AllMatches)
	if err != nil {
		return nil, err
	}

	scan := &models.ScanRecord{
		TenantID:         tenantID,
		OriginalFilename: req.OriginalFilename,
		RawText:          req.RawText,
		StructuredData:   structured,
		OCRConfidence:    req.OCRConfidence,
		AllMatches:       allMatches,
		ReviewStatus:     models.ReviewStatusPending,
	}
	if best := result.BestMatch; best != nil {
		customerID := best.ID
		scan.MatchedCustomerID = &customerID
		scan.MatchedAgreementID = best.AgreementID
		scan.MatchConfidence = best.Confidence
	}

	return p.scanRepo.Create(ctx, scan)
}
