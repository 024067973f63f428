package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/tracing"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/sage/config"
)

// Producer handles Kafka event emission
type Producer struct {
	writer *kafka.Writer
	logger ectologger.Logger
	topic  string
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// NewProducerFromConfig creates a producer for the events topic from the
// service configuration
func NewProducerFromConfig(cfg config.Config, logger ectologger.Logger) *Producer {
	return NewProducer(ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaEventsTopic,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: cfg.KafkaRequiredAcks,
		Compression:  cfg.KafkaCompression,
	}, logger)
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	requiredAcks := kafka.RequiredAcks(cfg.RequiredAcks)

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           requiredAcks,
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.Topic,
	}
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// ScanEvent represents a lifecycle event about an invoice scan
type ScanEvent struct {
	EventType     string          `json:"event_type"` // scan.matched, scan.unmatched, scan.reviewed
	TenantID      string          `json:"tenant_id"`
	ScanID        string          `json:"scan_id"`
	CustomerID    *string         `json:"customer_id,omitempty"`
	AgreementID   *string         `json:"agreement_id,omitempty"`
	Confidence    int             `json:"confidence"`
	ReviewStatus  string          `json:"review_status,omitempty"`
	MatchSnapshot json.RawMessage `json:"match_snapshot,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// PublishScanEvent publishes a scan event to Kafka
func (p *Producer) PublishScanEvent(ctx context.Context, event *ScanEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishScanEvent")
	defer span.End()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.ScanID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "tenant_id", Value: []byte(event.TenantID)},
			{Key: "schema_version", Value: []byte("1.0")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("Failed to publish scan event")
		return err
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"event_type": event.EventType,
		"scan_id":    event.ScanID,
		"confidence": event.Confidence,
	}).Debug("Published scan event")

	return nil
}

// PublishScanEvents publishes multiple scan events in a batch
func (p *Producer) PublishScanEvents(ctx context.Context, events []*ScanEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishScanEvents")
	defer span.End()

	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, len(events))
	for i, event := range events {
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now().UTC()
		}

		data, err := json.Marshal(event)
		if err != nil {
			return err
		}

		messages[i] = kafka.Message{
			Topic: p.topic,
			Key:   []byte(event.ScanID),
			Value: data,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.EventType)},
				{Key: "tenant_id", Value: []byte(event.TenantID)},
				{Key: "schema_version", Value: []byte("1.0")},
			},
		}
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"batch_size": len(events),
		}).Error("Failed to publish scan events batch")
		return err
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"batch_size": len(events),
	}).Debug("Published scan events batch")

	return nil
}
