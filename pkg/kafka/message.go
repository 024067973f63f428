package kafka

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/sage/pkg/models"
)

// ScanEnvelope is the payload the OCR pipeline publishes for each scanned
// invoice. The tenant travels in the envelope, with the message header as a
// fallback for older producers.
type ScanEnvelope struct {
	TenantID         string                      `json:"tenant_id"`
	OriginalFilename *string                     `json:"original_filename,omitempty"`
	RawText          string                      `json:"raw_text"`
	Extracted        models.ExtractedInvoiceData `json:"extracted_data"`
	OCRConfidence    int                         `json:"ocr_confidence"`
}

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Trace context (extracted from Kafka headers)
	TraceParent string
	TraceState  string

	// Parsed content
	Envelope *ScanEnvelope
}

// NewIncomingMessage wraps a fetched Kafka message, indexing its headers and
// lifting the W3C trace context headers if the producer propagated them.
func NewIncomingMessage(msg kafka.Message) *IncomingMessage {
	incoming := &IncomingMessage{
		Key:       string(msg.Key),
		Value:     msg.Value,
		Headers:   make(map[string]string, len(msg.Headers)),
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Topic:     msg.Topic,
	}

	for _, h := range msg.Headers {
		incoming.Headers[h.Key] = string(h.Value)
		switch h.Key {
		case "traceparent":
			incoming.TraceParent = string(h.Value)
		case "tracestate":
			incoming.TraceState = string(h.Value)
		}
	}

	return incoming
}

// ParseScanEnvelope parses the message value as a scan envelope
func (m *IncomingMessage) ParseScanEnvelope() error {
	var env ScanEnvelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.RawText == "" && env.Extracted.CustomerName == nil {
		return errors.New("scan envelope has no text and no extracted fields")
	}
	m.Envelope = &env
	return nil
}

// GetTenantID returns the tenant ID from the envelope, falling back to the
// message header
func (m *IncomingMessage) GetTenantID() string {
	if m.Envelope != nil && m.Envelope.TenantID != "" {
		return m.Envelope.TenantID
	}
	return m.Headers["tenant_id"]
}

// ToScanRequest converts the parsed envelope into a scan request
func (m *IncomingMessage) ToScanRequest() models.ScanRequest {
	if m.Envelope == nil {
		return models.ScanRequest{}
	}
	return models.ScanRequest{
		Extracted:        m.Envelope.Extracted,
		RawText:          m.Envelope.RawText,
		OCRConfidence:    m.Envelope.OCRConfidence,
		OriginalFilename: m.Envelope.OriginalFilename,
	}
}
