package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtractedInvoiceData holds the structured fields pulled out of a scanned
// invoice by the OCR pipeline. Every field is optional: a nil pointer means
// the extractor found nothing, which is distinct from a zero value.
type ExtractedInvoiceData struct {
	CustomerName   *string          `json:"customer_name,omitempty"`
	ContractNumber *string          `json:"contract_number,omitempty"`
	InvoiceNumber  *string          `json:"invoice_number,omitempty"`
	CarNumber      *string          `json:"car_number,omitempty"`
	TotalAmount    *decimal.Decimal `json:"total_amount,omitempty"`
	InvoiceDate    *time.Time       `json:"invoice_date,omitempty"`
	PaymentPeriod  *string          `json:"payment_period,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	LanguageDetected *string        `json:"language_detected,omitempty"`
}

// DefaultOCRConfidence is assumed when the OCR step reports nothing usable.
const DefaultOCRConfidence = 50

// ScanRequest is one matching run's input: the structured extraction, the
// full raw text, and the OCR engine's base confidence.
type ScanRequest struct {
	Extracted        ExtractedInvoiceData `json:"extracted"`
	RawText          string               `json:"raw_text"`
	OCRConfidence    int                  `json:"ocr_confidence" validate:"gte=0,lte=100"`
	OriginalFilename *string              `json:"original_filename,omitempty"`
}

// Normalize clamps the request into the documented input contract. An
// absent or out-of-range OCR confidence falls back to the default.
func (r *ScanRequest) Normalize() {
	if r.OCRConfidence <= 0 || r.OCRConfidence > 100 {
		r.OCRConfidence = DefaultOCRConfidence
	}
}
