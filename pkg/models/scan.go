package models

import (
	"encoding/json"
	"time"
)

// Scan review statuses.
const (
	ReviewStatusPending   = "pending"
	ReviewStatusLinked    = "linked"
	ReviewStatusDismissed = "dismissed"
)

// ScanRecord is a persisted invoice scan with its matching outcome, kept so
// a reviewer can later accept or dismiss the suggested matches.
type ScanRecord struct {
	ID                 string          `json:"id" db:"id"`
	TenantID           string          `json:"tenant_id" db:"tenant_id"`
	OriginalFilename   *string         `json:"original_filename,omitempty" db:"original_filename"`
	RawText            string          `json:"raw_text" db:"raw_text"`
	StructuredData     json.RawMessage `json:"structured_data" db:"structured_data"`
	OCRConfidence      int             `json:"ocr_confidence" db:"ocr_confidence"`
	MatchedCustomerID  *string         `json:"matched_customer_id,omitempty" db:"matched_customer_id"`
	MatchedAgreementID *string         `json:"matched_agreement_id,omitempty" db:"matched_agreement_id"`
	MatchConfidence    int             `json:"match_confidence" db:"match_confidence"`
	AllMatches         json.RawMessage `json:"all_matches" db:"all_matches"`
	ReviewStatus       string          `json:"review_status" db:"review_status"`
	ReviewedBy         *string         `json:"reviewed_by,omitempty" db:"reviewed_by"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
	ReviewedAt         *time.Time      `json:"reviewed_at,omitempty" db:"reviewed_at"`
}

// LinkScanRequest is the reviewer's acceptance of one candidate.
type LinkScanRequest struct {
	CustomerID  string  `json:"customer_id" validate:"required"`
	AgreementID *string `json:"agreement_id,omitempty"`
	ReviewedBy  *string `json:"reviewed_by,omitempty"`
}

// DismissScanRequest marks a scan as reviewed with no accepted match.
type DismissScanRequest struct {
	ReviewedBy *string `json:"reviewed_by,omitempty"`
}
