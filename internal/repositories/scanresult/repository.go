package scanresult

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/database"
	"github.com/Ramsey-B/stem/pkg/tracing"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/sage/pkg/models"
)

// Repository handles invoice scan persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new scan result repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

var scanColumns = []string{
	"id", "tenant_id", "original_filename", "raw_text", "structured_data",
	"ocr_confidence", "matched_customer_id", "matched_agreement_id",
	"match_confidence", "all_matches", "review_status", "reviewed_by",
	"created_at", "updated_at", "reviewed_at",
}

// Create persists a new scan record
func (r *Repository) Create(ctx context.Context, scan *models.ScanRecord) (*models.ScanRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "scanresult.Repository.Create")
	defer span.End()

	if scan.ID == "" {
		scan.ID = uuid.New().String()
	}
	scan.CreatedAt = time.Now().UTC()
	scan.UpdatedAt = scan.CreatedAt
	if scan.ReviewStatus == "" {
		scan.ReviewStatus = models.ReviewStatusPending
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("invoice_scans")
	sb.Cols(scanColumns...)
	sb.Values(
		scan.ID, scan.TenantID, scan.OriginalFilename, scan.RawText, scan.StructuredData,
		scan.OCRConfidence, scan.MatchedCustomerID, scan.MatchedAgreementID,
		scan.MatchConfidence, scan.AllMatches, scan.ReviewStatus, scan.ReviewedBy,
		scan.CreatedAt, scan.UpdatedAt, scan.ReviewedAt,
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"scan_id": scan.ID}).Error("Failed to create scan record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create scan record")
	}

	return scan, nil
}

// Get retrieves a scan record by ID
func (r *Repository) Get(ctx context.Context, tenantID string, id string) (*models.ScanRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "scanresult.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(scanColumns...)
	sb.From("invoice_scans")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	var scan models.ScanRecord
	if err := r.db.GetContext(ctx, &scan, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("scan %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get scan record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get scan record")
	}

	return &scan, nil
}

// List retrieves scan records for a tenant, optionally filtered by review
// status, newest first
func (r *Repository) List(ctx context.Context, tenantID string, reviewStatus string, limit int) ([]models.ScanRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "scanresult.Repository.List")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(scanColumns...)
	sb.From("invoice_scans")

	where := []string{sb.Equal("tenant_id", tenantID)}
	if reviewStatus != "" {
		where = append(where, sb.Equal("review_status", reviewStatus))
	}
	sb.Where(where...)
	sb.OrderBy("created_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	var scans []models.ScanRecord
	if err := r.db.SelectContext(ctx, &scans, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list scan records")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list scan records")
	}

	return scans, nil
}

// Link marks a scan as linked to a customer, and optionally an agreement,
// recording who reviewed it
func (r *Repository) Link(ctx context.Context, tenantID string, id string, customerID string, agreementID *string, reviewedBy *string) error {
	ctx, span := tracing.StartSpan(ctx, "scanresult.Repository.Link")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("invoice_scans")
	sb.Set(
		sb.Assign("review_status", models.ReviewStatusLinked),
		sb.Assign("matched_customer_id", customerID),
		sb.Assign("matched_agreement_id", agreementID),
		sb.Assign("reviewed_by", reviewedBy),
		sb.Assign("reviewed_at", now),
		sb.Assign("updated_at", now),
	)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to link scan record")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to link scan record")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("scan %s not found", id))
	}

	return nil
}

// Dismiss marks a scan as reviewed with no acceptable match
func (r *Repository) Dismiss(ctx context.Context, tenantID string, id string, reviewedBy *string) error {
	ctx, span := tracing.StartSpan(ctx, "scanresult.Repository.Dismiss")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("invoice_scans")
	sb.Set(
		sb.Assign("review_status", models.ReviewStatusDismissed),
		sb.Assign("reviewed_by", reviewedBy),
		sb.Assign("reviewed_at", now),
		sb.Assign("updated_at", now),
	)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to dismiss scan record")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to dismiss scan record")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("scan %s not found", id))
	}

	return nil
}
