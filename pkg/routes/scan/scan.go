package scan

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/context"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/sage/internal/repositories/scanresult"
	"github.com/Ramsey-B/sage/pkg/events"
	"github.com/Ramsey-B/sage/pkg/models"
	"github.com/Ramsey-B/sage/pkg/processor"
	"github.com/Ramsey-B/sage/pkg/schema"
)

// Register registers scan routes
func Register(g *echo.Group) {
	g.POST("", CreateScan)
	g.GET("", ListScans)
	g.GET("/:id", GetScan)
	g.POST("/:id/link", LinkScan)
	g.POST("/:id/dismiss", DismissScan)
}

// ScanResponse is the payload returned when a scan is submitted
type ScanResponse struct {
	Scan   *models.ScanRecord       `json:"scan"`
	Result *models.FuzzyMatchResult `json:"result"`
}

// CreateScan accepts a scanned invoice, matches it against the candidate
// pool, and stores it for review
func CreateScan(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id is required")
	}

	var req models.ScanRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Normalize()

	ctx, validate, err := ectoinject.GetContext[*schema.Validator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	if err := validate.Validate(req); err != nil {
		return err
	}

	ctx, proc, err := ectoinject.GetContext[*processor.Processor](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	scan, result, err := proc.ProcessScan(ctx, tenantID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, ScanResponse{Scan: scan, Result: result})
}

// ListScans lists scans for the tenant, optionally filtered by review status
func ListScans(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id is required")
	}

	status := c.QueryParam("status")
	switch status {
	case "", models.ReviewStatusPending, models.ReviewStatusLinked, models.ReviewStatusDismissed:
	default:
		return httperror.NewHTTPError(http.StatusBadRequest, "unknown review status")
	}

	ctx, repo, err := ectoinject.GetContext[*scanresult.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	scans, err := repo.List(ctx, tenantID, status, 100)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, scans)
}

// GetScan gets a scan by ID
func GetScan(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*scanresult.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	scan, err := repo.Get(ctx, tenantID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, scan)
}

// LinkScan links a scan to a customer, and optionally an agreement, after
// human review
func LinkScan(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id is required")
	}

	var req models.LinkScanRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, validate, err := ectoinject.GetContext[*schema.Validator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	if err := validate.Validate(req); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*scanresult.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	id := c.Param("id")
	if err := repo.Link(ctx, tenantID, id, req.CustomerID, req.AgreementID, req.ReviewedBy); err != nil {
		return err
	}

	// The review already committed; emission failures are logged, not surfaced.
	if ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx); err == nil {
		if err := emitter.EmitScanReviewed(ctx, tenantID, id, models.ReviewStatusLinked, &req.CustomerID, req.AgreementID); err != nil {
			if ctx, logger, lerr := ectoinject.GetContext[ectologger.Logger](ctx); lerr == nil && logger != nil {
				logger.WithContext(ctx).WithError(err).Warn("Failed to emit scan.reviewed event")
			}
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": models.ReviewStatusLinked})
}

// DismissScan marks a scan as reviewed with no acceptable match
func DismissScan(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "tenant id is required")
	}

	var req models.DismissScanRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, repo, err := ectoinject.GetContext[*scanresult.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	id := c.Param("id")
	if err := repo.Dismiss(ctx, tenantID, id, req.ReviewedBy); err != nil {
		return err
	}

	if ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx); err == nil {
		if err := emitter.EmitScanReviewed(ctx, tenantID, id, models.ReviewStatusDismissed, nil, nil); err != nil {
			if ctx, logger, lerr := ectoinject.GetContext[ectologger.Logger](ctx); lerr == nil && logger != nil {
				logger.WithContext(ctx).WithError(err).Warn("Failed to emit scan.reviewed event")
			}
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": models.ReviewStatusDismissed})
}
