package validation

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	ctxmiddleware "github.com/Ramsey-B/stem/pkg/context"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/sage/pkg/models"
	"github.com/Ramsey-B/sage/pkg/schema"
)

// ValidateResponse represents a validation response
type ValidateResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Register registers validation routes
func Register(g *echo.Group) {
	g.POST("/validate", ValidateScanRequest)
}

// ValidateScanRequest dry-runs scan request validation without matching or
// persisting anything. OCR pipelines use it to check payloads before
// publishing.
func ValidateScanRequest(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID := ctxmiddleware.GetTenantID(ctx)
	if tenantID == "" {
		return httperror.NewHTTPError(http.StatusUnauthorized, "tenant_id is required")
	}

	var req models.ScanRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Normalize()

	_, validate, err := ectoinject.GetContext[*schema.Validator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "validation service not available")
	}

	if errs := validate.Errors(req); len(errs) > 0 {
		errorStrings := make([]string, len(errs))
		for i, e := range errs {
			errorStrings[i] = e.Field + ": " + e.Message
		}
		return c.JSON(http.StatusOK, ValidateResponse{
			Valid:  false,
			Errors: errorStrings,
		})
	}

	return c.JSON(http.StatusOK, ValidateResponse{
		Valid: true,
	})
}
