package tenant

import (
	"net/http"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/database"
	"github.com/labstack/echo/v4"
)

// Register registers tenant routes
func Register(g *echo.Group) {
	g.DELETE("/tenant/:tenant_id", deleteTenantData)
}

// deleteTenantData deletes all data for a specific tenant
// This is intended for testing purposes to clean up test data
func deleteTenantData(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID := c.Param("tenant_id")
	if tenantID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "tenant_id is required",
		})
	}

	// Get database and logger from DI
	ctx, db, err := ectoinject.GetContext[database.DB](ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to get database",
		})
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{"tenant_id": tenantID}).Info("Deleting all data for tenant")
	}

	counts := make(map[string]int64)

	// Delete in order respecting foreign key constraints
	// Note: contracts references customers

	// 1. Delete invoice scans
	result, err := db.ExecContext(ctx, "DELETE FROM invoice_scans WHERE tenant_id = $1", tenantID)
	if err == nil {
		counts["invoice_scans"], _ = result.RowsAffected()
	}

	// 2. Delete contracts
	result, err = db.ExecContext(ctx, "DELETE FROM contracts WHERE tenant_id = $1", tenantID)
	if err == nil {
		counts["contracts"], _ = result.RowsAffected()
	}

	// 3. Delete customers
	result, err = db.ExecContext(ctx, "DELETE FROM customers WHERE tenant_id = $1", tenantID)
	if err == nil {
		counts["customers"], _ = result.RowsAffected()
	}

	if logger != nil {
		fields := map[string]any{"tenant_id": tenantID}
		for k, v := range counts {
			fields[k] = v
		}
		logger.WithContext(ctx).WithFields(fields).Info("Tenant data deleted")
	}

	response := map[string]interface{}{
		"message":   "tenant data deleted",
		"tenant_id": tenantID,
	}
	for k, v := range counts {
		response[k] = v
	}

	return c.JSON(http.StatusOK, response)
}
