// Package migrations applies the schema migrations under db/pg on startup.
package migrations

import (
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"

	"github.com/Ramsey-B/sage/config"
)

// Run applies pending migrations against the connected database. The
// migration version, force target and rollback behavior come from config.
func Run(cfg config.Config, logger ectologger.Logger, db *sqlx.DB) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		logger.WithError(err).Error("Failed to create migration driver")
		return err
	}

	ms := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})

	return ms.Migrate(cfg.DatabaseName, driver)
}
