// Package server assembles the HTTP surface: echo instance, shared
// middleware, and route registration.
package server

import (
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"

	"github.com/Ramsey-B/sage/config"
	"github.com/Ramsey-B/sage/pkg/routes/health"
	"github.com/Ramsey-B/sage/pkg/routes/scan"
	"github.com/Ramsey-B/sage/pkg/routes/tenant"
	"github.com/Ramsey-B/sage/pkg/routes/validation"
	"github.com/Ramsey-B/sage/pkg/telemetry"
)

// Connect opens the postgres pool, retrying up to StartupMaxAttempts so the
// service survives the database coming up after it.
func Connect(cfg config.Config, logger ectologger.Logger) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseUserName,
		cfg.DatabasePassword,
		cfg.DatabaseName,
		cfg.DatabaseSSLMode,
	)

	attempts := cfg.StartupMaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var db *sqlx.DB
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err = sqlx.Connect(cfg.DatabaseDriver, dsn)
		if err == nil {
			break
		}
		logger.WithError(err).Warnf("Database connection attempt %d/%d failed", attempt, attempts)
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)

	return db, nil
}

// New builds the echo instance with middleware and all routes registered.
// Extra middleware (such as the dependency injection context) runs after the
// built-in stack.
func New(cfg config.Config, logger ectologger.Logger, checker *health.Checker, extra ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(telemetry.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.HTTPErrorHandler = middleware.Error(logger)

	for _, m := range extra {
		e.Use(m)
	}

	if checker != nil {
		checker.RegisterRoutes(e)
	}

	api := e.Group("/api/v1")
	scan.Register(api.Group("/scans"))
	validation.Register(api)
	tenant.Register(api)

	return e
}

// Start blocks serving HTTP on the configured port.
func Start(e *echo.Echo, cfg config.Config) error {
	return e.Start(fmt.Sprintf(":%d", cfg.Port))
}
