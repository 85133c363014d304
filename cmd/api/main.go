package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/d-krupke/thesis-manager/config"
	"github.com/d-krupke/thesis-manager/internal/repositories/apitoken"
	"github.com/d-krupke/thesis-manager/internal/repositories/comment"
	"github.com/d-krupke/thesis-manager/internal/repositories/student"
	"github.com/d-krupke/thesis-manager/internal/repositories/supervisor"
	"github.com/d-krupke/thesis-manager/internal/repositories/thesis"
	"github.com/d-krupke/thesis-manager/pkg/audit"
	"github.com/d-krupke/thesis-manager/pkg/database"
	"github.com/d-krupke/thesis-manager/pkg/logging"
	"github.com/d-krupke/thesis-manager/pkg/middleware"
	"github.com/d-krupke/thesis-manager/pkg/routes/health"
	studentroutes "github.com/d-krupke/thesis-manager/pkg/routes/student"
	supervisorroutes "github.com/d-krupke/thesis-manager/pkg/routes/supervisor"
	thesisroutes "github.com/d-krupke/thesis-manager/pkg/routes/thesis"
	"github.com/d-krupke/thesis-manager/pkg/tracing"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.PrettyLogs)

	shutdownTracing := tracing.Setup(cfg.AppName)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	if err := migrate(cfg, logger, db); err != nil {
		logger.WithError(err).Error("failed to run database migrations")
		os.Exit(1)
	}

	tokenRepo := apitoken.NewRepository(db, logger)
	if err := registerDependencies(cfg, logger, db, tokenRepo); err != nil {
		logger.WithError(err).Error("failed to build dependency container")
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Metrics())

	checker := health.NewChecker(db, version)
	checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api", middleware.Authentication(logger, tokenRepo, cfg.AuthEnabled))
	studentroutes.Register(api.Group("/students"))
	supervisorroutes.Register(api.Group("/supervisors"))
	thesisroutes.Register(api.Group("/theses"))

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		ReadTimeout:    time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:    time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Starting API server")
		checker.SetReady(true)
		if err := e.StartServer(server); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("server stopped unexpectedly")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	checker.SetReady(false)
	logger.Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("failed to shut down cleanly")
		os.Exit(1)
	}
}

func migrate(cfg *config.Config, logger ectologger.Logger, db database.DB) error {
	instance, ok := db.(*database.DatabaseInstance)
	if !ok {
		return fmt.Errorf("database does not expose a migratable connection")
	}

	service := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})
	return service.MigrateDB(cfg.DatabaseName, instance.DB)
}

func registerDependencies(cfg *config.Config, logger ectologger.Logger, db database.DB, tokenRepo *apitoken.Repository) error {
	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return err
	}

	if err := ectoinject.RegisterInstance[ectologger.Logger](container, logger); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*config.Config](container, cfg); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[database.DB](container, db); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*student.Repository](container, student.NewRepository(db, logger)); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*supervisor.Repository](container, supervisor.NewRepository(db, logger)); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*thesis.Repository](container, thesis.NewRepository(db, logger)); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*comment.Repository](container, comment.NewRepository(db, logger)); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*audit.Notifier](container, audit.NewNotifier(logger, cfg.EmailNotificationsEnabled)); err != nil {
		return err
	}
	return ectoinject.RegisterInstance[*apitoken.Repository](container, tokenRepo)
}
