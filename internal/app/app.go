package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"mpidash/internal/config"
	"mpidash/internal/dataprocessing"
	apierrors "mpidash/internal/errors"
	"mpidash/internal/exporter"
	"mpidash/internal/infrastructure"
	customMiddleware "mpidash/internal/middleware"
	"mpidash/internal/services"
	"mpidash/internal/validation"
	handlers "mpidash/internal/transport/http"
)

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	Logger           *slog.Logger
	OTelProviders    *infrastructure.OTelProviders
	Metrics          *infrastructure.PipelineMetrics
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	ErrorHandler     *apierrors.ErrorHandler
}

// NewApplication loads configuration and logging from the environment and
// builds the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return New(cfg, logger)
}

// New wires the application from an already loaded configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("data_dir", cfg.Data.Dir))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreatePipelineMetrics(otelProviders.Meter)
	if err != nil {
		_ = otelProviders.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
	}
	app.initializeServices()
	app.setupRouter()
	app.createServer()
	return app, nil
}

// initializeServices creates the dataset loader and the services on top of it.
func (a *Application) initializeServices() {
	loader := dataprocessing.NewLoader(a.Config.Data.Dir, a.Config.Data.File, a.Config.Data.PreferredFiles, a.Logger)
	exports := exporter.NewCSVWriter(a.Config.Data.ExportDir, a.Logger)

	a.DashboardService = services.NewDashboardService(loader, exports, a.Metrics, a.Logger)
	a.HealthService = services.NewHealthService(config.AppVersion, a.Config.Data.Dir, loader, a.Logger)
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → OTel → Logger → Recoverer, then per-group Timeout.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}
	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	a.setupAPIRoutes(r)

	// Scrapes bypass the API timeout.
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle(config.MetricsEndpoint, a.OTelProviders.PrometheusHTTP)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)
	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	validation := customMiddleware.NewValidationMiddleware(a.Logger, a.ErrorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	clientLogHandler := handlers.NewClientLogHandler(validation, a.Logger)
	dashboardHandler := handlers.NewDashboardHandler(
		a.DashboardService,
		validation,
		a.Logger,
		a.ErrorHandler,
		customMiddleware.AuditLog(a.Logger),
	)

	r.Route(config.APIBasePath, func(r chi.Router) {
		r.Use(a.ErrorHandler.Recoverer)
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		r.With(
			customMiddleware.ContentTypeValidator("application/json"),
			validation.ValidateRequest,
		).Post("/log", clientLogHandler.Handle)

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(customMiddleware.TraceSpan("dashboard.request"))
			r.Use(customMiddleware.Compress(5))
			r.Use(customMiddleware.ContentTypeValidator("application/json"))
			r.Use(validation.ValidateRequest)
			r.Mount("/", dashboardHandler.Routes())
		})
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.performStartupHealthCheck(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Server listening",
			slog.String("address", a.Server.Addr),
			slog.String("dashboard", config.DashboardEndpoint))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("Shutdown requested")
		return a.Stop(context.Background())
	})
	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// performStartupHealthCheck logs whether a dataset is available and the
// export directory is writable. The server starts either way and serves the
// empty dataset until one appears.
func (a *Application) performStartupHealthCheck(ctx context.Context) {
	start := time.Now()

	if a.Config.Data.ExportDir != "" {
		if err := validation.NewFileValidator(a.Logger).ValidateOutputDirectory(a.Config.Data.ExportDir); err != nil {
			a.Logger.WarnContext(ctx, "Export directory unavailable",
				slog.String("export_dir", a.Config.Data.ExportDir),
				slog.String("error", err.Error()))
		}
	}

	status := a.HealthService.HealthCheck(ctx)
	data := status.Services["data"]
	if data.Status != "ready" {
		a.Logger.WarnContext(ctx, "No dataset available at startup",
			slog.String("data_dir", a.Config.Data.Dir),
			slog.String("message", data.Message))
		return
	}
	a.Logger.InfoContext(ctx, "Dataset available",
		slog.String("source", data.Source),
		slog.Duration("duration", time.Since(start)))
}
