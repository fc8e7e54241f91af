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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"claimshape/internal/config"
	apperrors "claimshape/internal/errors"
	"claimshape/internal/infrastructure"
	customMiddleware "claimshape/internal/middleware"
	"claimshape/internal/services"
	handlers "claimshape/internal/transport/http"
)

// Application represents the claims report server container.
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	ClaimsService *services.ClaimsService
	Logger        *slog.Logger
}

// NewApplication creates a new application instance with dependency injection.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("dataset", cfg.DatasetPath()),
		slog.Int("port", cfg.Server.Port))

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	app := &Application{
		Config:        cfg,
		ClaimsService: services.NewClaimsServiceWithLogger(cfg, logger),
		Logger:        logger,
	}

	// Load the dataset once per run. A missing data source is a
	// user-facing notice, not a startup failure: the server still runs
	// and every report request answers with the notice.
	if err := app.ClaimsService.Load(context.Background()); err != nil {
		if errors.Is(err, services.ErrDataSourceNotFound) {
			logger.Warn("claims data source not found; report will not render",
				slog.String("path", cfg.DatasetPath()))
		} else {
			return nil, fmt.Errorf("failed to load claims dataset: %w", err)
		}
	}

	app.Router = app.buildRouter()
	app.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.Router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return app, nil
}

// buildRouter assembles the middleware chain and routes.
func (a *Application) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.RateLimiter(a.Config.RateLimit))
	r.Use(handlers.CollectMetrics)

	errorHandler := apperrors.NewErrorHandler(a.Logger)
	claimsHandler := handlers.NewClaimsHandler(a.ClaimsService, a.Logger, errorHandler)
	metricsHandler := handlers.NewMetricsHandler()

	r.Mount("/api/claims", claimsHandler.Routes())
	r.Mount("/", metricsHandler.Routes())

	return r
}

// Run starts the HTTP server and blocks until shutdown.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.Logger.Info("shutting down server",
			slog.Duration("timeout", a.Config.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	if closeErr := infrastructure.CloseLogger(); closeErr != nil {
		a.Logger.Warn("failed to close log file", slog.String("error", closeErr.Error()))
	}

	return err
}
