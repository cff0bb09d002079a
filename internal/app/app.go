package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"growthpulse/internal/config"
	apierrors "growthpulse/internal/errors"
	"growthpulse/internal/exporter"
	"growthpulse/internal/infrastructure"
	customMiddleware "growthpulse/internal/middleware"
	"growthpulse/internal/services"
	"growthpulse/internal/sheets"
	handlers "growthpulse/internal/transport/http"
	ws "growthpulse/internal/websocket"
)

const (
	Version = "1.0.0"
	AppName = "GrowthPulse"
)

// Application is the main dependency container. Everything the server needs
// is constructed once here and wired together.
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	Poller           *services.Poller
	WebSocketHub     *ws.Hub
	Metrics          *infrastructure.Metrics
	Logger           *slog.Logger
}

// NewApplication creates a fully wired application instance
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: infrastructure.NewMetrics(),
	}

	if err := app.initializeServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices constructs the service layer in dependency order
func (a *Application) initializeServices(ctx context.Context) error {
	hub := ws.NewHub(a.Logger)
	hub.OnClientCountChange(func(count int) {
		a.Metrics.WSClients.Set(float64(count))
	})
	a.WebSocketHub = hub

	var fetcher services.GridFetcher
	if a.Config.Sheets.HasSource() {
		client, err := sheets.NewClient(ctx, a.Config.Sheets, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize sheets client: %w", err)
		}
		fetcher = client
	} else {
		a.Logger.Warn("No spreadsheet source configured",
			slog.String("action", "Dashboard will serve 503 until a source is set and a manual refresh succeeds"))
	}

	a.DashboardService = services.NewDashboardService(fetcher, hub, a.Metrics, a.Logger)
	a.HealthService = services.NewHealthService(Version, a.DashboardService, a.Logger)

	if fetcher != nil {
		a.Poller = services.NewPoller(a.DashboardService, a.Config.Poll.Interval, a.Config.Poll.FetchTimeout, a.Logger)
	}

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Minimal middleware first; these do not wrap the ResponseWriter and so
	// stay compatible with the websocket upgrade.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	// WebSocket route stays outside the full middleware group.
	wsHandler := handlers.NewWebSocketHandler(a.WebSocketHub, a.Config.Security.AllowedOrigins, a.Logger)
	r.Handle("/ws", wsHandler)

	// Prometheus scrape endpoint, also outside the group.
	r.Handle("/metrics", a.Metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.Compress(5))

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins:   a.Config.Security.AllowedOrigins,
				AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
				AllowCredentials: true,
				MaxAge:           300,
				Logger:           a.Logger,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r.Route("/api", func(r chi.Router) {
		r.NotFound(errorHandler.NotFound)
		r.MethodNotAllowed(errorHandler.MethodNotAllowed)

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount("/health", healthHandler.Routes())

		dashboardHandler := handlers.NewDashboardHandler(
			a.DashboardService,
			exporter.New(a.Logger),
			a.Logger,
			errorHandler,
		)
		r.Mount("/dashboard", dashboardHandler.Routes())
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run starts the server and background workers and blocks until the context
// is cancelled or a fatal error occurs. Shutdown is graceful.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.WebSocketHub.Run()
		return nil
	})

	if a.Poller != nil {
		g.Go(func() error {
			a.Poller.Run(ctx)
			return nil
		})
	}

	g.Go(func() error {
		a.Logger.InfoContext(ctx, "HTTP server listening",
			slog.String("address", a.Server.Addr),
			slog.Bool("polling_enabled", a.Poller != nil))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return a.shutdown()
	})

	if err := g.Wait(); err != nil {
		return err
	}

	a.Logger.Info("Application shutdown complete")
	return nil
}

// shutdown drains the HTTP server and stops background workers
func (a *Application) shutdown() error {
	a.Logger.Info("Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.WebSocketHub.Stop()
	return nil
}
