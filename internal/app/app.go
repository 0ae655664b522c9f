package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github-profile-analyzer/internal/config"
	"github-profile-analyzer/internal/queue"
	"github-profile-analyzer/internal/service"
	"github-profile-analyzer/internal/worker"
)

// @title GitHub Profile Analyzer API
// @version 1.0
// @description Scores a GitHub profile and produces a recruiter-style report.
// @host localhost:8080
// @BasePath /api/v1

const ServiceName = "GitHub Portfolio Analyzer"

// Version is overridden at build time with -ldflags "-X ...app.Version=..."
var Version = "1.0.0"

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg       *config.Config
	log       zerolog.Logger
	service   *service.Service
	server    *http.Server
	queue     queue.Queue // nil when storage is disabled
	pool      *worker.Pool
	refresher *worker.RefreshWorker
}

// New wires the HTTP server. q, pool and refresher are nil when the database
// is disabled.
func New(cfg *config.Config, log zerolog.Logger, svc *service.Service, q queue.Queue, pool *worker.Pool, refresher *worker.RefreshWorker) (*App, error) {
	if svc == nil {
		return nil, fmt.Errorf("service is required")
	}

	app := &App{
		cfg:       cfg,
		log:       log,
		service:   svc,
		queue:     q,
		pool:      pool,
		refresher: refresher,
	}

	router := mux.NewRouter()
	app.initializeRouter(router)

	app.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return app, nil
}

// Handler returns the routed handler, mainly for tests
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run starts the background workers and serves HTTP until ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	if a.pool != nil {
		a.pool.Start(ctx)
	}
	if a.refresher != nil {
		go a.refresher.Start(ctx)
	}
	defer a.stopWorkers()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.log.Error().Err(err).Msg("Failed to shutdown server gracefully")
		}
	}()

	a.log.Info().
		Int("port", a.cfg.Server.Port).
		Bool("history", a.service.HistoryEnabled()).
		Msg("Starting server")
	if err := a.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (a *App) stopWorkers() {
	if a.refresher != nil {
		a.refresher.Stop()
	}
	if a.pool != nil {
		a.pool.Stop()
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

func (a *App) Close() error {
	return a.service.Close()
}
