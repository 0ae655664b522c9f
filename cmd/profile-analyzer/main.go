package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github-profile-analyzer/internal/app"
	"github-profile-analyzer/internal/config"
	"github-profile-analyzer/internal/database"
	"github-profile-analyzer/internal/github"
	"github-profile-analyzer/internal/queue"
	"github-profile-analyzer/internal/service"
	"github-profile-analyzer/internal/worker"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := cfg.Log.NewLogger(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ghLogger := logger.With().Str("component", "github").Logger()
	githubClient, err := github.NewClient(cfg.GitHub, &ghLogger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error creating GitHub client")
	}

	var (
		history   service.HistoryStore
		jobQueue  queue.Queue
		db        *database.DB
		pool      *worker.Pool
		refresher *worker.RefreshWorker
	)

	if cfg.Database.Enabled {
		dbLogger := logger.With().Str("component", "database").Logger()
		db, err = database.New(ctx, cfg.GetDSN(), &dbLogger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Error connecting to database")
		}
		if err := db.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Error running migrations")
		}
		history = db
		jobQueue = queue.NewPostgresQueue(db.SQL(), queue.WithMaxRetries(cfg.Worker.MaxAttempts))
	}

	svcLogger := logger.With().Str("component", "service").Logger()
	svc := service.New(githubClient, history, &svcLogger)
	defer svc.Close()

	if jobQueue != nil {
		workerLogger := logger.With().Str("component", "worker").Logger()
		pool = worker.NewPool(jobQueue, svc, cfg.Worker.Count, cfg.Worker.PollInterval, workerLogger)

		if cfg.Monitor.Enabled {
			monitorLogger := logger.With().Str("component", "monitor").Logger()
			refresher = worker.NewRefreshWorker(jobQueue, cfg.Monitor.Interval, cfg.Monitor.Usernames, monitorLogger)
		}
	}

	application, err := app.New(cfg, logger, svc, jobQueue, pool, refresher)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error creating application")
	}

	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
