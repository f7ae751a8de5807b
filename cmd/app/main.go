package main

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

	"golang.org/x/sync/errgroup"

	"github.com/osse101/BrandishRaid_Go/internal/bootstrap"
	"github.com/osse101/BrandishRaid_Go/internal/config"
	"github.com/osse101/BrandishRaid_Go/internal/cooldown"
	"github.com/osse101/BrandishRaid_Go/internal/encounter"
	"github.com/osse101/BrandishRaid_Go/internal/expedition"
	"github.com/osse101/BrandishRaid_Go/internal/raid"
	"github.com/osse101/BrandishRaid_Go/internal/scheduler"
	"github.com/osse101/BrandishRaid_Go/internal/server"
	"github.com/osse101/BrandishRaid_Go/internal/telemetry"
	"github.com/osse101/BrandishRaid_Go/internal/worker"
)

// shutdownTimeout bounds the whole graceful stop
const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("BrandishRaid stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// everything started so far; stopped in order on any exit path
	var components bootstrap.ShutdownComponents
	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		bootstrap.GracefulShutdown(shutdownCtx, components)
	}

	components.Tracing, err = telemetry.Setup(ctx, telemetry.Config{
		Exporter:    cfg.TraceExporter,
		Endpoint:    cfg.OTELEndpoint,
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}

	components.Storage, err = bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		shutdown()
		return err
	}
	storage := components.Storage

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		shutdown()
		return err
	}
	components.ResilientPublisher = publisher
	if err := bootstrap.RegisterEventHandlers(bus); err != nil {
		shutdown()
		return err
	}

	pool := worker.NewPool(cfg.Workers.Count, cfg.Workers.QueueSize)
	pool.Start()
	components.WorkerPool = pool

	sched := scheduler.New(pool, storage.Jobs)
	components.Scheduler = sched

	expeditionService := expedition.NewService(storage.Expeditions, publisher)
	resolver := encounter.NewResolver(encounter.DefaultTable(), storage.Characters)
	raidService := raid.NewService(
		storage.Raids,
		storage.Characters,
		resolver,
		sched,
		expeditionService,
		cooldown.NewRaidPolicy(storage.Cooldowns),
		publisher,
	)

	// handlers must exist before persisted jobs are re-armed
	worker.NewRaidWorker(raidService, cfg.Workers.SweepInterval).Register(sched)
	if err := sched.Start(ctx); err != nil {
		shutdown()
		return err
	}

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, server.Deps{
		DBPool:            storage.DBPool(),
		RaidService:       raidService,
		ExpeditionService: expeditionService,
		Characters:        storage.Characters,
	})
	components.Server = srv

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutdown signal received")
		shutdown()
		return nil
	})

	return g.Wait()
}
