package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/BrandishRaid_Go/internal/event"
	"github.com/osse101/BrandishRaid_Go/internal/scheduler"
	"github.com/osse101/BrandishRaid_Go/internal/server"
	"github.com/osse101/BrandishRaid_Go/internal/telemetry"
	"github.com/osse101/BrandishRaid_Go/internal/worker"
)

// ShutdownComponents holds everything that needs a graceful stop. Nil fields
// are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	ResilientPublisher *event.ResilientPublisher
	Tracing            telemetry.ShutdownFunc
	Storage            *Storage
}

// GracefulShutdown stops the components in dependency order:
// 1. HTTP server (no new requests)
// 2. Scheduler timers, then the worker pool draining fired jobs
// 3. Event publisher, flushing pending retries
// 4. Tracer provider, then the database pool
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Scheduler != nil {
		slog.Info(LogMsgStoppingScheduler)
		c.Scheduler.Stop()
	}
	if c.WorkerPool != nil {
		c.WorkerPool.Stop()
	}

	if c.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if c.Tracing != nil {
		if err := c.Tracing(ctx); err != nil {
			slog.Error(LogMsgTracingShutdownFailed, "error", err)
		}
	}

	if c.Storage != nil {
		c.Storage.Close()
	}

	slog.Info(LogMsgServerStopped)
}
