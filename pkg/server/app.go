package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"TrendPull/internal/handler/ws"
	"TrendPull/internal/leader"
	"TrendPull/internal/repository"
	"TrendPull/internal/usecase"
	"TrendPull/pkg/config"
	xhttp "TrendPull/pkg/http"
	applogger "TrendPull/pkg/logger"
)

// App encapsulates the application lifecycle: leader election, the monitor
// loop, the HTTP server, and graceful shutdown.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	monitor    *usecase.Monitor
	guard      *leader.Guard
	hub        *ws.Hub
	handler    xhttp.Handler
	kafkaSink  *repository.KafkaEventSink
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. kafkaSink may be nil
// when no brokers are configured.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	monitor *usecase.Monitor,
	guard *leader.Guard,
	hub *ws.Hub,
	handler xhttp.Handler,
	kafkaSink *repository.KafkaEventSink,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		monitor:   monitor,
		guard:     guard,
		hub:       hub,
		handler:   handler,
		kafkaSink: kafkaSink,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler, a.log,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithServerTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Only the leader polls and alerts. A follower still serves the read
	// API and WebSocket feed.
	if a.guard.Acquire() {
		go a.monitor.Run(ctx)
	} else {
		a.log.Info("another monitor is active, running as follower")
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown(context.Background())
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	a.hub.Close()

	if a.kafkaSink != nil {
		if err := a.kafkaSink.Close(); err != nil {
			a.log.Warn("kafka producer close error", applogger.Error(err))
		}
	}

	a.guard.Release()
	a.log.Info("shutdown complete")
	return nil
}
