package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"FedPulse/internal/domain/repository"
	"FedPulse/internal/handler/api"
	mid "FedPulse/internal/middleware"
	"FedPulse/internal/service/notify"
	"FedPulse/internal/usecase"
	pkgch "FedPulse/pkg/clickhouse"
	"FedPulse/pkg/config"
	xhttp "FedPulse/pkg/http"
	pkgkafka "FedPulse/pkg/kafka"
	applogger "FedPulse/pkg/logger"
	"FedPulse/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	handler    *api.Handler
	pipeline   *mid.TriggerPipeline
	poller     *usecase.AlertPoller
	consumer   *pkgkafka.Consumer
	kh         pkgkafka.MessageHandler
	notifyQ    *queue.RedisQueue
	hub        *notify.Hub
	publisher  repository.TriggerPublisher
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.Handler,
	pipeline *mid.TriggerPipeline,
	poller *usecase.AlertPoller,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	notifyQ *queue.RedisQueue,
	hub *notify.Hub,
	publisher repository.TriggerPublisher,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		handler:   handler,
		pipeline:  pipeline,
		poller:    poller,
		consumer:  consumer,
		kh:        kh,
		notifyQ:   notifyQ,
		hub:       hub,
		publisher: publisher,
		chClient:  chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.l),
	)

	// Trigger pipeline flushes buffered triggers in the background
	a.pipeline.Start(ctx)

	// Background alert evaluation
	if err := a.poller.Start(ctx); err != nil {
		return err
	}
	a.l.Info("alert poller started", applogger.Duration("interval", a.cfg.Alerts.PollInterval))

	// Kafka consumer persists triggers into ClickHouse
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Redis queue fans triggers out to WebSocket clients
	if a.notifyQ != nil {
		if err := a.notifyQ.Start(); err != nil {
			a.l.Error("notify queue start error", applogger.Error(err))
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.poller.Shutdown(shutdownCtx); err != nil {
		a.l.Warn("poller stop error", applogger.Error(err))
	}

	a.pipeline.Stop()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.notifyQ != nil {
		if err := a.notifyQ.Stop(shutdownCtx); err != nil {
			a.l.Warn("notify queue stop error", applogger.Error(err))
		}
	}

	a.hub.Close()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("trigger publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// flush any batched error logs before exit
	a.l.RemoveCollector()

	a.l.Info("shutdown complete")
	return nil
}
