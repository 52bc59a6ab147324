package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"RentRate/internal/services/competitor"
	pkgch "RentRate/pkg/clickhouse"
	"RentRate/pkg/config"
	xhttp "RentRate/pkg/http"
	pkgkafka "RentRate/pkg/kafka"
	applogger "RentRate/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	store       *competitor.Store
	consumer    *pkgkafka.Consumer
	producer    *pkgkafka.Producer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	l           *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	store *competitor.Store,
	consumer *pkgkafka.Consumer,
	producer *pkgkafka.Producer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:      cfg,
		store:    store,
		consumer: consumer,
		producer: producer,
		kh:       kh,
		chClient: chClient,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// SetLogger allows DI to inject the app logger.
func (a *App) SetLogger(l *applogger.Logger) { a.l = l }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	l := a.l
	if l == nil {
		l, _ = applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	}

	// Warm the competitor snapshots from the on-disk cache before serving.
	if a.store != nil {
		if err := a.store.Load(); err != nil {
			l.Warn("competitor cache load error", applogger.Error(err))
		}
	}

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start quote ingestion if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("quote ingestion started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("pricing api started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(context.Background())
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.l
	if l == nil {
		var err error
		l, err = applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
		if err != nil {
			log.Printf("failed to create logger: %v", err)
			return err
		}
	}
	l.Info("shutting down...")

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close infrastructure clients
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
