package server

import (
	"context"
	"errors"
	"fmt"

	"TruthSource/pkg/config"
	xhttp "TruthSource/pkg/http"
	pkgkafka "TruthSource/pkg/kafka"
	applogger "TruthSource/pkg/logger"
)

// App owns the process lifecycle: the HTTP server, the optional Kafka
// consumer and every resource that must be released on shutdown.
type App struct {
	cfg      *config.Config
	logger   *applogger.Logger
	server   *xhttp.Server
	consumer *pkgkafka.Consumer
	handlers []pkgkafka.MessageHandler
	closers  []closer
}

type closer struct {
	name string
	fn   func() error
}

// New creates an App. consumer may be nil when Kafka is disabled.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	server *xhttp.Server,
	consumer *pkgkafka.Consumer,
	handlers ...pkgkafka.MessageHandler,
) *App {
	return &App{
		cfg:      cfg,
		logger:   l,
		server:   server,
		consumer: consumer,
		handlers: handlers,
	}
}

// OnShutdown registers fn to run after the server and consumer stop.
// Closers run in reverse registration order.
func (a *App) OnShutdown(name string, fn func() error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// Run starts the consumer and the HTTP server and blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a.consumer != nil {
		for _, h := range a.handlers {
			a.consumer.RegisterHandler(h)
		}
		if err := a.consumer.Start(); err != nil {
			return fmt.Errorf("start kafka consumer: %w", err)
		}
	}

	if err := a.server.Start(); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}
	a.logger.Info("truthsource started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("oracle", a.cfg.Oracle.Provider),
		applogger.Bool("kafka", a.consumer != nil),
	)

	<-ctx.Done()
	a.logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

// Shutdown stops intake first, then releases resources. Every step runs
// even if an earlier one failed.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	if err := a.server.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.logger.Warn("kafka consumer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(); err != nil {
			a.logger.Warn("close error", applogger.String("resource", c.name), applogger.Error(err))
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}

	a.logger.Info("shutdown complete")
	a.logger.RemoveCollector()
	return errors.Join(errs...)
}
