package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"pulsefeed/internal/config"
	"pulsefeed/internal/constants"
	"pulsefeed/internal/logger"
	"pulsefeed/internal/pipeline"
	"pulsefeed/internal/sentiment"
	"pulsefeed/internal/source"
	"pulsefeed/internal/store"
	"pulsefeed/pkg/bootstrap"
	"pulsefeed/pkg/health"
	"pulsefeed/pkg/logging"
	"pulsefeed/pkg/metrics"
)

type App struct {
	*bootstrap.Base
	connector *bootstrap.Connector
	db        *sql.DB
	store     *store.Adapter
	runners   []*pipeline.Runner
	server    *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName("ingest-service")
	}
	return &App{
		Base:      bootstrap.NewBase(cfg, log),
		connector: bootstrap.NewConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.initStore(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	if err := a.initRunners(); err != nil {
		return fmt.Errorf("failed to initialize pipelines: %w", err)
	}

	metrics.RegisterPipelineMetrics()
	metrics.RegisterSourceMetrics()
	metrics.RegisterStoreMetrics()

	if err := a.initHTTPServer(); err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	return nil
}

func (a *App) initStore(ctx context.Context) error {
	db, err := a.connector.InitSQLite(ctx)
	if err != nil {
		return err
	}
	a.db = db

	adapter := store.NewAdapter(db, a.Config.Store.Table, a.Logger)
	if err := adapter.Initialize(ctx); err != nil {
		return err
	}
	a.store = adapter
	return nil
}

func (a *App) initRunners() error {
	analyzer := sentiment.NewAnalyzer()

	if a.Config.Sources.File.Enabled {
		src := source.NewFileSource(a.Config.Sources.File, a.Logger)
		a.runners = append(a.runners, pipeline.NewRunner(src, analyzer, a.store, a.Config.Pipeline, a.Logger))
	}

	if a.Config.Sources.Kafka.Enabled {
		src := source.NewKafkaSource(a.Config.Sources.Kafka, a.Logger)
		a.runners = append(a.runners, pipeline.NewRunner(src, analyzer, a.store, a.Config.Pipeline, a.Logger))
	}

	if len(a.runners) == 0 {
		return fmt.Errorf("no sources enabled")
	}

	return nil
}

func (a *App) initHTTPServer() error {
	mux := http.NewServeMux()

	healthRegistry := health.NewCheckerRegistry()
	if a.db != nil {
		healthRegistry.Register(health.NewSQLiteChecker(a.db))
	}
	if a.Config.Sources.File.Enabled {
		healthRegistry.Register(health.NewFeedFileChecker(a.Config.Sources.File.Path))
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		h := healthRegistry.Check(r.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprintf(w, `{"status":"%s","timestamp":"%s"}`, h.Status, h.Timestamp.Format(time.RFC3339))
	})

	mux.Handle("/metrics", promhttp.Handler())

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      mux,
		ReadTimeout:  time.Duration(a.Config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(a.Config.Server.WriteTimeoutSeconds) * time.Second,
	}

	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	if a.server != nil {
		g.Go(func() error {
			a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
			if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()
			return a.server.Shutdown(shutdownCtx)
		})
	}

	for _, r := range a.runners {
		g.Go(func() error {
			err := r.Run(gCtx)
			if err != nil && !errors.Is(err, context.Canceled) {
				// One failed source must not cancel its siblings; the file
				// pipeline keeps running when the broker is unreachable.
				runCtx := logging.WithSource(gCtx, r.SourceName())
				a.Logger.ErrorwCtx(runCtx, "Source pipeline terminated",
					"error", err,
				)
				return nil
			}
			return err
		})
	}

	return g.Wait()
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx := logging.WithServiceName(ctx, "ingest-service")
	a.Logger.InfowCtx(shutdownCtx, "Shutting down ingest service")

	additionalShutdown := func(ctx context.Context) []error {
		var errs []error

		if a.server != nil {
			serverCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()
			if err := a.server.Shutdown(serverCtx); err != nil {
				errs = append(errs, fmt.Errorf("HTTP server shutdown error: %w", err))
			}
		}

		errs = append(errs, a.connector.ShutdownDatabases(ctx, a.db)...)

		return errs
	}

	return a.Base.Shutdown(ctx, additionalShutdown)
}
