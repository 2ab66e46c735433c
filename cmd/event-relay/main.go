package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lilianna-roll/issuance/internal/adapter"
	"github.com/lilianna-roll/issuance/internal/config"
	"github.com/lilianna-roll/issuance/internal/logger"
	"github.com/lilianna-roll/issuance/internal/metrics"
	"github.com/lilianna-roll/issuance/internal/providers/jetstream"
	"github.com/lilianna-roll/issuance/internal/relay"
	"github.com/lilianna-roll/issuance/internal/store"
	"github.com/lilianna-roll/issuance/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadEventRelayConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Service:         "event-relay",
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "event-relay",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting event relay")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()

	// Connect to NATS JetStream
	publisher, err := jetstream.NewPublisher(ctx, jetstream.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		SubjectPrefix:  cfg.NATS.SubjectPrefix,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
	}, adapter.NewNatsJetStream(), jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err))
	}
	defer publisher.Close()
	logger.InfoCtx(ctx, "Connected to NATS JetStream",
		zap.String("stream", cfg.NATS.StreamName),
		zap.String("subject_prefix", cfg.NATS.SubjectPrefix),
	)

	// Initialize webhook notifier
	var notifier webhook.Notifier
	if cfg.Webhook.URL != "" {
		notifier = webhook.NewNotifier(
			webhook.Config{URL: cfg.Webhook.URL, Secret: cfg.Webhook.Secret},
			adapter.NewHTTPClient(cfg.Webhook.Timeout),
			webhook.NewSigner(jsonAdapter, adapter.NewJCS()),
			clock,
		)
		logger.InfoCtx(ctx, "Webhook delivery enabled", zap.String("url", cfg.Webhook.URL))
	}

	// Initialize metrics
	var m *metrics.Metrics
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, m.Handler())
		metricsServer = &http.Server{
			Addr:              cfg.Metrics.Address,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.ErrorCtx(ctx, err, zap.String("component", "metrics"))
			}
		}()
		logger.InfoCtx(ctx, "Serving metrics", zap.String("address", cfg.Metrics.Address), zap.String("path", cfg.Metrics.Path))
	}

	// Initialize relay
	outboxRelay := relay.New(relay.Config{
		PollInterval:    cfg.Relay.PollInterval,
		BatchSize:       cfg.Relay.BatchSize,
		MaxRetries:      cfg.Relay.MaxRetries,
		MaxAttempts:     cfg.Relay.MaxAttempts,
		WorkerPoolSize:  cfg.Relay.Worker.WorkerPoolSize,
		WorkerQueueSize: cfg.Relay.Worker.WorkerQueueSize,
	}, dataStore, publisher, notifier, clock, m)

	logger.InfoCtx(ctx, "Initialized outbox relay",
		zap.Duration("poll_interval", cfg.Relay.PollInterval),
		zap.Int("batch_size", cfg.Relay.BatchSize),
		zap.Int("worker_pool_size", cfg.Relay.Worker.WorkerPoolSize),
	)

	// Start the relay in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := outboxRelay.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	// Cancel context to stop the relay
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := outboxRelay.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.ErrorCtx(shutdownCtx, err, zap.String("component", "metrics"))
		}
	}

	logger.InfoCtx(shutdownCtx, "Event relay stopped")
}
