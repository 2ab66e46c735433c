package main

import (
	"context"
	"flag"
	"fmt"
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
	"github.com/lilianna-roll/issuance/internal/api/middleware"
	"github.com/lilianna-roll/issuance/internal/api/server"
	"github.com/lilianna-roll/issuance/internal/config"
	"github.com/lilianna-roll/issuance/internal/engine"
	"github.com/lilianna-roll/issuance/internal/logger"
	"github.com/lilianna-roll/issuance/internal/metrics"
	"github.com/lilianna-roll/issuance/internal/providers/ethereum"
	"github.com/lilianna-roll/issuance/internal/store"
	"github.com/lilianna-roll/issuance/internal/voucher"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Service:         "issuance-api",
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "issuance-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting issuance API")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize clock adapter
	clock := adapter.NewClock()

	// Initialize payout
	var payout engine.Payout
	switch cfg.Payout.Mode {
	case config.PayoutModeEthereum:
		ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Payout.RPCURL)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to Ethereum RPC", zap.Error(err))
		}
		defer ethClient.Close()

		payout, err = ethereum.NewPayout(ctx, ethereum.PayoutConfig{
			PrivateKey: cfg.Payout.PrivateKey,
			ChainID:    cfg.Payout.ChainID,
			GasLimit:   cfg.Payout.GasLimit,
		}, ethClient)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to initialize Ethereum payout", zap.Error(err))
		}
	default:
		payout = ethereum.NewLedgerPayout(clock)
	}
	logger.InfoCtx(ctx, "Initialized payout", zap.String("mode", string(cfg.Payout.Mode)))

	// Restore engine state
	state, err := dataStore.LoadState(ctx)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load engine state", zap.Error(err))
	}

	eng, err := engine.New(engine.Config{
		Admin:         cfg.Engine.Admin(),
		ContractURI:   cfg.Engine.ContractURI,
		State:         state,
		PayoutTimeout: cfg.Payout.Timeout,
	}, dataStore, payout, voucher.NewVerifier(cfg.Engine.Issuer()), clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to initialize engine", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Engine restored",
		zap.String("admin", eng.Admin().Hex()),
		zap.String("issuer", eng.Issuer().Hex()),
		zap.Int("collections", len(state.Collections)),
		zap.Uint64("total_supply", eng.TotalSupply()),
	)

	// Initialize metrics
	var m *metrics.Metrics
	metricsPath := ""
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
		metricsPath = cfg.Metrics.Path
	}

	// Create server config
	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
			Admin:        cfg.Engine.Admin(),
		},
		MetricsPath: metricsPath,
	}

	// Create and start server
	srv := server.New(serverConfig, eng, dataStore, m)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	// Shutdown server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
