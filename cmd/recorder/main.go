// Command recorder periodically snapshots Surge pair and pool state into
// Postgres.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/surgetrade/surge-go/gateway"
	"github.com/surgetrade/surge-go/internal/config"
	"github.com/surgetrade/surge-go/internal/database"
	"github.com/surgetrade/surge-go/internal/model"
	"github.com/surgetrade/surge-go/internal/poller"
	"github.com/surgetrade/surge-go/internal/version"
	"github.com/surgetrade/surge-go/internal/writer"
	"github.com/surgetrade/surge-go/oracle"
	"github.com/surgetrade/surge-go/radix"
	"github.com/surgetrade/surge-go/surge"
)

func main() {
	configPath := flag.String("config", "configs/recorder.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting recorder",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"gateway_url", cfg.Gateway.URL,
		"pairs", cfg.Targets.Pairs,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	db, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("database connected")

	// Create gateway and oracle clients
	gatewayClient := gateway.NewClient(
		cfg.Gateway.URL,
		cfg.Gateway.NetworkID,
		gateway.WithLogger(logger),
		gateway.WithTimeout(cfg.Gateway.Timeout),
		gateway.WithRetries(cfg.Gateway.MaxRetries, cfg.Gateway.RetryBackoff),
		gateway.WithPollInterval(cfg.Gateway.PollInterval),
	)
	oracleClient := oracle.NewClient(
		oracle.WithBaseURL(cfg.Oracle.URL),
		oracle.WithLogger(logger),
	)

	// Create exchange and load protocol variables
	envRegistry, err := radix.NewAddress(cfg.Exchange.EnvRegistry)
	if err != nil {
		logger.Error("invalid env registry address", "error", err)
		os.Exit(1)
	}
	exchange := surge.New(gatewayClient, oracleClient, envRegistry, surge.WithLogger(logger))

	logger.Info("loading protocol variables")
	if _, err := exchange.LoadVariables(ctx); err != nil {
		logger.Error("failed to load protocol variables", "error", err)
		os.Exit(1)
	}
	logger.Info("protocol variables loaded")

	// Wire writers and poller through buffered channels
	pairCh := make(chan model.PairSnapshot, cfg.Writers.BufferSize)
	poolCh := make(chan model.PoolSnapshot, cfg.Writers.BufferSize)

	writerCfg := writer.WriterConfig{
		BatchSize:     cfg.Writers.BatchSize,
		FlushInterval: cfg.Writers.FlushInterval,
	}
	pairWriter := writer.NewPairWriter(writerCfg, pairCh, db, logger)
	poolWriter := writer.NewPoolWriter(writerCfg, poolCh, db, logger)

	pollerCfg := poller.Config{
		Interval:    cfg.Poller.Interval,
		Concurrency: cfg.Poller.Concurrency,
		Timeout:     cfg.Poller.Timeout,
	}
	snapshotPoller := poller.New(pollerCfg, exchange, cfg.Targets.Pairs, pairCh, poolCh, logger)

	// Start health server
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(db, pairWriter, poolWriter, logger),
	}
	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	// Start writers before the poller so no snapshot waits on a full buffer
	if err := pairWriter.Start(ctx); err != nil {
		logger.Error("failed to start pair writer", "error", err)
		os.Exit(1)
	}
	if err := poolWriter.Start(ctx); err != nil {
		logger.Error("failed to start pool writer", "error", err)
		os.Exit(1)
	}
	if err := snapshotPoller.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	logger.Info("recorder running",
		"instance_id", cfg.Instance.ID,
		"run_id", snapshotPoller.RunID(),
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Health.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	snapshotPoller.Stop(shutdownCtx)
	pairWriter.Stop(shutdownCtx)
	poolWriter.Stop(shutdownCtx)
	healthServer.Shutdown(shutdownCtx)

	logger.Info("recorder stopped")
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(db *pgxpool.Pool, pairWriter *writer.PairWriter, poolWriter *writer.PoolWriter, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		// Check database
		if err := db.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}

		health.Components["pair_writer"] = pairWriter.Stats()
		health.Components["pool_writer"] = poolWriter.Stats()

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
