// relay runs the market-signal relay: it ingests the upstream exchange
// ticker feed and fans notable-move signals out to WebSocket subscribers.
// Usage: go run ./cmd/relay --config configs/relay.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cryptoscan/agent/internal/broadcast"
	"github.com/cryptoscan/agent/internal/config"
	"github.com/cryptoscan/agent/internal/feed"
	"github.com/cryptoscan/agent/internal/metrics"
	"github.com/cryptoscan/agent/internal/model"
	"github.com/cryptoscan/agent/internal/relay"
	"github.com/cryptoscan/agent/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (empty = defaults)")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting relay",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	var cfg *config.Config
	if *configPath != "" {
		loaded, err := config.LoadAndValidate(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	logger.Info("configuration loaded",
		"feed_url", cfg.Feed.URL,
		"addr", cfg.Server.Addr,
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

	// Metrics
	m := metrics.New()
	registry := prometheus.NewRegistry()
	if err := m.Register(registry); err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	// Broadcast cell: one writer (the ingestor), N readers (sessions)
	cell := broadcast.NewCell[model.Signal]()
	defer cell.Close()

	// Start the feed ingestor; it runs for the process lifetime
	ingestor := feed.New(
		feed.Config{
			URL:     cfg.Feed.URL,
			Backoff: cfg.Feed.Backoff,
		},
		feed.WSDialer{HandshakeTimeout: cfg.Feed.HandshakeTimeout},
		cell,
		logger,
		m,
	)
	go func() {
		if err := ingestor.Run(ctx); err != nil {
			logger.Info("feed ingestor stopped", "error", err)
		}
	}()

	// Subscriber-facing routes
	hub := relay.NewHub(cell, logger, m)

	mux := http.NewServeMux()
	mux.Handle("/websocket", hub)
	mux.Handle("/metrics", metrics.Handler(registry))
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"version":    version.Version,
			"commit":     version.Commit,
			"build_time": version.BuildTime,
		})
	})
	if cfg.Server.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.Server.StaticDir)))
	}

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: mux,
	}

	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)

	logger.Info("relay stopped")
}
