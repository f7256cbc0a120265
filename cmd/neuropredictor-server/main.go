// Package main provides the web server for neuropredictor.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medinalabs/neuropredictor/internal/config"
	"github.com/medinalabs/neuropredictor/internal/llm"
	"github.com/medinalabs/neuropredictor/internal/metrics"
	"github.com/medinalabs/neuropredictor/internal/predict"
	"github.com/medinalabs/neuropredictor/internal/server"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "config file (yaml, toml or json)")
	flag.Parse()

	// Load configuration
	var (
		cfg config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg = config.Load()
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging
	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel, os.Stderr)
	defer closeLog()
	slog.SetDefault(logger)

	slog.Info("starting neuropredictor-server", "port", cfg.ServerPort, "provider", cfg.LLMProvider, "model", cfg.LLMModel)

	collector := metrics.NewCollector()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	model, err := llm.NewModel(ctx, cfg)
	cancel()
	if err != nil {
		slog.Error("failed to create model", "error", err)
		os.Exit(1)
	}
	model.WithMetrics(collector)

	source := predict.NewLLMSource(model,
		predict.WithTimeout(cfg.PredictTimeout),
		predict.WithMetrics(collector),
		predict.WithLogger(logger),
	)

	srv, err := server.New(server.Options{
		Source:        source,
		Metrics:       collector,
		Logger:        logger,
		FrameInterval: cfg.FrameInterval(),
	})
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second, // Long for LLM responses
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Web UI available", "url", fmt.Sprintf("http://localhost:%s/", cfg.ServerPort))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout; hijacked websocket sessions are torn
	// down separately since Shutdown does not track them.
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	srv.Close()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
