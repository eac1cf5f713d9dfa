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

	"github.com/catarinogabrielle/neon-glide/internal"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional YAML config file")
		port       = flag.Int("port", 0, "server port (overrides config)")
		logLevel   = flag.String("log-level", "", "log level (debug, info, warn, error)")
		logFormat  = flag.String("log-format", "", "log format (text, json)")
		staticDir  = flag.String("static", "", "game client directory")
	)
	flag.Parse()

	cfg := internal.DefaultConfig()
	if *configPath != "" {
		loaded, err := internal.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *staticDir != "" {
		cfg.Server.StaticDir = *staticDir
	}

	logger := setupLogger(cfg.Log.Level, cfg.Log.Format)

	registry := internal.NewRegistry(internal.NewGenerator(), logger)
	broadcaster := internal.NewBroadcaster(logger)
	coordinator := internal.NewCoordinator(registry, broadcaster, logger)
	hub := internal.NewHub(coordinator, logger)
	handler := internal.NewHandler(coordinator, hub, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler.Routes(cfg.Server.StaticDir),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("neon-glide server starting",
			"port", cfg.Server.Port,
			"log_level", cfg.Log.Level,
			"static_dir", cfg.Server.StaticDir)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	hub.Stop()

	logger.Info("server stopped")
}

func setupLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: level == "debug",
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
