// Package main is the entry point for the breakout-room commander.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paulsc/officehours/internal/config"
	"github.com/paulsc/officehours/internal/health"
	"github.com/paulsc/officehours/internal/livekit"
	"github.com/paulsc/officehours/internal/middleware"
	"github.com/paulsc/officehours/internal/planner"
	"github.com/paulsc/officehours/internal/poller"
	"github.com/paulsc/officehours/internal/timelog"
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("Office Hours Commander")
		fmt.Println()
		fmt.Println("Usage: commander [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "config error:", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	sessionID := uuid.NewString()
	sessionStart := time.Now()
	logger.Info("starting session", "session_id", sessionID)

	timingsFile, err := os.OpenFile(cfg.TimingsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Error("cannot open timings log", "path", cfg.TimingsPath, "error", err.Error())
		os.Exit(1)
	}
	defer timingsFile.Close()
	stateFile, err := os.OpenFile(cfg.StatePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Error("cannot open state log", "path", cfg.StatePath, "error", err.Error())
		os.Exit(1)
	}
	defer stateFile.Close()

	timings, err := timelog.NewTimingsLog(timingsFile, sessionID, sessionStart)
	if err != nil {
		logger.Error("cannot initialize timings log", "error", err.Error())
		os.Exit(1)
	}
	states, err := timelog.NewStateLog(stateFile, sessionID, sessionStart)
	if err != nil {
		logger.Error("cannot initialize state log", "error", err.Error())
		os.Exit(1)
	}

	client := livekit.NewRoomClient(cfg.LiveKitURL, cfg.LiveKitAPIKey, cfg.LiveKitAPISecret, cfg.UnassignedRoomName, logger)
	if client == nil {
		logger.Error("livekit client not configured")
		os.Exit(1)
	}

	metrics := poller.NewMetrics()
	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		logger.Error("cannot register metrics", "error", err.Error())
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	loop, err := poller.NewLoop(poller.Options{
		Client:   client,
		Planner:  planner.New(cfg.RoomCapacity, rng, logger),
		Interval: cfg.PollInterval,
		Timings:  timings,
		States:   states,
		Metrics:  metrics,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("cannot build poll loop", "error", err.Error())
		os.Exit(1)
	}

	// Health and metrics listener
	mux := http.NewServeMux()
	mux.HandleFunc("/health", health.Handler(health.NewLiveKitChecker(cfg.LiveKitURL), logger))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      middleware.Logging(logger)(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("starting health/metrics server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("poll loop failed", "error", err.Error())
		os.Exit(1)
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("session ended", "session_id", sessionID)
}
