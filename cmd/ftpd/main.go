// Command ftpd runs the FTP server: it loads configuration, loads the
// credential store, and serves control connections until interrupted.
package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/telebroad/ftpd/internal/config"
	"github.com/telebroad/ftpd/internal/metrics"
	"github.com/telebroad/ftpd/internal/users"
	"github.com/telebroad/ftpd/server"
)

// Exit codes.
const (
	exitOK               = 0
	exitBadConfig        = 1
	exitBindFailure      = 2
	exitCredentialsError = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := config.ParseFlags()
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		slog.Error("loading config", "err", err)
		return exitBadConfig
	}
	cfg = config.ApplyFlags(cfg, flags)

	logger := setupLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	store, err := users.Load(cfg.BaseRoot)
	if err != nil {
		logger.Error("loading credentials file", "err", err)
		return exitCredentialsError
	}

	collector, registry := setupMetrics(cfg.MetricsAddr)

	srv := server.New(users.UsersRoot(cfg.BaseRoot), cfg.WelcomeBanner, store, logger, collector)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		logger.Error("binding control listener", "addr", cfg.Addr, "err", err)
		return exitBindFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, registry, logger); err != nil {
				logger.Error("metrics listener", "err", err)
			}
		}()
	}

	logger.Info("ftpd listening", "addr", cfg.Addr, "base_root", cfg.BaseRoot)
	if err := srv.Serve(ctx, ln); err != nil {
		logger.Error("serve", "err", err)
		return exitBindFailure
	}

	logger.Info("ftpd stopped")
	return exitOK
}

// setupLogger builds a tint-backed slog.Logger at the given level.
func setupLogger(level string) *slog.Logger {
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      parseLevel(level),
		TimeFormat: time.Kitchen,
	}))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupMetrics returns a Nop collector when metricsAddr is blank (the
// default, metrics are opt-in), otherwise a Prometheus collector bound
// to a dedicated registry for the metrics listener to expose.
func setupMetrics(metricsAddr string) (metrics.Collector, *prometheus.Registry) {
	if metricsAddr == "" {
		return metrics.Nop{}, nil
	}
	registry := prometheus.NewRegistry()
	return metrics.NewPrometheus(registry), registry
}
