package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ekisa-team/voskcore/internal/config"
	"github.com/ekisa-team/voskcore/internal/env"
	"github.com/ekisa-team/voskcore/internal/health"
	"github.com/ekisa-team/voskcore/internal/logger"
	"github.com/ekisa-team/voskcore/internal/manager"
	"github.com/ekisa-team/voskcore/native"
)

func main() {
	var (
		flagGRPCPort   = flag.Int("grpc-port", 0, "gRPC port to listen on (overrides config)")
		flagConfigPath = flag.String("config", filepath.Join(config.DefaultConfigPath(), "config.yaml"), "Path to config file")
		flagSchemaPath = flag.String("schema", "", "Path to schema file (defaults to the embedded schema)")
		flagLogFile    = flag.String("log-file", "logs/voskcore.log", "Path to rotated log file")
	)
	flag.Parse()

	environment := env.FromEnv()

	slog.SetDefault(
		logger.New(environment,
			logger.WithLogToFile(true),
			logger.WithLogFile(*flagLogFile),
		),
	)

	if err := run(*flagConfigPath, *flagSchemaPath, *flagGRPCPort); err != nil {
		slog.Error("voskcore stopped", "error", err)
		os.Exit(1)
	}
}

func run(configPath, schemaPath string, grpcPort int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAndValidate(configPath, schemaPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registry := native.DefaultRegistry()
	if !native.Available() {
		slog.Warn("Native library not compiled in; build with -tags vosk to load models")
	}

	mgr, err := manager.FromConfig(cfg, registry, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			slog.Error("Failed to release model", "error", err)
		}
	}()

	hs := health.New(mgr)

	watcher, err := config.NewWatcher(configPath, schemaPath, func(cfg *config.Config, err error) {
		if err != nil {
			slog.Error("Failed to reload config", "error", err)
			return
		}

		if _, err := mgr.Apply(ctx, cfg, registry); err != nil {
			slog.Error("Failed to load model from config", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	if _, err := mgr.Apply(ctx, watcher.Snapshot(), registry); err != nil {
		// Keep serving NOT_SERVING so a fixed config can be picked up on reload.
		slog.Error("Failed to load model from config", "error", err)
	}

	slog.Info("Config loaded successfully", "config", configPath, "schema", schemaPath)

	if grpcPort == 0 {
		grpcPort = config.ResolveGRPCPort(cfg)
	}

	return hs.Serve(ctx, fmt.Sprintf(":%d", grpcPort))
}
