package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"vibes/internal/backend"
	"vibes/internal/cli"
	apphttp "vibes/internal/http"
	"vibes/internal/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// A bootstrap logger reports problems before LOG_LEVEL is known.
	bootLogger := cli.SetupLogger("info")
	if err := cli.LoadEnvFile(); err != nil {
		bootLogger.Warn("Failed to load .env file", log.FieldError, err)
	}

	cfg, err := cli.LoadAndValidateConfig(bootLogger)
	if err != nil {
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg.LogLevel)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration",
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}
	data, err := backend.New(context.Background(), backendCfg, logger)
	if err != nil {
		logger.Error("Failed to initialize data backend",
			log.FieldError, err,
			log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	srv, err := apphttp.NewServer(cfg, data, logger)
	if err != nil {
		logger.Error("Failed to create server", log.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, srv.Shutdown)

	logger.Info("Starting vibes server",
		log.FieldOperation, log.OpStartup,
		log.FieldPort, cfg.Port,
		log.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, log.FieldPort, cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
