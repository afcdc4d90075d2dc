// Package cli provides the process setup shared by the budget commands.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"budget/internal/backend"
	"budget/internal/config"
	"budget/internal/log"
)

// SetupLogger initializes structured logging at the given level and sets it
// as the default logger. An empty or unknown level falls back to warn.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	var err error
	if strings.TrimSpace(level) != "" {
		var lvl slog.Level
		if lvl, err = log.ParseLevel(level); err == nil {
			cfg.Level = lvl
		}
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, using default", log.FieldError, err)
	}
	return logger
}

// ConfigureLogger replaces the bootstrap logger with one at the configured level.
func ConfigureLogger(cfg *config.Config) *log.Logger {
	return SetupLogger(cfg.LogLevel)
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Configuration loading failed", log.FieldError, err, log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err, log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}
	return cfg
}

// InitBackend creates the configured store and publisher.
// Returns the backend or exits the process on failure.
func InitBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.BackendResult {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	return res
}

// ExitOnSignal runs cleanup and exits when SIGINT or SIGTERM arrives. Every
// add is already durable, so nothing else needs flushing. The returned stop
// function removes the handler.
func ExitOnSignal(logger *log.Logger, cleanup func() error) (stop func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			if cleanup != nil {
				if err := cleanup(); err != nil {
					logger.OperationFailed(context.Background(), log.OpShutdown, err)
				}
			}
			os.Exit(130)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}
