// Package cli holds the start-up steps shared by the spendlog binaries.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"spendlog/internal/config"
	applog "spendlog/internal/log"
)

// LoadEnvFile loads .env files for local development. A missing file is not
// an error; production sets the environment directly.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// LoadAndValidateConfig reads the environment and validates the result.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the application logger from cfg and installs it as the
// slog default. A nil cfg gives text output at info level.
func SetupLogger(cfg *config.Config, out io.Writer) *applog.Logger {
	lc := applog.DefaultConfig()
	if out != nil {
		lc.Output = out
	}
	if cfg != nil {
		lc.Level = applog.ParseLevel(cfg.LogLevel)
		lc.Format = cfg.LogFormat
	}
	logger := applog.New(lc)
	applog.SetDefault(logger)
	return logger
}

// ShutdownContext returns a context cancelled on SIGINT or SIGTERM.
func ShutdownContext(parent context.Context, logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		if parent.Err() == nil {
			logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)
		}
	}()
	return ctx, stop
}

// Fatal logs err and exits with status 1.
func Fatal(logger *applog.Logger, msg string, err error) {
	logger.Error(msg, applog.FieldError, err)
	fmt.Fprintln(os.Stderr, msg+":", err)
	os.Exit(1)
}
