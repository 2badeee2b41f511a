package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"spendlog/internal/backend"
	"spendlog/internal/cache"
	"spendlog/internal/cli"
	"spendlog/internal/config"
	apphttp "spendlog/internal/http"
	applog "spendlog/internal/log"
	"spendlog/internal/services"
	"spendlog/internal/store"
	"spendlog/internal/tips"
)

func main() {
	cli.LoadEnvFile()

	bootLogger := cli.SetupLogger(nil, os.Stdout)
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fatal(bootLogger, "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg, os.Stdout)

	ctx, stop := cli.ShutdownContext(context.Background(), logger)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		cli.Fatal(logger, "Server error", err)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	expenses, err := store.New(ctx, result.Repository)
	if err != nil {
		return err
	}

	tipsCache := cache.NewLRUCache[[]tips.Tip](1, cfg.TipsCacheTTL)
	janitor := cache.NewJanitor(logger)
	janitor.Register(tipsCache)
	janitor.Start(cfg.TipsCacheTTL)
	defer janitor.Stop()

	tipsClient := tips.NewClient(cfg.TipsURL,
		tips.WithTimeout(cfg.TipsTimeout),
		tips.WithAttempts(cfg.TipsRetryAttempts),
		tips.WithLogger(logger))

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Dependencies{
		Expenses: services.NewExpenseService(expenses, logger),
		Views:    services.NewViewService(expenses),
		Sync:     services.NewSyncService(expenses, result.Syncer, logger),
		Tips:     tips.NewLoader(tipsClient, tipsCache, logger),
		Live:     expenses,
		Logger:   logger,
		Location: cfg.Location,

		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	// no WriteTimeout: /expenses/stream holds the response open
	srv.ReadTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting spendlog server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"timezone", cfg.Location.String(),
			"amqp_sync", cfg.SyncEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
