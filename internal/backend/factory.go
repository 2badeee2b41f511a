package backend

import (
	"context"
	"errors"
	"fmt"

	"spendlog/internal/amqp"
	applog "spendlog/internal/log"
	"spendlog/internal/services"
	"spendlog/internal/storage"
	"spendlog/internal/storage/memory"
	"spendlog/internal/store"
)

// DefaultFactory implements Factory.
type DefaultFactory struct {
	logger *applog.Logger
}

func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentBackend)}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		repo    store.Repository
		closers []func() error
	)

	switch config.Type {
	case SQLiteBackend:
		sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		repo = sqliteRepo
		closers = append(closers, sqliteRepo.Close)
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	case MemoryBackend:
		dataDir := config.DataDirectory
		if dataDir == "" {
			dataDir = "data"
		}
		repo = memory.NewFromFiles(dataDir)
		f.logger.InfoContext(ctx, "Initialized memory backend", "data_directory", dataDir)

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	syncer, closeSyncer := f.createSyncer(ctx, config)
	if closeSyncer != nil {
		closers = append(closers, closeSyncer)
	}

	return &Result{
		Repository: repo,
		Syncer:     syncer,
		Cleanup: func() error {
			var errs []error
			for i := len(closers) - 1; i >= 0; i-- {
				if err := closers[i](); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}, nil
}

// createSyncer falls back to the stub when the broker is not configured or
// cannot be reached.
func (f *DefaultFactory) createSyncer(ctx context.Context, config Config) (services.Syncer, func() error) {
	stub := services.StubSyncer{Delay: config.SyncStubDelay}
	if config.AMQPURL == "" {
		f.logger.InfoContext(ctx, "Sync uses the stub", "delay", config.SyncStubDelay)
		return stub, nil
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, falling back to stub sync", applog.FieldError, err)
		return stub, nil
	}

	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client, client.Close
}
