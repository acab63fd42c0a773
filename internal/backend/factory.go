package backend

import (
	"context"
	"errors"
	"fmt"

	"moneyx/internal/amqp"
	"moneyx/internal/log"
	"moneyx/internal/notify"
	"moneyx/internal/storage"
	"moneyx/internal/store"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend builds the configured persistence plus the sink chain:
// the log sink always, the AMQP publisher when a URL is configured.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var res *BackendResult
	var err error
	switch config.Type {
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(config)
	case MemoryBackend:
		res = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	sinks := notify.Multi{notify.NewLogSink(f.logger)}
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without event feed", log.FieldError, err)
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			sinks = append(sinks, client)
			res.Cleanup = chain(res.Cleanup, client.Close)
		}
	}
	res.Sink = sinks
	return res, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Persister: repo,
		Loader:    repo,
		Ready:     repo.Ping,
		Cleanup:   repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) *BackendResult {
	f.logger.Info("Initialized memory backend", "data_directory", config.DataDirectory)
	return &BackendResult{Cleanup: func() error { return nil }}
}

func chain(fns ...CleanupFunc) CleanupFunc {
	return func() error {
		var errs []error
		for _, fn := range fns {
			if fn != nil {
				errs = append(errs, fn())
			}
		}
		return errors.Join(errs...)
	}
}

// versioned is implemented by loaders that count saved snapshots.
type versioned interface {
	SnapshotVersion(ctx context.Context, userID string) (int64, error)
}

// LoginHook seeds st when a user signs in: the persisted snapshot when the
// loader has one, otherwise the seed file in dataDir or the demo dataset.
func LoginHook(st *store.Store, loader store.Loader, dataDir string, logger *log.Logger) func(ctx context.Context, userID string) error {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentBackend)
	return func(ctx context.Context, userID string) error {
		if loader != nil {
			saved, ok, err := loader.Load(ctx, userID)
			if err != nil {
				return fmt.Errorf("load snapshot for %s: %w", userID, err)
			}
			if ok {
				st.Seed(ctx, userID, saved)
				fields := log.NewFields().WithUser(userID)
				if v, isVersioned := loader.(versioned); isVersioned {
					if n, err := v.SnapshotVersion(ctx, userID); err == nil {
						fields["snapshot_version"] = n
					}
				}
				logger.InfoContext(ctx, "Restored persisted state", fields.ToSlice()...)
				return nil
			}
		}
		initial, err := store.InitialState(dataDir, userID)
		if err != nil {
			return fmt.Errorf("initial state for %s: %w", userID, err)
		}
		st.Seed(ctx, userID, initial)
		return nil
	}
}
