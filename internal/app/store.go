package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/simaogato/kidbank-backend/internal/adapter/repository/memory"
	"github.com/simaogato/kidbank-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/kidbank-backend/internal/adapter/repository/resilient"
	"github.com/simaogato/kidbank-backend/internal/config"
	"github.com/simaogato/kidbank-backend/internal/domain"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore builds the transaction repository selected by cfg.StoreBackend.
// The postgres backend is migrated when cfg.RunMigrations is set and is wrapped
// with the retry and circuit breaker decorator. The returned Closer releases the connection.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.TransactionRepository, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		logger.Warn("using in-memory store, transactions will not survive a restart")
		return memory.NewTransactionRepository(), nopCloser{}, nil

	case config.StoreBackendPostgres:
		db, err := postgres.NewDB(ctx, cfg.DBConnStr)
		if err != nil {
			return nil, nil, err
		}

		if cfg.RunMigrations {
			if err := postgres.Migrate(db); err != nil {
				db.Close()
				return nil, nil, err
			}
			logger.Info("database migrations applied")
		}

		repo := resilient.NewTransactionRepository(
			postgres.NewTransactionRepository(db),
			resilient.NewCircuitBreaker("postgres-transactions"),
			resilient.DefaultConfig(),
		)
		return repo, db, nil
	}

	return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
}
