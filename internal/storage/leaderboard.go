// Package storage selects the leaderboard backend named by configuration.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/scoundrel/internal/config"
	"github.com/cory-johannsen/scoundrel/internal/leaderboard"
	"github.com/cory-johannsen/scoundrel/internal/storage/postgres"
	"github.com/cory-johannsen/scoundrel/internal/storage/sqlite"
)

// OpenLeaderboard returns the configured Store and a func releasing it.
// Both SQL backends apply pending migrations; postgres then connects and
// checks that the schema is in place.
//
// Precondition: cfg must be validated; logger must be non-nil.
// Postcondition: on success the close func is non-nil and safe to defer.
func OpenLeaderboard(ctx context.Context, cfg config.Config, logger *zap.Logger) (leaderboard.Store, func(), error) {
	switch cfg.Leaderboard.Backend {
	case config.BackendPostgres:
		if err := postgres.MigrateUp(cfg.Database.DSN()); err != nil {
			return nil, nil, fmt.Errorf("migrating leaderboard schema: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting leaderboard database: %w", err)
		}
		if err := pool.Health(ctx, postgres.HealthTimeout); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("leaderboard database not ready: %w", err)
		}
		logger.Info("leaderboard backend ready",
			zap.String("backend", cfg.Leaderboard.Backend),
			zap.String("host", cfg.Database.Host),
		)
		return pool.Scores(), pool.Close, nil
	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.Leaderboard.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening leaderboard database: %w", err)
		}
		logger.Info("leaderboard backend ready",
			zap.String("backend", cfg.Leaderboard.Backend),
			zap.String("path", cfg.Leaderboard.SQLitePath),
		)
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing leaderboard database", zap.Error(err))
			}
		}, nil
	default:
		logger.Info("leaderboard backend ready",
			zap.String("backend", cfg.Leaderboard.Backend),
			zap.String("path", cfg.Leaderboard.Path),
		)
		return leaderboard.NewFileStore(cfg.Leaderboard.Path, logger), func() {}, nil
	}
}
