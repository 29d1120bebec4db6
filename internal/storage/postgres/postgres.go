// Package postgres keeps the leaderboard in PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/scoundrel/internal/config"
)

// ApplicationName is reported by every leaderboard connection.
const ApplicationName = "scoundrel"

// HealthTimeout bounds the readiness check made when the leaderboard opens.
const HealthTimeout = 5 * time.Second

// ErrSchemaMissing is returned by Health when the scores table has not been migrated.
var ErrSchemaMissing = errors.New("leaderboard schema is not migrated")

// Pool is the leaderboard's connection pool.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the leaderboard database.
//
// Precondition: cfg must hold valid connection parameters.
// Postcondition: Returns a pool that answered a ping, or a non-nil error with nothing left open.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return &Pool{pool: pool}, nil
}

// Health reports whether the database answers within timeout and the scores
// table exists.
//
// Postcondition: Returns nil, ErrSchemaMissing, or a wrapped connection error.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var migrated bool
	if err := p.pool.QueryRow(ctx, `SELECT to_regclass('scores') IS NOT NULL`).Scan(&migrated); err != nil {
		return fmt.Errorf("checking leaderboard database: %w", err)
	}
	if !migrated {
		return ErrSchemaMissing
	}
	return nil
}

// Scores returns the leaderboard repository over this pool.
func (p *Pool) Scores() *ScoreRepository {
	return NewScoreRepository(p.pool)
}

// DB returns the underlying pgx pool.
func (p *Pool) DB() *pgxpool.Pool { return p.pool }

// Close releases every connection.
func (p *Pool) Close() { p.pool.Close() }
