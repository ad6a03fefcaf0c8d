// Package postgres provides PostgreSQL implementations of the repository
// interfaces, backed by a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hapkiduki/landedcost/internal/domain/repository"
)

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	// URL is the connection string (postgres://...)
	URL string

	// MaxConns caps open connections; zero keeps the default of 5
	MaxConns int32

	// ConnectTimeout bounds the initial ping; zero keeps the default of 5s
	ConnectTimeout time.Duration

	// ApplicationName is reported to the server
	ApplicationName string
}

// NewPool opens a connection pool and verifies it with a ping.
//
// Parameters:
//   - ctx: context for the initial connection
//   - cfg: pool settings
//
// Returns:
//   - *pgxpool.Pool: the pool; the caller must Close it
//   - error: repository.ErrConnectionFailed wrapping the cause
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, errors.New("database url is not set")
	}
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pc.MaxConns = 5
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = 0
	pc.MaxConnLifetime = 30 * time.Minute
	pc.MaxConnIdleTime = 5 * time.Minute
	pc.HealthCheckPeriod = 30 * time.Second

	appName := cfg.ApplicationName
	if appName == "" {
		appName = "landedcost"
	}
	pc.ConnConfig.RuntimeParams["application_name"] = appName
	pc.ConnConfig.RuntimeParams["search_path"] = "public"
	pc.ConnConfig.RuntimeParams["timezone"] = "UTC"
	// Reads are point lookups; anything slower is a problem.
	pc.ConnConfig.RuntimeParams["statement_timeout"] = "5000"

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrConnectionFailed, err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", repository.ErrConnectionFailed, err)
	}
	return pool, nil
}
