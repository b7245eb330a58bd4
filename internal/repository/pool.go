package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/botforge/chatbot-backend/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var poolInit struct {
	once sync.Once
	pool *pgxpool.Pool
	err  error
}

// Connect returns the shared connection pool, creating it on first use.
// Concurrent first callers block on the same initialization and observe
// the same outcome.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolInit.once.Do(func() {
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			poolInit.err = fmt.Errorf("parse database URL: %w", err)
			return
		}

		poolConfig.MaxConns = int32(cfg.DBMaxConns)
		poolConfig.MinConns = int32(cfg.DBMinConns)
		poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
		poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
		poolConfig.HealthCheckPeriod = cfg.DBHealthCheckPeriod

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			poolInit.err = fmt.Errorf("create connection pool: %w", err)
			return
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			poolInit.err = fmt.Errorf("ping database: %w", err)
			return
		}

		logger.Info("database connection pool established",
			zap.Int32("max_conns", poolConfig.MaxConns),
			zap.Int32("min_conns", poolConfig.MinConns),
			zap.Duration("max_conn_lifetime", poolConfig.MaxConnLifetime),
		)

		poolInit.pool = pool
	})

	return poolInit.pool, poolInit.err
}
