package database

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/config"
)

const (
	maxRetries = 10
	retryDelay = 2 * time.Second
	pingTTL    = 5 * time.Second
)

// Connect opens a pgx pool and retries until Postgres answers a ping.
func Connect(ctx context.Context, cfg *config.Config, lg *logger.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, errors.Wrap(err, "parse database config")
	}
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	for i := 1; i <= maxRetries; i++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			pctx, cancel := context.WithTimeout(ctx, pingTTL)
			err = pool.Ping(pctx)
			cancel()
			if err == nil {
				lg.Info("db_connected", map[string]any{
					"host": cfg.Database.Host, "database": cfg.Database.Database, "attempt": i,
				})
				return pool, nil
			}
			pool.Close()
		}

		lg.Warn("db_connect_retry", map[string]any{"attempt": i, "error": err.Error()})
		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "db connect canceled")
		}
	}

	return nil, errors.Wrapf(err, "database unreachable after %d attempts", maxRetries)
}
