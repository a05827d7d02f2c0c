// Package infra opens the service backends: Postgres (migrated on start when
// enabled) and Redis.
package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/myposcore/backend/internal/config"
	"github.com/myposcore/backend/internal/db"
	"github.com/myposcore/backend/internal/migrations"
	"github.com/myposcore/backend/internal/redis"
)

type Infra struct {
	PG    *pgxpool.Pool
	Redis *goredis.Client
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Infra, error) {
	if cfg.MigrateOnStart {
		if err := migrations.Up(cfg.Postgres.DSN); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := db.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}

	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("infra ready", zap.String("redis", cfg.Redis.Addr))
	return &Infra{PG: pool, Redis: rdb}, nil
}

func (i *Infra) Close() {
	if i == nil {
		return
	}
	if i.PG != nil {
		i.PG.Close()
	}
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
}
