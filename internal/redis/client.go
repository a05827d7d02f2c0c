// Redis client and the fixed-window counter behind the rate limiter.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/myposcore/backend/internal/config"
)

// New creates a pooled client and pings it.
func New(cfg config.Redis) (*redis.Client, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return cli, nil
}

// WindowCounter counts hits per key in fixed windows (INCR + EXPIRE).
type WindowCounter struct {
	rdb    redis.Cmdable
	prefix string
}

func NewWindowCounter(rdb redis.Cmdable, prefix string) *WindowCounter {
	return &WindowCounter{rdb: rdb, prefix: prefix}
}

// Hit increments the counter for key and returns the count in the current window.
func (w *WindowCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := w.prefix + key
	count, err := w.rdb.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("rate counter: %w", err)
	}
	if count == 1 {
		w.rdb.Expire(ctx, k, window)
	} else if ttl, err := w.rdb.TTL(ctx, k).Result(); err == nil && ttl < 0 {
		// key lost its expiry (crash between INCR and EXPIRE)
		w.rdb.Expire(ctx, k, window)
	}
	return count, nil
}
