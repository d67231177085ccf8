package redistools

import (
	"context"
	"fmt"
	"time"

	"github.com/Leopold1975/emoji_best/internal/pkg/config"
	"github.com/redis/go-redis/v9"
)

// NewClient creates a client for cfg and waits until the server answers a ping.
func NewClient(ctx context.Context, cfg config.RedisCache) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{ //nolint:exhaustruct
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := Connect(ctx, rdb); err != nil {
		rdb.Close()

		return nil, fmt.Errorf("connect error: %w", err)
	}

	return rdb, nil
}

func Connect(ctx context.Context, rdb *redis.Client) error {
	errCh := make(chan error)
	go func() {
		defer close(errCh)

		defaultDelay := time.Second

		for {
			if err := rdb.Ping(ctx).Err(); err != nil {
				time.Sleep(defaultDelay)
				defaultDelay += time.Second

				if defaultDelay > time.Second*10 {
					errCh <- fmt.Errorf("cannot ping redis db error: %w", err)

					return
				}

				continue
			}

			break
		}
	}()
	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case err := <-errCh:
		return err
	}
}
