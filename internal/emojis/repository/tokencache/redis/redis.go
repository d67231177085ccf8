package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	"github.com/Leopold1975/emoji_best/internal/emojis/repository/tokenrepo"
	"github.com/redis/go-redis/v9"
)

type TokenCache struct {
	rdb     *redis.Client
	expTime time.Duration
}

func New(rdb *redis.Client, expTime time.Duration) TokenCache {
	return TokenCache{
		rdb:     rdb,
		expTime: expTime,
	}
}

func tokenKey(token string) string {
	return "token:" + token
}

// SetToken caches the owner of t until t expires or the cache expiration passes, whichever is first.
func (tc TokenCache) SetToken(ctx context.Context, t models.AccessToken) error {
	ttl := tc.expTime
	if left := time.Until(t.ExpiresAt); left < ttl {
		ttl = left
	}

	if ttl <= 0 {
		return nil
	}

	if err := tc.rdb.Set(ctx, tokenKey(t.Token), t.UserID, ttl).Err(); err != nil {
		return fmt.Errorf("set error: %w", err)
	}

	return nil
}

func (tc TokenCache) GetUserID(ctx context.Context, token string) (int64, error) {
	userID, err := tc.rdb.Get(ctx, tokenKey(token)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, tokenrepo.ErrNotFound
	} else if err != nil {
		return 0, fmt.Errorf("get error: %w", err)
	}

	return userID, nil
}

func (tc TokenCache) DeleteToken(ctx context.Context, token string) error {
	if err := tc.rdb.Del(ctx, tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("del error: %w", err)
	}

	return nil
}
