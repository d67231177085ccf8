package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	"github.com/Leopold1975/emoji_best/internal/emojis/repository/emojirepo"
	"github.com/redis/go-redis/v9"
)

type EmojiCache struct {
	rdb     *redis.Client
	expTime time.Duration
}

func New(rdb *redis.Client, expTime time.Duration) EmojiCache {
	return EmojiCache{
		rdb:     rdb,
		expTime: expTime,
	}
}

func emojiKey(id int64) string {
	return fmt.Sprintf("emoji:%d", id)
}

func (ec EmojiCache) SetEmoji(ctx context.Context, emoji models.Emoji) error {
	emojiJSON, err := json.Marshal(emoji)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := ec.rdb.Set(ctx, emojiKey(emoji.ID), emojiJSON, ec.expTime).Err(); err != nil {
		return fmt.Errorf("set error: %w", err)
	}

	return nil
}

func (ec EmojiCache) GetEmoji(ctx context.Context, id int64) (models.Emoji, error) {
	emojiJSON, err := ec.rdb.Get(ctx, emojiKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Emoji{}, emojirepo.ErrNotFound
	} else if err != nil {
		return models.Emoji{}, fmt.Errorf("get error: %w", err)
	}

	var emoji models.Emoji

	if err := json.Unmarshal(emojiJSON, &emoji); err != nil {
		return models.Emoji{}, fmt.Errorf("unmarshal error: %w", err)
	}

	return emoji, nil
}

func (ec EmojiCache) DeleteEmoji(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, emojiKey(id))
	}

	if err := ec.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("del error: %w", err)
	}

	return nil
}
