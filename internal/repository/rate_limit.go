package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"freelance_chat/pkg/logger"
)

// RateLimitRepository считает запросы в окне фиксированной длины.
type RateLimitRepository interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error)
}

type rateLimitRepository struct {
	redis *redis.Client
	log   logger.Logger
}

func NewRateLimitRepository(redis *redis.Client, log logger.Logger) RateLimitRepository {
	return &rateLimitRepository{redis: redis, log: log}
}

// Allow инкрементирует счётчик окна и сравнивает с лимитом. Сначала
// INCR, потом проверка: два конкурентных запроса не могут оба пройти
// на последнем свободном слоте.
func (r *rateLimitRepository) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error) {
	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		r.log.Error("Failed to increment rate limit", "error", err)
		return false, 0, err
	}

	// Первый запрос открывает окно
	if count == 1 {
		if err := r.redis.Expire(ctx, key, window).Err(); err != nil {
			r.log.Error("Failed to set rate limit window", "error", err, "key", key)
		}
	}

	return count <= int64(limit), count, nil
}
