package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"freelance_chat/pkg/logger"
)

type Repositories struct {
	Order     OrderRepository
	User      UserRepository
	Message   MessageRepository
	RateLimit RateLimitRepository
}

func NewRepositories(db *pgxpool.Pool, redis *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		Order:     NewOrderRepository(db, log),
		User:      NewUserRepository(db, log),
		Message:   NewMessageRepository(db, log),
		RateLimit: NewRateLimitRepository(redis, log),
	}
}
