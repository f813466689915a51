package service

import (
	"context"
	"fmt"
	"time"

	"freelance_chat/internal/repository"
	"freelance_chat/pkg/logger"
)

type RateLimitService interface {
	Allow(ctx context.Context, key string, limit, windowSeconds int) (bool, int64, error)
}

type rateLimitService struct {
	rateLimitRepo repository.RateLimitRepository
	log           logger.Logger
}

func NewRateLimitService(rateLimitRepo repository.RateLimitRepository, log logger.Logger) RateLimitService {
	return &rateLimitService{rateLimitRepo: rateLimitRepo, log: log}
}

func (s *rateLimitService) Allow(ctx context.Context, key string, limit, windowSeconds int) (bool, int64, error) {
	return s.rateLimitRepo.Allow(ctx, s.key(key), limit, time.Duration(windowSeconds)*time.Second)
}

func (s *rateLimitService) key(key string) string {
	return fmt.Sprintf("rate_limit:%s", key)
}
