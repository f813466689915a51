package service

import (
	"freelance_chat/internal/config"
	"freelance_chat/internal/repository"
	"freelance_chat/pkg/logger"
)

type Services struct {
	Auth      AuthService
	Chat      ChatService
	RateLimit RateLimitService
}

func NewServices(repos *repository.Repositories, broadcaster Broadcaster, presence Presence, cfg *config.Config, log logger.Logger) *Services {
	return &Services{
		Auth:      NewAuthService(cfg.JWT, log),
		Chat:      NewChatService(repos.Order, repos.User, repos.Message, broadcaster, presence, cfg.Chat, log),
		RateLimit: NewRateLimitService(repos.RateLimit, log),
	}
}
