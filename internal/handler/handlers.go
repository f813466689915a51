package handler

import (
	"freelance_chat/internal/config"
	"freelance_chat/internal/hub"
	"freelance_chat/internal/service"
	"freelance_chat/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	Chat      *ChatHandler
	WebSocket *WebSocketHandler
}

func NewHandlers(services *service.Services, h *hub.Hub, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(cfg),
		Chat:      NewChatHandler(services.Chat, log),
		WebSocket: NewWebSocketHandler(services.Chat, h, cfg.Chat, log),
	}
}
