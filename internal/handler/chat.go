package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freelance_chat/internal/service"
	"freelance_chat/pkg/logger"
)

type ChatHandler struct {
	chatService service.ChatService
	log         logger.Logger
}

func NewChatHandler(chatService service.ChatService, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		log:         log,
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	return userID, ok
}

// GetChats возвращает инбокс вызывающего.
func (h *ChatHandler) GetChats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	entries, err := h.chatService.ListChats(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetMessages отдаёт полную историю заказа. Доступ проверяется заново
// на каждый вызов.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	messages, err := h.chatService.HistoryForOrder(c.Request.Context(), orderID, userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

type CreateMessageRequest struct {
	OrderID    uuid.UUID  `json:"orderId" binding:"required"`
	Content    string     `json:"content" binding:"required"`
	ReceiverID *uuid.UUID `json:"receiverId,omitempty"`
}

func (h *ChatHandler) CreateMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), req.OrderID, userID, req.Content, req.ReceiverID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// MarkDelivered массово переводит входящие SENT вызывающего в DELIVERED.
func (h *ChatHandler) MarkDelivered(c *gin.Context) {
	h.markStatus(c, h.chatService.MarkDelivered)
}

// MarkRead массово переводит входящие вызывающего в READ.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	h.markStatus(c, h.chatService.MarkRead)
}

func (h *ChatHandler) markStatus(c *gin.Context, mark func(ctx context.Context, orderID, userID uuid.UUID) (int64, error)) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	updated, err := mark(c.Request.Context(), orderID, userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
