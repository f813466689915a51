package handler

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"freelance_chat/internal/config"
	"freelance_chat/internal/hub"
	"freelance_chat/internal/service"
	"freelance_chat/pkg/errors"
	"freelance_chat/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // В продакшене нужно проверять origin
	},
}

const (
	eventJoinOrder = "joinOrder"
	eventMessage   = "message"

	opTimeout = 10 * time.Second
)

// wsRequest - входящий кадр протокола чата.
type wsRequest struct {
	Event        string     `json:"event"`
	OrderID      uuid.UUID  `json:"orderId"`
	FreelancerID *uuid.UUID `json:"freelancerId,omitempty"`
	ReceiverID   *uuid.UUID `json:"receiverId,omitempty"`
	Content      string     `json:"content,omitempty"`
}

type WebSocketHandler struct {
	chatService service.ChatService
	hub         *hub.Hub
	chatCfg     config.ChatConfig
	log         logger.Logger
}

func NewWebSocketHandler(chatService service.ChatService, h *hub.Hub, chatCfg config.ChatConfig, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		chatService: chatService,
		hub:         h,
		chatCfg:     chatCfg,
		log:         log,
	}
}

// HandleChat обслуживает одно WebSocket-соединение. Аутентификация уже
// выполнена middleware до апгрейда: непрошедшее соединение отклоняется
// раньше, чем сюда попадёт. Дальше личность не перепроверяется, а вот
// доступ к заказу - на каждой операции.
func (h *WebSocketHandler) HandleChat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	email := c.GetString("user_email")
	roles, _ := c.Get("user_roles")
	roleList, _ := roles.([]string)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := hub.NewClient(conn, userID, email, roleList, h.chatCfg.SendBufferSize)
	h.hub.Register(client)
	h.log.Debug("Chat connection established", "user_id", userID)

	go client.WritePump()

	defer func() {
		h.hub.Unregister(client)
		client.Close()
		h.log.Debug("Chat connection closed", "user_id", userID)
	}()

	client.SetupRead(int64(h.chatCfg.MaxMessageLength) + 1024)

	// Кадры одного соединения обрабатываются строго по одному: ответ
	// на join уходит раньше, чем начнёт обрабатываться следующий send.
	// Недоставленный ответ означает мёртвое соединение - оно
	// закрывается, клиент переподключится и доберёт историю
	for {
		payload, err := client.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("Unexpected connection close", "error", err, "user_id", userID)
			}
			return
		}

		if !h.dispatch(c.Request.Context(), client, payload) {
			h.log.Warn("Reply undeliverable, closing connection", "user_id", userID)
			return
		}
	}
}

func (h *WebSocketHandler) dispatch(ctx context.Context, client *hub.Client, payload []byte) bool {
	var req wsRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return h.replyError(client, errors.ErrBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	switch req.Event {
	case eventJoinOrder:
		return h.handleJoinOrder(ctx, client, &req)
	case eventMessage:
		return h.handleMessage(ctx, client, &req)
	default:
		return h.replyError(client, errors.ErrBadRequest)
	}
}

func (h *WebSocketHandler) handleJoinOrder(ctx context.Context, client *hub.Client, req *wsRequest) bool {
	result, err := h.chatService.JoinOrder(ctx, req.OrderID, client.UserID, req.FreelancerID)
	if err != nil {
		return h.replyError(client, err)
	}

	// Подписка общая на заказ; история уже отфильтрована по паре
	h.hub.Join(client, req.OrderID)

	if result.RequiresSelection {
		return h.reply(client, gin.H{
			"event":      eventJoinOrder,
			"applicants": result.Applicants,
			"messages":   result.Messages,
		})
	}

	return h.reply(client, gin.H{
		"event":    eventJoinOrder,
		"messages": result.Messages,
	})
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, client *hub.Client, req *wsRequest) bool {
	message, err := h.chatService.SendMessage(ctx, req.OrderID, client.UserID, req.Content, req.ReceiverID)
	if err != nil {
		return h.replyError(client, err)
	}

	// Рассылку в комнату уже сделал сервис; отправителю уходит
	// синхронное подтверждение с сохранённым сообщением
	return h.reply(client, gin.H{
		"event":   eventMessage,
		"message": message,
	})
}

// reply доставляет синхронный ответ. false - ответ доставить нельзя,
// соединение подлежит закрытию.
func (h *WebSocketHandler) reply(client *hub.Client, body gin.H) bool {
	payload, err := json.Marshal(body)
	if err != nil {
		h.log.Error("Failed to marshal ws response", "error", err)
		return false
	}
	return client.Reply(payload)
}

// replyError всегда отвечает структурно: соединение рвётся только из-за
// аутентификации, все остальные отказы остаются в рамках операции.
func (h *WebSocketHandler) replyError(client *hub.Client, err error) bool {
	body := gin.H{
		"error":   true,
		"message": err.Error(),
	}

	var policyErr *errors.PolicyError
	if stderrors.As(err, &policyErr) {
		body["reason"] = policyErr.Reason
	}

	return h.reply(client, body)
}
