// Package hub содержит комнатный мультиплексор: раскладывает живые
// соединения по комнатам заказов и рассылает в них новые сообщения.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"freelance_chat/internal/domain"
	"freelance_chat/pkg/logger"
)

// Hub держит broadcast-группы с ключом orderID. Комната общая на заказ,
// а не на пару собеседников: история при этом фильтруется по паре на
// стороне хранилища.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[*Client]struct{}
	online map[uuid.UUID]int
	log    logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		rooms:  make(map[uuid.UUID]map[*Client]struct{}),
		online: make(map[uuid.UUID]int),
		log:    log,
	}
}

// Register учитывает новое аутентифицированное соединение.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.online[c.UserID]++
}

// Unregister снимает соединение со всех комнат. Вызывается при разрыве
// соединения, повторный вызов безопасен.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for orderID := range c.rooms {
		if clients, ok := h.rooms[orderID]; ok {
			delete(clients, c)
			if len(clients) == 0 {
				delete(h.rooms, orderID)
			}
		}
	}
	c.rooms = make(map[uuid.UUID]struct{})

	if n, ok := h.online[c.UserID]; ok {
		if n <= 1 {
			delete(h.online, c.UserID)
		} else {
			h.online[c.UserID] = n - 1
		}
	}
}

// Join подписывает соединение на комнату заказа. Идемпотентно.
func (h *Hub) Join(c *Client, orderID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[orderID]; !ok {
		h.rooms[orderID] = make(map[*Client]struct{})
	}
	h.rooms[orderID][c] = struct{}{}
	c.rooms[orderID] = struct{}{}
}

// Broadcast доставляет payload каждому сокету, подписанному на комнату.
// Отставшие клиенты (переполненный буфер отправки) пропускают кадр и
// добирают историю при переподключении.
func (h *Hub) Broadcast(orderID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[orderID] {
		if !c.trySend(payload) {
			h.log.Warn("Dropping broadcast frame for slow client",
				"order_id", orderID, "user_id", c.UserID)
		}
	}
}

// BroadcastMessage оборачивает сохранённое сообщение в push-событие
// протокола и рассылает его в комнату заказа.
func (h *Hub) BroadcastMessage(orderID uuid.UUID, message *domain.Message) {
	payload, err := json.Marshal(map[string]any{
		"event":   "message",
		"message": message,
	})
	if err != nil {
		h.log.Error("Failed to marshal broadcast message", "error", err)
		return
	}
	h.Broadcast(orderID, payload)
}

// IsOnline сообщает, есть ли у пользователя хотя бы одно живое соединение.
func (h *Hub) IsOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.online[userID] > 0
}

// RoomSize возвращает число подписанных на комнату соединений.
func (h *Hub) RoomSize(orderID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[orderID])
}
