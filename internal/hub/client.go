package hub

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client - явное состояние одного соединения: проверенная личность плюс
// набор комнат. Живёт ровно столько, сколько физическое соединение.
type Client struct {
	UserID uuid.UUID
	Email  string
	Roles  []string

	conn *websocket.Conn
	send chan []byte

	// rooms защищён мьютексом хаба
	rooms map[uuid.UUID]struct{}

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, userID uuid.UUID, email string, roles []string, sendBuffer int) *Client {
	return &Client{
		UserID: userID,
		Email:  email,
		Roles:  roles,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		rooms:  make(map[uuid.UUID]struct{}),
	}
}

// trySend ставит кадр в очередь отправки без блокировки. Используется
// для broadcast-рассылки: переполненная очередь означает потерю кадра.
func (c *Client) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Reply отправляет синхронный ответ на запрос клиента. В отличие от
// broadcast-кадров ответ не отбрасывается при заполненной очереди:
// отправка ждёт место до writeWait. false означает мёртвое соединение,
// вызывающая сторона обязана его закрыть.
//
// Вызывается только из читающей горутины соединения, поэтому не может
// гоняться с Close.
func (c *Client) Reply(payload []byte) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()

	timer := time.NewTimer(writeWait)
	defer timer.Stop()

	select {
	case c.send <- payload:
		return true
	case <-timer.C:
		return false
	}
}

// Close завершает очередь отправки; write pump после этого закрывает
// соединение. Повторный вызов и поздние broadcast-кадры безопасны.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
	})
}

// ReadMessage блокируется до следующего входящего кадра.
func (c *Client) ReadMessage() ([]byte, error) {
	_, payload, err := c.conn.ReadMessage()
	return payload, err
}

// WritePump сериализует всю запись в сокет: и синхронные ответы, и
// broadcast-кадры проходят через один канал.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SetupRead настраивает лимиты чтения и обработку pong-кадров.
func (c *Client) SetupRead(maxMessageSize int64) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
}
