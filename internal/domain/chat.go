package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatListEntry - строка инбокса пользователя. Не хранится, собирается
// агрегатором по запросу.
type ChatListEntry struct {
	OrderID           uuid.UUID  `json:"order_id"`
	OrderTitle        string     `json:"order_title"`
	ParticipantID     uuid.UUID  `json:"participant_id"`
	ParticipantName   string     `json:"participant_name"`
	ParticipantAvatar *string    `json:"participant_avatar,omitempty"`
	LastMessage       string     `json:"last_message,omitempty"`
	LastMessageTime   *time.Time `json:"last_message_time,omitempty"`
	UnreadCount       int        `json:"unread_count"`
	IsOnline          bool       `json:"is_online"`
}
