package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freelance_chat/internal/domain"
	"freelance_chat/pkg/logger"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	HistoryForOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Message, error)
	HistoryBetween(ctx context.Context, orderID, userA, userB uuid.UUID) ([]*domain.Message, error)
	MarkDelivered(ctx context.Context, orderID, receiverID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, orderID, receiverID uuid.UUID) (int64, error)
	LastMessageBetween(ctx context.Context, orderID, userA, userB uuid.UUID) (*domain.Message, error)
	UnreadCountBetween(ctx context.Context, orderID, receiverID, senderID uuid.UUID) (int, error)
	PurgeAll(ctx context.Context) (int64, error)
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (id, order_id, sender_id, receiver_id, content, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.Status == "" {
		message.Status = domain.MessageStatusSent
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(ctx, query,
		message.ID, message.OrderID, message.SenderID, message.ReceiverID,
		message.Content, message.Status, message.CreatedAt,
	).Scan(&message.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create message", "error", err, "order_id", message.OrderID)
		return err
	}

	return nil
}

func (r *messageRepository) HistoryForOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Message, error) {
	query := `
		SELECT id, order_id, sender_id, receiver_id, content, status, created_at
		FROM messages
		WHERE order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to get order history", "error", err, "order_id", orderID)
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (r *messageRepository) HistoryBetween(ctx context.Context, orderID, userA, userB uuid.UUID) ([]*domain.Message, error) {
	// Симметричный фильтр пары: сообщения в обе стороны
	query := `
		SELECT id, order_id, sender_id, receiver_id, content, status, created_at
		FROM messages
		WHERE order_id = $1
		  AND ((sender_id = $2 AND receiver_id = $3) OR (sender_id = $3 AND receiver_id = $2))
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, orderID, userA, userB)
	if err != nil {
		r.log.Error("Failed to get pair history", "error", err, "order_id", orderID)
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// MarkDelivered переводит все SENT-сообщения получателя в DELIVERED.
// Массовый UPDATE со статусом в WHERE: повторный вызов и параллельные
// вызовы с нескольких устройств безопасны.
func (r *messageRepository) MarkDelivered(ctx context.Context, orderID, receiverID uuid.UUID) (int64, error) {
	query := `
		UPDATE messages
		SET status = $3
		WHERE order_id = $1 AND receiver_id = $2 AND status = $4
	`

	tag, err := r.db.Exec(ctx, query, orderID, receiverID,
		domain.MessageStatusDelivered, domain.MessageStatusSent)
	if err != nil {
		r.log.Error("Failed to mark messages delivered", "error", err, "order_id", orderID)
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// MarkRead переводит SENT и DELIVERED сообщения получателя в READ.
// READ никогда не откатывается назад.
func (r *messageRepository) MarkRead(ctx context.Context, orderID, receiverID uuid.UUID) (int64, error) {
	query := `
		UPDATE messages
		SET status = $3
		WHERE order_id = $1 AND receiver_id = $2 AND status = ANY($4)
	`

	tag, err := r.db.Exec(ctx, query, orderID, receiverID,
		domain.MessageStatusRead,
		[]domain.MessageStatus{domain.MessageStatusSent, domain.MessageStatusDelivered})
	if err != nil {
		r.log.Error("Failed to mark messages read", "error", err, "order_id", orderID)
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (r *messageRepository) LastMessageBetween(ctx context.Context, orderID, userA, userB uuid.UUID) (*domain.Message, error) {
	query := `
		SELECT id, order_id, sender_id, receiver_id, content, status, created_at
		FROM messages
		WHERE order_id = $1
		  AND ((sender_id = $2 AND receiver_id = $3) OR (sender_id = $3 AND receiver_id = $2))
		ORDER BY created_at DESC
		LIMIT 1
	`

	message := &domain.Message{}
	err := r.db.QueryRow(ctx, query, orderID, userA, userB).Scan(
		&message.ID, &message.OrderID, &message.SenderID, &message.ReceiverID,
		&message.Content, &message.Status, &message.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("Failed to get last message", "error", err, "order_id", orderID)
		return nil, err
	}

	return message, nil
}

func (r *messageRepository) UnreadCountBetween(ctx context.Context, orderID, receiverID, senderID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM messages
		WHERE order_id = $1 AND receiver_id = $2 AND sender_id = $3 AND status = ANY($4)
	`

	var count int
	err := r.db.QueryRow(ctx, query, orderID, receiverID, senderID,
		[]domain.MessageStatus{domain.MessageStatusSent, domain.MessageStatusDelivered}).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count unread messages", "error", err, "order_id", orderID)
		return 0, err
	}

	return count, nil
}

// PurgeAll удаляет все сообщения. Обслуживающая операция для
// cmd/purge-messages, в живом протоколе не используется.
func (r *messageRepository) PurgeAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM messages`)
	if err != nil {
		r.log.Error("Failed to purge messages", "error", err)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanMessages(rows pgx.Rows) ([]*domain.Message, error) {
	var messages []*domain.Message
	for rows.Next() {
		message := &domain.Message{}
		err := rows.Scan(
			&message.ID, &message.OrderID, &message.SenderID, &message.ReceiverID,
			&message.Content, &message.Status, &message.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}
