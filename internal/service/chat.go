package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"freelance_chat/internal/access"
	"freelance_chat/internal/config"
	"freelance_chat/internal/domain"
	"freelance_chat/internal/repository"
	"freelance_chat/pkg/errors"
	"freelance_chat/pkg/logger"
)

// Broadcaster рассылает сохранённое сообщение в живую комнату заказа.
// Реализуется хабом; nil допустим (например, в утилитах).
type Broadcaster interface {
	BroadcastMessage(orderID uuid.UUID, message *domain.Message)
}

// Presence отвечает, есть ли у пользователя живое соединение.
type Presence interface {
	IsOnline(userID uuid.UUID) bool
}

// JoinResult - ответ на joinOrder. Либо история с собеседником, либо
// список заявителей, из которых заказчик должен выбрать.
type JoinResult struct {
	CounterpartID     uuid.UUID
	RequiresSelection bool
	Messages          []*domain.Message
	Applicants        []domain.Applicant
}

type ChatService interface {
	JoinOrder(ctx context.Context, orderID, userID uuid.UUID, explicitFreelancerID *uuid.UUID) (*JoinResult, error)
	SendMessage(ctx context.Context, orderID, senderID uuid.UUID, content string, explicitReceiverID *uuid.UUID) (*domain.Message, error)
	HistoryForOrder(ctx context.Context, orderID, userID uuid.UUID) ([]*domain.Message, error)
	MarkDelivered(ctx context.Context, orderID, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, orderID, userID uuid.UUID) (int64, error)
	ListChats(ctx context.Context, userID uuid.UUID) ([]*domain.ChatListEntry, error)
}

type chatService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	broadcaster Broadcaster
	presence    Presence
	chatCfg     config.ChatConfig
	log         logger.Logger
}

func NewChatService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	messageRepo repository.MessageRepository,
	broadcaster Broadcaster,
	presence Presence,
	chatCfg config.ChatConfig,
	log logger.Logger,
) ChatService {
	return &chatService{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		messageRepo: messageRepo,
		broadcaster: broadcaster,
		presence:    presence,
		chatCfg:     chatCfg,
		log:         log,
	}
}

// authorize перечитывает заказ и заявки и заново проверяет доступ.
// Авторизация может измениться посреди долгоживущего соединения,
// поэтому кешировать результат нельзя.
func (s *chatService) authorize(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, []domain.OrderApplication, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	applications, err := s.orderRepo.ListApplications(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	if !access.CanAccessOrder(order, applications, userID) {
		return nil, nil, errors.ErrUnauthorized
	}

	return order, applications, nil
}

func (s *chatService) JoinOrder(ctx context.Context, orderID, userID uuid.UUID, explicitFreelancerID *uuid.UUID) (*JoinResult, error) {
	order, applications, err := s.authorize(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	resolution, err := access.ResolveCounterpart(order, applications, userID, explicitFreelancerID)
	if err != nil {
		return nil, err
	}

	if resolution.RequiresSelection {
		applicants, err := s.orderRepo.ListApplicants(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return &JoinResult{
			RequiresSelection: true,
			Applicants:        applicants,
			Messages:          []*domain.Message{},
		}, nil
	}

	messages, err := s.messageRepo.HistoryBetween(ctx, orderID, userID, resolution.CounterpartID)
	if err != nil {
		return nil, err
	}

	// Получатель забрал историю - его входящие SENT становятся DELIVERED
	if _, err := s.messageRepo.MarkDelivered(ctx, orderID, userID); err != nil {
		s.log.Warn("Failed to mark messages delivered on join", "error", err, "order_id", orderID)
	}

	return &JoinResult{
		CounterpartID: resolution.CounterpartID,
		Messages:      messages,
	}, nil
}

func (s *chatService) SendMessage(ctx context.Context, orderID, senderID uuid.UUID, content string, explicitReceiverID *uuid.UUID) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.ErrBadRequest
	}
	if s.chatCfg.MaxMessageLength > 0 && len(content) > s.chatCfg.MaxMessageLength {
		return nil, errors.ErrBadRequest
	}

	order, applications, err := s.authorize(ctx, orderID, senderID)
	if err != nil {
		return nil, err
	}

	receiverID, err := access.ResolveReceiver(order, applications, senderID, explicitReceiverID)
	if err != nil {
		return nil, err
	}

	message := &domain.Message{
		OrderID:    orderID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Status:     domain.MessageStatusSent,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	// Сообщение уже durable; рассылка best-effort, отключившиеся
	// клиенты доберут его из истории
	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessage(orderID, message)
	}

	return message, nil
}

func (s *chatService) HistoryForOrder(ctx context.Context, orderID, userID uuid.UUID) ([]*domain.Message, error) {
	if _, _, err := s.authorize(ctx, orderID, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.HistoryForOrder(ctx, orderID)
}

func (s *chatService) MarkDelivered(ctx context.Context, orderID, userID uuid.UUID) (int64, error) {
	if _, _, err := s.authorize(ctx, orderID, userID); err != nil {
		return 0, err
	}
	return s.messageRepo.MarkDelivered(ctx, orderID, userID)
}

func (s *chatService) MarkRead(ctx context.Context, orderID, userID uuid.UUID) (int64, error) {
	if _, _, err := s.authorize(ctx, orderID, userID); err != nil {
		return 0, err
	}
	return s.messageRepo.MarkRead(ctx, orderID, userID)
}

type chatPair struct {
	order         *domain.Order
	counterpartID uuid.UUID
}

// ListChats собирает инбокс пользователя из трёх источников: его заказы
// с назначенным исполнителем, его заказы с заявками до назначения
// (по записи на заявителя) и заказы, где он сам исполнитель или
// заявитель. Пары (orderID, counterpartID) дедуплицируются.
func (s *chatService) ListChats(ctx context.Context, userID uuid.UUID) ([]*domain.ChatListEntry, error) {
	var pairs []chatPair

	asCustomer, err := s.orderRepo.OrdersAsCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, order := range asCustomer {
		if order.Assigned() {
			pairs = append(pairs, chatPair{order: order, counterpartID: *order.FreelancerID})
			continue
		}
		applications, err := s.orderRepo.ListApplications(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		for _, app := range applications {
			pairs = append(pairs, chatPair{order: order, counterpartID: app.FreelancerID})
		}
	}

	asFreelancer, err := s.orderRepo.OrdersAsFreelancer(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, order := range asFreelancer {
		pairs = append(pairs, chatPair{order: order, counterpartID: order.CustomerID})
	}

	pairs = lo.UniqBy(pairs, func(p chatPair) string {
		return p.order.ID.String() + "/" + p.counterpartID.String()
	})

	counterpartIDs := lo.Uniq(lo.Map(pairs, func(p chatPair, _ int) uuid.UUID {
		return p.counterpartID
	}))
	users, err := s.userRepo.GetByIDs(ctx, counterpartIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.ChatListEntry, 0, len(pairs))
	for _, p := range pairs {
		entry := &domain.ChatListEntry{
			OrderID:       p.order.ID,
			OrderTitle:    p.order.Title,
			ParticipantID: p.counterpartID,
		}
		if user, ok := users[p.counterpartID]; ok {
			entry.ParticipantName = user.Name
			entry.ParticipantAvatar = user.AvatarURL
		}

		last, err := s.messageRepo.LastMessageBetween(ctx, p.order.ID, userID, p.counterpartID)
		if err != nil {
			return nil, err
		}
		if last != nil {
			entry.LastMessage = last.Content
			t := last.CreatedAt
			entry.LastMessageTime = &t
		}

		unread, err := s.messageRepo.UnreadCountBetween(ctx, p.order.ID, userID, p.counterpartID)
		if err != nil {
			return nil, err
		}
		entry.UnreadCount = unread

		if s.presence != nil {
			entry.IsOnline = s.presence.IsOnline(p.counterpartID)
		}

		entries = append(entries, entry)
	}

	// Свежие переписки сверху, чаты без сообщений в конце
	sort.SliceStable(entries, func(i, j int) bool {
		ti, tj := entries[i].LastMessageTime, entries[j].LastMessageTime
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})

	return entries, nil
}
