// Package access реализует правила доступа к чату заказа как чистые
// функции над значениями. Никакой работы с БД - вызывающая сторона
// передаёт заказ и заявки, уже прочитанные из хранилища.
package access

import (
	"github.com/google/uuid"

	"freelance_chat/internal/domain"
	"freelance_chat/pkg/errors"
)

// Resolution - результат определения собеседника.
// Либо CounterpartID задан, либо RequiresSelection: заказчик должен
// сначала выбрать фрилансера из списка заявок.
type Resolution struct {
	CounterpartID     uuid.UUID
	RequiresSelection bool
}

// CanAccessOrder: доступ есть у заказчика, назначенного исполнителя
// и любого фрилансера с заявкой на заказ. Соединения долгоживущие,
// поэтому проверка повторяется перед каждой изменяющей операцией.
func CanAccessOrder(order *domain.Order, applications []domain.OrderApplication, userID uuid.UUID) bool {
	if order == nil {
		return false
	}
	if order.CustomerID == userID {
		return true
	}
	if order.FreelancerID != nil && *order.FreelancerID == userID {
		return true
	}
	for _, app := range applications {
		if app.FreelancerID == userID {
			return true
		}
	}
	return false
}

// IsApplicant сообщает, есть ли у фрилансера заявка на заказ.
func IsApplicant(applications []domain.OrderApplication, freelancerID uuid.UUID) bool {
	for _, app := range applications {
		if app.FreelancerID == freelancerID {
			return true
		}
	}
	return false
}

// ResolveCounterpart определяет собеседника вызывающего.
//
// Фрилансер всегда говорит с заказчиком. Заказчик с назначенным
// исполнителем говорит с ним, явный выбор игнорируется - назначение
// авторитетно. Заказчик без исполнителя обязан выбрать фрилансера
// из подавших заявку; без выбора возвращается RequiresSelection.
func ResolveCounterpart(order *domain.Order, applications []domain.OrderApplication, userID uuid.UUID, explicitID *uuid.UUID) (Resolution, error) {
	if order == nil {
		return Resolution{}, errors.ErrOrderNotFound
	}

	if order.CustomerID != userID {
		return Resolution{CounterpartID: order.CustomerID}, nil
	}

	if order.FreelancerID != nil {
		return Resolution{CounterpartID: *order.FreelancerID}, nil
	}

	if explicitID == nil {
		return Resolution{RequiresSelection: true}, nil
	}

	if !IsApplicant(applications, *explicitID) {
		return Resolution{}, errors.NewPolicyError(errors.ReasonNotAnApplicant,
			"freelancer %s has not applied for this order", explicitID)
	}

	return Resolution{CounterpartID: *explicitID}, nil
}

// ResolveReceiver - как ResolveCounterpart, но требует однозначного
// результата: отправка сообщения без выбранного получателя невозможна.
func ResolveReceiver(order *domain.Order, applications []domain.OrderApplication, senderID uuid.UUID, explicitID *uuid.UUID) (uuid.UUID, error) {
	res, err := ResolveCounterpart(order, applications, senderID, explicitID)
	if err != nil {
		return uuid.Nil, err
	}
	if res.RequiresSelection {
		return uuid.Nil, errors.NewPolicyError(errors.ReasonSelectionRequired,
			"select an applicant before sending messages")
	}
	return res.CounterpartID, nil
}
