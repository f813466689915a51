package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order - заказ из внешнего orders-сервиса. Ядро чата читает его,
// но никогда не изменяет.
type Order struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	CustomerID   uuid.UUID  `json:"customer_id"`
	FreelancerID *uuid.UUID `json:"freelancer_id,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Assigned сообщает, назначен ли на заказ исполнитель.
func (o *Order) Assigned() bool {
	return o.FreelancerID != nil
}

// OrderApplication - заявка фрилансера на заказ. Даёт предварительный
// доступ к чату до назначения исполнителя.
type OrderApplication struct {
	ID           uuid.UUID `json:"id"`
	OrderID      uuid.UUID `json:"order_id"`
	FreelancerID uuid.UUID `json:"freelancer_id"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	OrderStatusOpen       = "open"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
)
