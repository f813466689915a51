package domain

import (
	"time"

	"github.com/google/uuid"
)

// User - профиль из внешнего users-сервиса, только чтение.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Applicant - фрилансер с заявкой на заказ, в том виде, в котором
// заказчик видит его при выборе собеседника.
type Applicant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar,omitempty"`
}
