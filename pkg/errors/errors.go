package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrBadRequest      = errors.New("bad request")
	ErrInternalServer  = errors.New("internal server error")
	ErrOrderNotFound   = errors.New("order not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
)

// Машиночитаемые причины нарушения политики чата.
// Клиент различает "нужно выбрать собеседника" и "отказано".
const (
	ReasonSelectionRequired = "counterpart_selection_required"
	ReasonNotAnApplicant    = "not_an_applicant"
	ReasonNoCounterpart     = "no_counterpart"
)

// PolicyError - отказ по правилам доступа к заказу, операция отклонена,
// но соединение остаётся открытым.
type PolicyError struct {
	Reason  string
	Message string
}

func (e *PolicyError) Error() string {
	return e.Message
}

func NewPolicyError(reason, format string, args ...any) *PolicyError {
	return &PolicyError{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

type APIError struct {
	Message string `json:"error"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string, code int) *APIError {
	return &APIError{
		Message: message,
		Code:    code,
	}
}

func HTTPStatusFromError(err error) int {
	var policyErr *PolicyError
	if errors.As(err, &policyErr) {
		return http.StatusUnprocessableEntity
	}

	switch {
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
