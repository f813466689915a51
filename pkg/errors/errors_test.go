package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized},
		{"unauthorized", ErrUnauthorized, http.StatusForbidden},
		{"order not found", ErrOrderNotFound, http.StatusNotFound},
		{"user not found", ErrUserNotFound, http.StatusNotFound},
		{"bad request", ErrBadRequest, http.StatusBadRequest},
		{"policy violation", NewPolicyError(ReasonSelectionRequired, "choose a counterpart"), http.StatusUnprocessableEntity},
		{"wrapped policy violation", fmt.Errorf("send: %w", NewPolicyError(ReasonNotAnApplicant, "not an applicant")), http.StatusUnprocessableEntity},
		{"wrapped sentinel", fmt.Errorf("join: %w", ErrUnauthorized), http.StatusForbidden},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromError(tt.err))
		})
	}
}

func TestNewPolicyError(t *testing.T) {
	err := NewPolicyError(ReasonNotAnApplicant, "user %s never applied", "f3")
	assert.Equal(t, ReasonNotAnApplicant, err.Reason)
	assert.Equal(t, "user f3 never applied", err.Error())
}
