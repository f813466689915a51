package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freelance_chat/internal/domain"
	"freelance_chat/pkg/errors"
)

func newOrder(customerID uuid.UUID, freelancerID *uuid.UUID) *domain.Order {
	return &domain.Order{
		ID:           uuid.New(),
		CustomerID:   customerID,
		FreelancerID: freelancerID,
		Status:       domain.OrderStatusOpen,
	}
}

func applications(orderID uuid.UUID, freelancerIDs ...uuid.UUID) []domain.OrderApplication {
	apps := make([]domain.OrderApplication, 0, len(freelancerIDs))
	for _, id := range freelancerIDs {
		apps = append(apps, domain.OrderApplication{
			ID:           uuid.New(),
			OrderID:      orderID,
			FreelancerID: id,
		})
	}
	return apps
}

func TestCanAccessOrder(t *testing.T) {
	customer := uuid.New()
	assigned := uuid.New()
	applicant := uuid.New()
	stranger := uuid.New()

	order := newOrder(customer, &assigned)
	apps := applications(order.ID, applicant)

	tests := []struct {
		name   string
		userID uuid.UUID
		want   bool
	}{
		{"customer", customer, true},
		{"assigned freelancer", assigned, true},
		{"applicant", applicant, true},
		{"stranger", stranger, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessOrder(order, apps, tt.userID))
		})
	}
}

func TestCanAccessOrder_NilOrder(t *testing.T) {
	assert.False(t, CanAccessOrder(nil, nil, uuid.New()))
}

func TestResolveCounterpart_FreelancerAlwaysTalksToCustomer(t *testing.T) {
	customer := uuid.New()
	freelancer := uuid.New()
	order := newOrder(customer, &freelancer)

	res, err := ResolveCounterpart(order, nil, freelancer, nil)
	require.NoError(t, err)
	assert.False(t, res.RequiresSelection)
	assert.Equal(t, customer, res.CounterpartID)
}

func TestResolveCounterpart_AssignmentIsAuthoritative(t *testing.T) {
	customer := uuid.New()
	f1 := uuid.New()
	f2 := uuid.New()
	order := newOrder(customer, &f1)
	apps := applications(order.ID, f1, f2)

	// Устаревший явный выбор f2 игнорируется: исполнитель уже назначен
	res, err := ResolveCounterpart(order, apps, customer, &f2)
	require.NoError(t, err)
	assert.Equal(t, f1, res.CounterpartID)
}

func TestResolveCounterpart_CustomerWithoutSelection(t *testing.T) {
	customer := uuid.New()
	order := newOrder(customer, nil)
	apps := applications(order.ID, uuid.New(), uuid.New())

	res, err := ResolveCounterpart(order, apps, customer, nil)
	require.NoError(t, err)
	assert.True(t, res.RequiresSelection)
	assert.Equal(t, uuid.Nil, res.CounterpartID)
}

func TestResolveCounterpart_ExplicitApplicant(t *testing.T) {
	customer := uuid.New()
	f1 := uuid.New()
	f2 := uuid.New()
	order := newOrder(customer, nil)
	apps := applications(order.ID, f1, f2)

	res, err := ResolveCounterpart(order, apps, customer, &f1)
	require.NoError(t, err)
	assert.Equal(t, f1, res.CounterpartID)
}

func TestResolveCounterpart_ExplicitNonApplicant(t *testing.T) {
	customer := uuid.New()
	f3 := uuid.New()
	order := newOrder(customer, nil)
	apps := applications(order.ID, uuid.New(), uuid.New())

	_, err := ResolveCounterpart(order, apps, customer, &f3)
	require.Error(t, err)

	policyErr, ok := err.(*errors.PolicyError)
	require.True(t, ok)
	assert.Equal(t, errors.ReasonNotAnApplicant, policyErr.Reason)
}

func TestResolveCounterpart_NilOrder(t *testing.T) {
	_, err := ResolveCounterpart(nil, nil, uuid.New(), nil)
	assert.ErrorIs(t, err, errors.ErrOrderNotFound)
}

func TestResolveReceiver_SelectionRequired(t *testing.T) {
	customer := uuid.New()
	order := newOrder(customer, nil)
	apps := applications(order.ID, uuid.New())

	_, err := ResolveReceiver(order, apps, customer, nil)
	require.Error(t, err)

	policyErr, ok := err.(*errors.PolicyError)
	require.True(t, ok)
	assert.Equal(t, errors.ReasonSelectionRequired, policyErr.Reason)
}

func TestResolveReceiver_FreelancerSendsToCustomer(t *testing.T) {
	customer := uuid.New()
	f1 := uuid.New()
	order := newOrder(customer, nil)
	apps := applications(order.ID, f1)

	receiverID, err := ResolveReceiver(order, apps, f1, nil)
	require.NoError(t, err)
	assert.Equal(t, customer, receiverID)
}
