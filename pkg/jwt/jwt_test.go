package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidate(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateAccessToken(userID, "dev@example.com", []string{"customer"}, testSecret, "test", time.Minute)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "dev@example.com", claims.Email)
	assert.Equal(t, []string{"customer"}, claims.Roles)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), "", nil, testSecret, "test", time.Minute)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), "", nil, testSecret, "test", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := ValidateAccessToken("not-a-token", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
