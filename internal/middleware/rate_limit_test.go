package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"freelance_chat/pkg/logger"
)

type stubRateLimiter struct {
	allowed bool
	count   int64
	err     error
	lastKey string
}

func (s *stubRateLimiter) Allow(ctx context.Context, key string, limit, windowSeconds int) (bool, int64, error) {
	s.lastKey = key
	return s.allowed, s.count, s.err
}

func performLimited(stub *stubRateLimiter, userID *uuid.UUID) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	if userID != nil {
		id := *userID
		router.Use(func(c *gin.Context) {
			c.Set("user_id", id)
			c.Next()
		})
	}

	m := NewRateLimitMiddleware(stub, logger.New("error"))
	router.POST("/messages", m.Limit(5, 60), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/messages", nil))
	return w
}

func TestLimit_Allowed(t *testing.T) {
	stub := &stubRateLimiter{allowed: true, count: 2}

	w := performLimited(stub, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Remaining"))
}

func TestLimit_Exceeded(t *testing.T) {
	stub := &stubRateLimiter{allowed: false, count: 6}

	w := performLimited(stub, nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestLimit_FailsOpen(t *testing.T) {
	stub := &stubRateLimiter{err: fmt.Errorf("redis down")}

	w := performLimited(stub, nil)

	// Недоступный redis не должен блокировать чат
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLimit_KeyPerUser(t *testing.T) {
	stub := &stubRateLimiter{allowed: true, count: 1}
	userID := uuid.New()

	performLimited(stub, &userID)

	assert.Equal(t, "user:"+userID.String(), stub.lastKey)
}
