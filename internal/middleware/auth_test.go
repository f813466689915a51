package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freelance_chat/internal/config"
	"freelance_chat/internal/service"
	"freelance_chat/pkg/jwt"
	"freelance_chat/pkg/logger"
)

const (
	testSecret = "test-secret"
	testCookie = "access_token"
)

func newAuthMiddleware() *AuthMiddleware {
	log := logger.New("error")
	authService := service.NewAuthService(config.JWTConfig{Secret: testSecret, Issuer: "test"}, log)
	return NewAuthMiddleware(authService, testCookie, log)
}

func issueToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(userID, "dev@example.com", []string{"customer"}, testSecret, "test", time.Minute)
	require.NoError(t, err)
	return token
}

func TestExtractToken(t *testing.T) {
	m := newAuthMiddleware()

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		want    string
	}{
		{
			name: "bearer header",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer from-header")
			},
			want: "from-header",
		},
		{
			name: "query parameter",
			prepare: func(r *http.Request) {
				q := r.URL.Query()
				q.Set("token", "from-query")
				r.URL.RawQuery = q.Encode()
			},
			want: "from-query",
		},
		{
			name: "cookie",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: testCookie, Value: "from-cookie"})
			},
			want: "from-cookie",
		},
		{
			name: "header wins over cookie",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer from-header")
				r.AddCookie(&http.Cookie{Name: testCookie, Value: "from-cookie"})
			},
			want: "from-header",
		},
		{
			name: "malformed header ignored",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Basic abc")
			},
			want: "",
		},
		{
			name:    "no credentials",
			prepare: func(r *http.Request) {},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws/chat", nil)
			tt.prepare(r)
			assert.Equal(t, tt.want, m.ExtractToken(r))
		})
	}
}

func performRequest(m *AuthMiddleware, prepare func(r *http.Request)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		userID := c.MustGet("user_id").(uuid.UUID)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	prepare(r)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	m := newAuthMiddleware()
	userID := uuid.New()
	token := issueToken(t, userID)

	w := performRequest(m, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestRequireAuth_CookieToken(t *testing.T) {
	m := newAuthMiddleware()
	token := issueToken(t, uuid.New())

	w := performRequest(m, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	m := newAuthMiddleware()

	w := performRequest(m, func(r *http.Request) {})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	m := newAuthMiddleware()

	w := performRequest(m, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer garbage")
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// Единый отказ: текст не раскрывает причину
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	m := newAuthMiddleware()
	token, err := jwt.GenerateAccessToken(uuid.New(), "", nil, testSecret, "test", -time.Minute)
	require.NoError(t, err)

	w := performRequest(m, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
