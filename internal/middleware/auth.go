package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"freelance_chat/internal/service"
	"freelance_chat/pkg/logger"
)

type AuthMiddleware struct {
	authService service.AuthService
	tokenCookie string
	log         logger.Logger
}

func NewAuthMiddleware(authService service.AuthService, tokenCookie string, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		tokenCookie: tokenCookie,
		log:         log,
	}
}

// RequireAuth принимает bearer-токен из заголовка Authorization или из
// именованной cookie; оба пути проверяются одинаково. Любой дефект
// токена даёт один и тот же отказ.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.ExtractToken(c.Request)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		identity, err := m.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		c.Set("user_id", identity.UserID)
		c.Set("user_email", identity.Email)
		c.Set("user_roles", identity.Roles)
		c.Next()
	}
}

// ExtractToken достаёт учётные данные рукопожатия: явный bearer-заголовок,
// query-параметр token (для WebSocket-клиентов без заголовков) или cookie.
func (m *AuthMiddleware) ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	if cookie, err := r.Cookie(m.tokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}
