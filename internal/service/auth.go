package service

import (
	"context"

	"github.com/google/uuid"

	"freelance_chat/internal/config"
	"freelance_chat/pkg/errors"
	"freelance_chat/pkg/jwt"
	"freelance_chat/pkg/logger"
)

// Identity - проверенная личность вызывающего. Создаётся один раз на
// соединение и дальше передаётся в каждый обработчик.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Roles  []string
}

// AuthService проверяет подписанные токены внешнего auth-сервиса.
// Выпуск токенов не входит в ядро чата.
type AuthService interface {
	ValidateToken(ctx context.Context, tokenString string) (*Identity, error)
}

type authService struct {
	jwtCfg config.JWTConfig
	log    logger.Logger
}

func NewAuthService(jwtCfg config.JWTConfig, log logger.Logger) AuthService {
	return &authService{jwtCfg: jwtCfg, log: log}
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, errors.ErrUnauthenticated
	}

	claims, err := jwt.ValidateAccessToken(tokenString, s.jwtCfg.Secret)
	if err != nil {
		// Детали причины остаются в логе, наружу уходит единый отказ
		s.log.Debug("Token validation failed", "error", err)
		return nil, errors.ErrUnauthenticated
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.ErrUnauthenticated
	}

	return &Identity{
		UserID: userID,
		Email:  claims.Email,
		Roles:  claims.Roles,
	}, nil
}
