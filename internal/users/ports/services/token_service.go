package services

import (
	"context"
	"time"

	domain "userhub/internal/users/domain/services"
)

// TokenService определяет методы для генерации и проверки токенов доступа.
type TokenService interface {
	// GenerateToken создает подписанный токен с идентификатором и именем пользователя.
	GenerateToken(ctx context.Context, userID, username string) (string, time.Time, error)
	// ValidateToken проверяет подпись и срок действия токена и возвращает claims.
	ValidateToken(ctx context.Context, token string) (*domain.JWTClaims, error)
}
