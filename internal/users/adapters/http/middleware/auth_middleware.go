// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"userhub/internal/users/app/dto"
	svc "userhub/internal/users/ports/services"
	"userhub/pkg/logger"
)

// Константы для логирования и сообщений ответа.
const (
	LogAuthMiddleware = "auth middleware"

	// ClaimsKey - ключ Locals, под которым хранятся claims проверенного токена.
	ClaimsKey = "claims"

	ErrorNoAuthHeader = "no authorization header provided"
	ErrorInvalidToken = "token validation failed"

	MsgAccessDenied = "Access denied. No token provided."
	MsgInvalidToken = "Invalid token."
)

// NewAuthMiddleware создает промежуточное ПО для проверки bearer-токена.
// Отсутствие заголовка проверяется до его разбора и дает 401; токен с
// неверной подписью или истекшим сроком действия дает 400.
func NewAuthMiddleware(tokenSvc svc.TokenService) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		authHeader := ctx.Get("Authorization")
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			if err := ctx.Status(fiber.StatusUnauthorized).JSON(dto.Error(MsgAccessDenied)); err != nil {
				return fmt.Errorf("failed to send unauthorized response: %w", err)
			}
			return nil
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := tokenSvc.ValidateToken(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, ErrorInvalidToken, zap.Error(err))
			if err := ctx.Status(fiber.StatusBadRequest).JSON(dto.Error(MsgInvalidToken)); err != nil {
				return fmt.Errorf("failed to send bad request response: %w", err)
			}
			return nil
		}

		ctx.Locals(ClaimsKey, claims)

		return ctx.Next()
	}
}
