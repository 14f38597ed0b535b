// Package users содержит HTTP обработчики операций над учетными записями.
package users

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"userhub/internal/users/app"
	"userhub/internal/users/app/dto"
	"userhub/internal/users/domain/entities"
	"userhub/internal/users/ports/api"
	"userhub/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerListUsers  = "handling list users request"
	LogHandlerCreateUser = "handling create user request"
	LogHandlerUpdateUser = "handling update user request"
	LogHandlerDeleteUser = "handling delete user request"

	ErrMsgInvalidPagination  = "invalid pagination parameters"
	ErrMsgInvalidRequestBody = "invalid request body"
)

// Сообщения ответов API, совпадающие с контрактом маршрутов.
const (
	MsgAllUsers          = "All users"
	MsgNoUsersFound      = "No users found."
	MsgUserCreated       = "User created"
	MsgUserUpdated       = "User updated"
	MsgUserDeleted       = "User deleted"
	MsgUserNotFound      = "User not found"
	MsgUsernameInUse     = "Username already in use"
	MsgServerError       = "Server error"
	MsgInvalidPagination = "Invalid pagination parameters"
	MsgInvalidBody       = "Invalid request body"
)

// Параметры пагинации по умолчанию: limit 10, skip 1 (номер страницы).
const (
	defaultLimit = "10"
	defaultSkip  = "1"
)

// Handler содержит HTTP обработчики операций над пользователями.
type Handler struct {
	userService api.UserUseCase
}

// NewHandler создает новый экземпляр обработчика пользователей.
func NewHandler(userService api.UserUseCase) *Handler {
	return &Handler{
		userService: userService,
	}
}

// sendEnvelope отправляет единый конверт ответа с указанным статусом.
func sendEnvelope(ctx fiber.Ctx, statusCode int, envelope dto.Envelope) error {
	if err := ctx.Status(statusCode).JSON(envelope); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// handleError сопоставляет ошибку операции с конвертом ответа.
func handleError(ctx fiber.Ctx, err error) error {
	var validationErr *app.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return sendEnvelope(ctx, fiber.StatusBadRequest, dto.Error(validationErr.Message))
	case errors.Is(err, entities.ErrUsernameTaken):
		return sendEnvelope(ctx, fiber.StatusBadRequest, dto.Warning(MsgUsernameInUse))
	case errors.Is(err, entities.ErrUserNotFound):
		return sendEnvelope(ctx, fiber.StatusNotFound, dto.Warning(MsgUserNotFound))
	default:
		return sendEnvelope(ctx, fiber.StatusInternalServerError, dto.Error(MsgServerError))
	}
}

// ListUsers обрабатывает запрос на постраничный список пользователей.
// Пароли в ответе не возвращаются, total содержит общее число записей.
func (h *Handler) ListUsers(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.ListUsers"))
	log.Debug(requestCtx, LogHandlerListUsers)

	limitStr := ctx.Query("limit", defaultLimit)
	skipStr := ctx.Query("skip", defaultSkip)

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		log.Debug(requestCtx, ErrMsgInvalidPagination, zap.Error(err))
		return sendEnvelope(ctx, fiber.StatusBadRequest, dto.Error(MsgInvalidPagination))
	}

	skip, err := strconv.Atoi(skipStr)
	if err != nil {
		log.Debug(requestCtx, ErrMsgInvalidPagination, zap.Error(err))
		return sendEnvelope(ctx, fiber.StatusBadRequest, dto.Error(MsgInvalidPagination))
	}

	foundUsers, total, err := h.userService.ListUsers(requestCtx, limit, skip)
	if err != nil {
		log.Error(requestCtx, "failed to list users", zap.Error(err))
		return handleError(ctx, err)
	}

	// Пустая страница дает 404 и для запросов за пределами данных.
	if len(foundUsers) == 0 {
		return sendEnvelope(ctx, fiber.StatusNotFound, dto.Warning(MsgNoUsersFound))
	}

	envelope := dto.Success(MsgAllUsers, dto.NewUserListResponse(foundUsers))
	envelope.Total = &total
	return sendEnvelope(ctx, fiber.StatusOK, envelope)
}

// CreateUser обрабатывает запрос на создание нового пользователя.
func (h *Handler) CreateUser(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.CreateUser"))
	log.Debug(requestCtx, LogHandlerCreateUser)

	var payload dto.UserPayload
	if err := ctx.Bind().Body(&payload); err != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendEnvelope(ctx, fiber.StatusBadRequest, dto.Error(MsgInvalidBody))
	}

	created, token, err := h.userService.CreateUser(requestCtx, &payload)
	if err != nil {
		log.Debug(requestCtx, "failed to create user", zap.Error(err))
		return handleError(ctx, err)
	}

	response := dto.CreatedUserResponse{
		User:  dto.NewUserResponse(created),
		Token: token,
	}
	return sendEnvelope(ctx, fiber.StatusCreated, dto.Success(MsgUserCreated, response))
}

// UpdateUser обрабатывает запрос на полную замену документа пользователя.
func (h *Handler) UpdateUser(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.UpdateUser"))
	log.Debug(requestCtx, LogHandlerUpdateUser)

	userID := ctx.Params("id")

	var payload dto.UserPayload
	if err := ctx.Bind().Body(&payload); err != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendEnvelope(ctx, fiber.StatusBadRequest, dto.Error(MsgInvalidBody))
	}

	updated, err := h.userService.UpdateUser(requestCtx, userID, &payload)
	if err != nil {
		log.Debug(requestCtx, "failed to update user", zap.Error(err))
		return handleError(ctx, err)
	}

	return sendEnvelope(ctx, fiber.StatusOK, dto.Success(MsgUserUpdated, dto.NewUserResponse(updated)))
}

// DeleteUser обрабатывает запрос на удаление пользователя.
func (h *Handler) DeleteUser(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.DeleteUser"))
	log.Debug(requestCtx, LogHandlerDeleteUser)

	userID := ctx.Params("id")

	deleted, err := h.userService.DeleteUser(requestCtx, userID)
	if err != nil {
		log.Debug(requestCtx, "failed to delete user", zap.Error(err))
		return handleError(ctx, err)
	}

	return sendEnvelope(ctx, fiber.StatusOK, dto.Success(MsgUserDeleted, dto.NewUserResponse(deleted)))
}
