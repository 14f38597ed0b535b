// Package api содержит интерфейсы прикладного уровня сервиса пользователей.
package api

import (
	"context"

	"userhub/internal/users/app/dto"
	"userhub/internal/users/domain/entities"
)

// UserUseCase определяет операции над учетными записями пользователей.
type UserUseCase interface {
	// ListUsers возвращает страницу пользователей и общее количество записей.
	// page нумеруется с единицы, смещение вычисляется как limit*(page-1).
	ListUsers(ctx context.Context, limit, page int) ([]entities.User, int64, error)
	// CreateUser проверяет payload, хэширует пароль, создает пользователя
	// и возвращает его вместе с подписанным токеном доступа.
	CreateUser(ctx context.Context, payload *dto.UserPayload) (*entities.User, string, error)
	// UpdateUser полностью заменяет документ пользователя по ID.
	UpdateUser(ctx context.Context, id string, payload *dto.UserPayload) (*entities.User, error)
	// DeleteUser удаляет пользователя по ID и возвращает прежнее содержимое.
	DeleteUser(ctx context.Context, id string) (*entities.User, error)
}
