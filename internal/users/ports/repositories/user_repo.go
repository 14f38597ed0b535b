// Package repositories содержит интерфейсы репозиториев для работы с хранилищем.
package repositories

import (
	"context"

	"userhub/internal/users/domain/entities"
)

// UserRepository определяет методы для работы с хранилищем пользователей.
type UserRepository interface {
	// Find возвращает страницу пользователей в естественном порядке хранилища.
	Find(ctx context.Context, limit, offset int) ([]entities.User, error)
	// Count возвращает общее количество пользователей без учета пагинации.
	Count(ctx context.Context) (int64, error)
	// FindByID находит пользователя по идентификатору.
	FindByID(ctx context.Context, id string) (*entities.User, error)
	// FindByUsername находит пользователя по имени пользователя.
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	// Create вставляет нового пользователя и возвращает его с присвоенным ID.
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	// Replace полностью заменяет документ пользователя по ID.
	Replace(ctx context.Context, user *entities.User) (*entities.User, error)
	// Delete удаляет пользователя по ID и возвращает прежнее содержимое документа.
	Delete(ctx context.Context, id string) (*entities.User, error)
}
