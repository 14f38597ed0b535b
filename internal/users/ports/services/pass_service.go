// Package services содержит интерфейсы сервисов паролей и токенов.
package services

import "context"

// PasswordService определяет методы для хэширования и проверки паролей.
type PasswordService interface {
	// Hash возвращает соленый одноcторонний хэш пароля.
	Hash(ctx context.Context, password string) (string, error)
	// Verify проверяет соответствие пароля хэшу.
	Verify(ctx context.Context, password, hash string) (bool, error)
}
