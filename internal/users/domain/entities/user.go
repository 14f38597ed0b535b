// Package entities содержит доменные сущности сервиса пользователей.
package entities

import (
	"errors"
	"time"
)

// Определяем ошибки домена пользователя как константы.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already in use")
)

// User представляет основную сущность домена пользователя.
// PasswordHash всегда содержит bcrypt-хэш, открытый пароль не сохраняется.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Username     string
	PasswordHash string
	Age          int
	URL          string
	Gender       string
	IsActive     bool
	Budget       float64
	CreatedAt    time.Time
}
