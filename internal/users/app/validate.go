// Package app содержит бизнес-логику сервиса пользователей.
package app

import (
	"fmt"

	"userhub/internal/users/app/dto"
)

// ValidationMode определяет режим проверки payload.
type ValidationMode int

// Режимы проверки payload.
const (
	ModeCreate ValidationMode = iota
	ModeUpdate
)

// ValidationError описывает первое не прошедшее проверку поле payload.
type ValidationError struct {
	Field   string
	Message string
}

// Error возвращает человекочитаемое сообщение об ошибке валидации.
func (e *ValidationError) Error() string {
	return e.Message
}

// requiredField возвращает ошибку для отсутствующего или пустого обязательного поля.
func requiredField(field string, value *string) *ValidationError {
	if value == nil {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%q is required", field)}
	}
	if *value == "" {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%q is not allowed to be empty", field)}
	}
	return nil
}

// ValidateUser проверяет payload и возвращает ошибку первого не прошедшего
// проверку поля. Проверка чистая и синхронная, хранилище не затрагивается.
// Режим обновления не ослабляет ни одно из обязательных полей: password
// обязателен и при обновлении. Порядок проверки фиксирован: fname, lname,
// username, password, age, url, gender, isActive, budget; необязательные
// поля проверяются только на тип, что обеспечивает типизированная структура
// payload при разборе JSON.
func ValidateUser(payload *dto.UserPayload, _ ValidationMode) error {
	if err := requiredField("fname", payload.FirstName); err != nil {
		return err
	}
	if err := requiredField("username", payload.Username); err != nil {
		return err
	}
	if err := requiredField("password", payload.Password); err != nil {
		return err
	}
	if err := requiredField("gender", payload.Gender); err != nil {
		return err
	}
	return nil
}
