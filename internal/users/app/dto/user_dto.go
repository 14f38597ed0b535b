// Package dto содержит объекты передачи данных сервиса пользователей.
package dto

import (
	"time"

	"userhub/internal/users/domain/entities"
)

// UserPayload содержит данные входящего запроса на создание или обновление
// пользователя. Указатели отличают отсутствующие поля от пустых значений.
type UserPayload struct {
	FirstName *string  `json:"fname"`
	LastName  *string  `json:"lname"`
	Username  *string  `json:"username"`
	Password  *string  `json:"password"`
	Age       *int     `json:"age"`
	URL       *string  `json:"url"`
	Gender    *string  `json:"gender"`
	IsActive  *bool    `json:"isActive"`
	Budget    *float64 `json:"budget"`
}

// ToEntity преобразует payload в доменную сущность, подставляя значения
// по умолчанию для отсутствующих необязательных полей.
func (p *UserPayload) ToEntity() *entities.User {
	user := &entities.User{
		IsActive: true,
	}
	if p.FirstName != nil {
		user.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		user.LastName = *p.LastName
	}
	if p.Username != nil {
		user.Username = *p.Username
	}
	if p.Password != nil {
		user.PasswordHash = *p.Password
	}
	if p.Age != nil {
		user.Age = *p.Age
	}
	if p.URL != nil {
		user.URL = *p.URL
	}
	if p.Gender != nil {
		user.Gender = *p.Gender
	}
	if p.IsActive != nil {
		user.IsActive = *p.IsActive
	}
	if p.Budget != nil {
		user.Budget = *p.Budget
	}
	return user
}

// UserResponse содержит представление пользователя в ответе API.
// Password содержит bcrypt-хэш и опускается в списках.
type UserResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"fname"`
	LastName  string    `json:"lname"`
	Username  string    `json:"username"`
	Password  string    `json:"password,omitempty"`
	Age       int       `json:"age"`
	URL       string    `json:"url"`
	Gender    string    `json:"gender"`
	IsActive  bool      `json:"isActive"`
	Budget    float64   `json:"budget"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserResponse создает представление пользователя из доменной сущности.
func NewUserResponse(user *entities.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Password:  user.PasswordHash,
		Age:       user.Age,
		URL:       user.URL,
		Gender:    user.Gender,
		IsActive:  user.IsActive,
		Budget:    user.Budget,
		CreatedAt: user.CreatedAt,
	}
}

// NewUserListResponse создает представление списка пользователей без паролей.
func NewUserListResponse(users []entities.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		response := NewUserResponse(&users[i])
		response.Password = ""
		responses = append(responses, response)
	}
	return responses
}

// CreatedUserResponse содержит созданного пользователя и токен доступа.
type CreatedUserResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
