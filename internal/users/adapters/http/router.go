// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"

	"userhub/internal/users/adapters/http/middleware"
	"userhub/internal/users/adapters/http/users"
	"userhub/internal/users/app/dto"
	"userhub/internal/users/ports/api"
	svc "userhub/internal/users/ports/services"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, userService api.UserUseCase, tokenSvc svc.TokenService) {
	userHandler := users.NewHandler(userService)
	authRequired := middleware.NewAuthMiddleware(tokenSvc)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	app.Use(cors.New())

	// Проверка живости сервиса.
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Маршруты пользователей. Создание публичное, остальные требуют токен.
	userRoutes := app.Group("/user")
	userRoutes.Post("/", userHandler.CreateUser)
	userRoutes.Get("/", userHandler.ListUsers, authRequired)
	userRoutes.Put("/:id", userHandler.UpdateUser, authRequired)
	userRoutes.Delete("/:id", userHandler.DeleteUser, authRequired)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("Route not found"))
	})
}
