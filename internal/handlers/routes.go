package handlers

import (
	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth      *AuthHandler
	Tasks     *TaskHandler
	Reminders *ReminderHandler
	Health    *HealthHandler
}

// RegisterRoutes mounts every endpoint on e. authLimit, when set, guards the
// credential endpoints.
func RegisterRoutes(e *echo.Echo, h Handlers, authLimit echo.MiddlewareFunc) {
	var authMW []echo.MiddlewareFunc
	if authLimit != nil {
		authMW = append(authMW, authLimit)
	}

	e.GET("/", h.Health.Welcome)
	e.GET("/health", h.Health.Health)

	e.POST("/login", h.Auth.Login, authMW...)

	api := e.Group("/api")
	api.POST("/addUser", h.Auth.Register, authMW...)
	api.PUT("/updatePassword", h.Auth.ChangePassword, authMW...)
	api.POST("/sendTemporaryPassword", h.Auth.SendTemporaryPassword, authMW...)

	tarefas := api.Group("/tarefas")
	tarefas.POST("", h.Tasks.Create)
	tarefas.GET("/:userId", h.Tasks.List)
	tarefas.PUT("/:id", h.Tasks.Update)
	tarefas.PUT("/:userId/:id", h.Tasks.Update)
	tarefas.DELETE("/:id", h.Tasks.Delete)
	tarefas.DELETE("/:userId/:id", h.Tasks.Delete)

	lembretes := api.Group("/lembretes")
	lembretes.POST("", h.Reminders.Create)
	lembretes.GET("/:userId", h.Reminders.List)
	lembretes.PUT("/:id", h.Reminders.Update)
	lembretes.PUT("/:userId/:id", h.Reminders.Update)
	lembretes.DELETE("/:id", h.Reminders.Delete)
	lembretes.DELETE("/:userId/:id", h.Reminders.Delete)
}
