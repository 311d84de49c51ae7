package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ytakahashi/agenda-api/internal/datetime"
	"github.com/ytakahashi/agenda-api/internal/models"
	"github.com/ytakahashi/agenda-api/internal/services"
)

type TaskHandler struct {
	tasks  *services.TaskService
	norm   *datetime.Normalizer
	logger *zap.Logger
}

func NewTaskHandler(tasks *services.TaskService, norm *datetime.Normalizer, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		norm:   norm,
		logger: logger,
	}
}

type createTaskRequest struct {
	UserID      Text `json:"userId" validate:"required"`
	Title       Text `json:"titulo" validate:"required"`
	Description Text `json:"descricao" validate:"required"`
	ScheduledAt Text `json:"horario" validate:"required"`
	Status      Text `json:"status" validate:"required"`
	Category    Text `json:"categoria" validate:"required"`
}

type updateTaskRequest struct {
	Title       Text `json:"titulo"`
	Description Text `json:"descricao"`
	ScheduledAt Text `json:"horario"`
	Status      Text `json:"status"`
	Category    Text `json:"categoria"`
}

type taskResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
	ScheduledAt string `json:"horario"`
	Status      string `json:"status"`
	Category    string `json:"categoria"`
}

type taskUpdatedResponse struct {
	Message string       `json:"message"`
	Updated taskResponse `json:"updated"`
}

var taskMessages = messages{
	notFound: "Tarefa não encontrada!",
}

func (h *TaskHandler) toResponse(t *models.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		ScheduledAt: h.norm.Format(t.ScheduledAt),
		Status:      t.Status,
		Category:    t.Category,
	}
}

// Create handles POST /api/tarefas
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if resp := decode(c, &req); resp != nil {
		if resp.MissingFields != nil {
			resp.Error = "Todos os campos são obrigatórios!"
		}
		return c.JSON(http.StatusBadRequest, resp)
	}

	id, err := h.tasks.Create(c.Request().Context(), services.NewTask{
		UserID:      req.UserID.String(),
		Title:       req.Title.String(),
		Description: req.Description.String(),
		ScheduledAt: req.ScheduledAt.String(),
		Status:      req.Status.String(),
		Category:    req.Category.String(),
	})
	if err != nil {
		m := taskMessages
		m.internal = "Erro ao adicionar tarefa."
		return failure(c, h.logger, err, m)
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "Tarefa adicionada!", ID: id})
}

// List handles GET /api/tarefas/:userId
func (h *TaskHandler) List(c echo.Context) error {
	userID := c.Param("userId")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "O ID do usuário é obrigatório!"})
	}

	tasks, err := h.tasks.ListByUser(c.Request().Context(), userID)
	if err != nil {
		m := taskMessages
		m.internal = "Erro ao buscar tarefas."
		return failure(c, h.logger, err, m)
	}

	if len(tasks) == 0 {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Nenhuma tarefa encontrada para este usuário."})
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, h.toResponse(t))
	}
	return c.JSON(http.StatusOK, out)
}

// Update handles PUT /api/tarefas/:id and PUT /api/tarefas/:userId/:id
func (h *TaskHandler) Update(c echo.Context) error {
	var req updateTaskRequest
	if resp := decode(c, &req); resp != nil {
		return c.JSON(http.StatusBadRequest, resp)
	}

	patch := services.Patch{
		models.FieldTitle:       req.Title.String(),
		models.FieldDescription: req.Description.String(),
		models.FieldScheduledAt: req.ScheduledAt.String(),
		models.FieldStatus:      req.Status.String(),
		models.FieldCategory:    req.Category.String(),
	}

	task, err := h.tasks.Update(c.Request().Context(), c.Param("id"), c.Param("userId"), patch)
	if err != nil {
		if errors.Is(err, services.ErrEmptyUpdate) {
			return emptyUpdate(c, models.TaskFields)
		}
		m := taskMessages
		m.internal = "Erro ao atualizar tarefa."
		return failure(c, h.logger, err, m)
	}

	return c.JSON(http.StatusOK, taskUpdatedResponse{
		Message: "Tarefa atualizada com sucesso!",
		Updated: h.toResponse(task),
	})
}

// Delete handles DELETE /api/tarefas/:id and DELETE /api/tarefas/:userId/:id
func (h *TaskHandler) Delete(c echo.Context) error {
	if err := h.tasks.Delete(c.Request().Context(), c.Param("id"), c.Param("userId")); err != nil {
		m := taskMessages
		m.internal = "Erro ao excluir tarefa."
		return failure(c, h.logger, err, m)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Tarefa excluída com sucesso!"})
}
