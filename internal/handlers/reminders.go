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

type ReminderHandler struct {
	reminders *services.ReminderService
	norm      *datetime.Normalizer
	logger    *zap.Logger
}

func NewReminderHandler(reminders *services.ReminderService, norm *datetime.Normalizer, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{
		reminders: reminders,
		norm:      norm,
		logger:    logger,
	}
}

type createReminderRequest struct {
	UserID      Text `json:"userId" validate:"required"`
	Title       Text `json:"titulo" validate:"required"`
	Description Text `json:"descricao" validate:"required"`
	ScheduledAt Text `json:"horario" validate:"required"`
}

// Older clients send the date as dataHora.
type updateReminderRequest struct {
	Title       Text `json:"titulo"`
	Description Text `json:"descricao"`
	ScheduledAt Text `json:"horario"`
	DataHora    Text `json:"dataHora"`
}

type reminderResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
	ScheduledAt string `json:"horario"`
}

type reminderUpdatedResponse struct {
	Message string           `json:"message"`
	Updated reminderResponse `json:"updated"`
}

func (h *ReminderHandler) toResponse(r *models.Reminder) reminderResponse {
	return reminderResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		ScheduledAt: h.norm.Format(r.ScheduledAt),
	}
}

// Create handles POST /api/lembretes
func (h *ReminderHandler) Create(c echo.Context) error {
	var req createReminderRequest
	if resp := decode(c, &req); resp != nil {
		if resp.MissingFields != nil {
			resp.Error = "Todos os campos são obrigatórios!"
		}
		return c.JSON(http.StatusBadRequest, resp)
	}

	id, err := h.reminders.Create(c.Request().Context(), services.NewReminder{
		UserID:      req.UserID.String(),
		Title:       req.Title.String(),
		Description: req.Description.String(),
		ScheduledAt: req.ScheduledAt.String(),
	})
	if err != nil {
		return failure(c, h.logger, err, messages{internal: "Erro ao adicionar lembrete."})
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "Lembrete adicionado!", ID: id})
}

// List handles GET /api/lembretes/:userId
func (h *ReminderHandler) List(c echo.Context) error {
	userID := c.Param("userId")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "O ID do usuário é obrigatório!"})
	}

	reminders, err := h.reminders.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return failure(c, h.logger, err, messages{internal: "Erro ao buscar lembretes."})
	}

	if len(reminders) == 0 {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Nenhum lembrete encontrado para este usuário."})
	}

	out := make([]reminderResponse, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, h.toResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

// Update handles PUT /api/lembretes/:id and PUT /api/lembretes/:userId/:id
func (h *ReminderHandler) Update(c echo.Context) error {
	var req updateReminderRequest
	if resp := decode(c, &req); resp != nil {
		return c.JSON(http.StatusBadRequest, resp)
	}

	scheduledAt := req.ScheduledAt
	if scheduledAt == "" {
		scheduledAt = req.DataHora
	}

	patch := services.Patch{
		models.FieldTitle:       req.Title.String(),
		models.FieldDescription: req.Description.String(),
		models.FieldScheduledAt: scheduledAt.String(),
	}

	reminder, err := h.reminders.Update(c.Request().Context(), c.Param("id"), c.Param("userId"), patch)
	if err != nil {
		if errors.Is(err, services.ErrEmptyUpdate) {
			return emptyUpdate(c, models.ReminderFields)
		}
		return failure(c, h.logger, err, messages{
			notFound: "Lembrete não encontrado!",
			internal: "Erro ao atualizar lembrete.",
		})
	}

	return c.JSON(http.StatusOK, reminderUpdatedResponse{
		Message: "Lembrete atualizado com sucesso!",
		Updated: h.toResponse(reminder),
	})
}

// Delete handles DELETE /api/lembretes/:id and DELETE /api/lembretes/:userId/:id
func (h *ReminderHandler) Delete(c echo.Context) error {
	if err := h.reminders.Delete(c.Request().Context(), c.Param("id"), c.Param("userId")); err != nil {
		return failure(c, h.logger, err, messages{
			notFound: "Lembrete não encontrado!",
			internal: "Erro ao excluir lembrete.",
		})
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Lembrete excluído com sucesso!"})
}
