package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	healthTimeout = 3 * time.Second

	welcomeText = "API da agenda está rodando!"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	firestore Pinger
	logger    *zap.Logger
}

// NewHealthHandler builds the health handler. firestore may be nil when the
// service runs on the in-memory store.
func NewHealthHandler(firestore Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		firestore: firestore,
		logger:    logger,
	}
}

type healthResponse struct {
	Status    string `json:"status"`
	Firestore string `json:"firestore"`
}

func (h *HealthHandler) Health(c echo.Context) error {
	resp := healthResponse{Status: "ok", Firestore: "disabled"}
	if h.firestore == nil {
		return c.JSON(http.StatusOK, resp)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	if err := h.firestore(ctx); err != nil {
		h.logger.Warn("firestore health check failed", zap.Error(err))
		resp.Firestore = "unreachable"
		return c.JSON(http.StatusOK, resp)
	}
	resp.Firestore = "ok"
	return c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) Welcome(c echo.Context) error {
	return c.String(http.StatusOK, welcomeText)
}
