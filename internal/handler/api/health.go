package api

import (
	"net/http"

	"ShelfWatch/internal/stats"

	"github.com/labstack/echo/v4"
)

// HealthEchoHandler exposes liveness and readiness probes. Readiness tracks
// the cache slot: the service is not ready until the first stats populate.
type HealthEchoHandler struct {
	slot *stats.Slot
}

func NewHealthEchoHandler(slot *stats.Slot) *HealthEchoHandler {
	return &HealthEchoHandler{slot: slot}
}

func (h *HealthEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)
}

func (h *HealthEchoHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthEchoHandler) Readyz(c echo.Context) error {
	if _, err := h.slot.Get(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
