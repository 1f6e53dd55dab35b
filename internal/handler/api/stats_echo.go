package api

import (
	"errors"

	"ShelfWatch/internal/stats"
	xhttp "ShelfWatch/pkg/http"
	xlogger "ShelfWatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StatsEchoHandler serves the aggregate view from the cache slot. Reads never
// trigger recomputation; the refresher owns that.
type StatsEchoHandler struct {
	logger *xlogger.Logger
	slot   *stats.Slot
	hub    *StreamHub
}

func NewStatsEchoHandler(logger *xlogger.Logger, slot *stats.Slot, hub *StreamHub) *StatsEchoHandler {
	return &StatsEchoHandler{logger: logger, slot: slot, hub: hub}
}

func (h *StatsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/stats", h.Stats)
	if h.hub != nil {
		g.GET("/stats/stream", h.hub.Serve)
	}
}

func (h *StatsEchoHandler) Stats(c echo.Context) error {
	st, err := h.slot.Get()
	if err != nil {
		if errors.Is(err, stats.ErrNotReady) {
			return xhttp.AppErrorResponse(c, xhttp.NotReadyError("stats not computed yet, retry shortly"))
		}
		h.logger.Error("stats read error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, st)
}
