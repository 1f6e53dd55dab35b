package api

import "github.com/labstack/echo/v4"

// Root aggregates the individual handlers into one route registrar.
type Root struct {
	Items  *ItemsEchoHandler
	Stats  *StatsEchoHandler
	Health *HealthEchoHandler
}

func NewRoot(items *ItemsEchoHandler, stats *StatsEchoHandler, health *HealthEchoHandler) *Root {
	return &Root{Items: items, Stats: stats, Health: health}
}

func (r *Root) RegisterRoutes(e *echo.Echo) {
	r.Items.RegisterRoutes(e)
	r.Stats.RegisterRoutes(e)
	r.Health.RegisterRoutes(e)
}
