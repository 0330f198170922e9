package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightexplorer/internal/suggest"
)

type Routes struct {
	Health   *HealthHandler
	State    *StateHandler
	Search   *SearchHandler
	Location *LocationHandler
	// Suggest is optional; without it /ws/airports is not served.
	Suggest *suggest.Handler
}

func (r Routes) Register(e *echo.Echo) {
	e.GET("/health", r.Health.Health)

	api := e.Group("/api/v1")
	api.GET("/config", r.Location.Config)
	api.GET("/locale", r.Location.Locale)
	api.GET("/airports", r.Location.Airports)
	api.GET("/state", r.State.Get)
	api.POST("/state/actions", r.State.Dispatch)
	api.GET("/flights/search", r.Search.Search)

	if r.Suggest != nil {
		e.GET("/ws/airports", r.Suggest.Serve)
	}
}
