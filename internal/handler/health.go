package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightexplorer/internal/connectivity"
	"github.com/dharmasatrya/flightexplorer/internal/models"
)

type HealthHandler struct {
	monitor *connectivity.Monitor
}

func NewHealthHandler(monitor *connectivity.Monitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// Health stays 200 while the upstream is down so the process is not restarted for it.
func (h *HealthHandler) Health(c echo.Context) error {
	status := h.monitor.Status()
	resp := models.HealthResponse{Status: "ok", Upstream: status}
	if !status.Online {
		resp.Status = "degraded"
	}
	return c.JSON(http.StatusOK, resp)
}
