package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightexplorer/internal/connectivity"
	"github.com/dharmasatrya/flightexplorer/internal/locale"
	"github.com/dharmasatrya/flightexplorer/internal/models"
	"github.com/dharmasatrya/flightexplorer/internal/suggest"
)

type LocationService interface {
	GetConfig(ctx context.Context) ([]models.LocaleConfig, error)
	SearchAirports(ctx context.Context, query, locale string) ([]models.Location, bool, error)
}

type LocaleResolver interface {
	Resolve(ctx context.Context, ip string) locale.Result
}

type LocationHandler struct {
	svc       LocationService
	resolver  LocaleResolver
	minLength int
	monitor   *connectivity.Monitor
}

func NewLocationHandler(svc LocationService, resolver LocaleResolver, minLength int, monitor *connectivity.Monitor) *LocationHandler {
	return &LocationHandler{
		svc:       svc,
		resolver:  resolver,
		minLength: minLength,
		monitor:   monitor,
	}
}

func (h *LocationHandler) Config(c echo.Context) error {
	configs, err := h.svc.GetConfig(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ConfigResponse{
		Locales: configs,
		Notice:  noticeOf(h.monitor),
	})
}

// Locale never fails; lookup problems resolve to the default market.
func (h *LocationHandler) Locale(c echo.Context) error {
	res := h.resolver.Resolve(c.Request().Context(), c.RealIP())
	return c.JSON(http.StatusOK, models.LocaleResponse{
		Locale:   res.Locale,
		Country:  res.Country,
		Matched:  res.Matched,
		Fallback: res.Fallback,
	})
}

// Airports answers short queries with an empty list without calling upstream.
func (h *LocationHandler) Airports(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	resp := models.AirportsResponse{
		Query:     query,
		Locations: []models.Location{},
		Notice:    noticeOf(h.monitor),
	}
	if !suggest.Searchable(query, h.minLength) {
		return c.JSON(http.StatusOK, resp)
	}

	locations, hit, err := h.svc.SearchAirports(c.Request().Context(), query, c.QueryParam("locale"))
	if err != nil {
		return err
	}
	if locations != nil {
		resp.Locations = locations
	}
	resp.CacheHit = hit
	resp.Notice = noticeOf(h.monitor)
	return c.JSON(http.StatusOK, resp)
}
