package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightexplorer/internal/apperr"
	"github.com/dharmasatrya/flightexplorer/internal/connectivity"
	"github.com/dharmasatrya/flightexplorer/internal/logger"
	"github.com/dharmasatrya/flightexplorer/internal/models"
	"github.com/dharmasatrya/flightexplorer/internal/search"
	"github.com/dharmasatrya/flightexplorer/internal/urlsync"
)

// Query parameters that override the server's default locale per request.
const (
	ParamCurrency    = "currency"
	ParamMarket      = "market"
	ParamCountryCode = "countryCode"
)

// StateHandler exposes the search form state machine. The browser keeps the
// state in its URL; each request rebuilds a store from the query string.
type StateHandler struct {
	locale  models.LocaleSettings
	monitor *connectivity.Monitor
	log     *logger.Logger
}

func NewStateHandler(locale models.LocaleSettings, monitor *connectivity.Monitor, log *logger.Logger) *StateHandler {
	return &StateHandler{
		locale:  locale,
		monitor: monitor,
		log:     log,
	}
}

func (h *StateHandler) Get(c echo.Context) error {
	store := newRequestStore(c, h.locale, h.log)
	return c.JSON(http.StatusOK, h.response(c, store.State()))
}

func (h *StateHandler) Dispatch(c echo.Context) error {
	var batch search.ActionBatch
	if err := c.Bind(&batch); err != nil {
		return apperr.BadRequest("request body must be {\"actions\": [...]}")
	}
	if err := c.Validate(&batch); err != nil {
		return err
	}

	actions, err := search.DecodeActions(batch.Actions)
	if err != nil {
		return err
	}

	store := newRequestStore(c, h.locale, h.log)
	state := store.Dispatch(actions...)
	return c.JSON(http.StatusOK, h.response(c, state))
}

func (h *StateHandler) response(c echo.Context, state models.SearchState) models.StateResponse {
	query := stateQuery(c, state)
	return models.StateResponse{
		State:  state,
		Query:  query,
		Notice: noticeOf(h.monitor),
	}
}

// newRequestStore decodes the URL state of c. Ignored parameters are only logged.
func newRequestStore(c echo.Context, fallback models.LocaleSettings, log *logger.Logger) *search.Store {
	values := c.QueryParams()
	state, warnings := urlsync.DecodeReport(values)
	if len(warnings) > 0 && log != nil {
		log.WithContext(c.Request().Context()).Debug("ignored url parameters", "warnings", warnings)
	}
	state.Locale = localeFromQuery(values, fallback)
	return search.NewStore(state)
}

// stateQuery re-encodes state into the request's query string, keeping locale
// overrides and result filters the client sent alongside it.
func stateQuery(c echo.Context, state models.SearchState) string {
	return urlsync.Merge(c.QueryParams(), state).Encode()
}

func localeFromQuery(values url.Values, fallback models.LocaleSettings) models.LocaleSettings {
	l := fallback
	if v := strings.TrimSpace(values.Get(ParamCurrency)); v != "" {
		l.Currency = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(values.Get(ParamMarket)); v != "" {
		l.Market = v
	}
	if v := strings.TrimSpace(values.Get(ParamCountryCode)); v != "" {
		l.CountryCode = strings.ToUpper(v)
	}
	return l
}

func noticeOf(m *connectivity.Monitor) *models.Notice {
	if m == nil {
		return nil
	}
	return m.Notice()
}
