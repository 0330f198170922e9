package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightexplorer/internal/cache"
	"github.com/dharmasatrya/flightexplorer/internal/connectivity"
	"github.com/dharmasatrya/flightexplorer/internal/locale"
	"github.com/dharmasatrya/flightexplorer/internal/logger"
	"github.com/dharmasatrya/flightexplorer/internal/models"
	"github.com/dharmasatrya/flightexplorer/internal/ratelimit"
	"github.com/dharmasatrya/flightexplorer/internal/service"
	"github.com/dharmasatrya/flightexplorer/internal/skyscrapper"
	"github.com/dharmasatrya/flightexplorer/internal/urlsync"
	"github.com/dharmasatrya/flightexplorer/internal/validator"
)

type staticGeo struct{ code string }

func (g staticGeo) Country(ctx context.Context, ip string) (string, error) {
	if g.code == "" {
		return "", errors.New("lookup failed")
	}
	return g.code, nil
}

// failingAPI wraps the fixture client and fails every call with err.
type failingAPI struct {
	skyscrapper.API
	err error
}

func (f failingAPI) SearchAirports(ctx context.Context, query, loc string) ([]models.Airport, error) {
	return nil, f.err
}

func (f failingAPI) SearchFlights(ctx context.Context, req models.FlightSearchRequest) (*models.FlightSearchResult, error) {
	return nil, f.err
}

func newTestServer(t *testing.T, api skyscrapper.API) (*echo.Echo, *connectivity.Monitor) {
	t.Helper()
	if api == nil {
		fixture, err := skyscrapper.NewFixtureClient()
		require.NoError(t, err)
		api = fixture
	}

	log := logger.Discard()
	monitor := connectivity.NewMonitor()
	svc := service.NewFlightService(api, cache.NewMemoryCache(time.Minute), ratelimit.New(ratelimit.Config{RequestsPerSecond: 1000, BurstSize: 1000}), monitor, service.DefaultOptions(), log)
	resolver := locale.NewResolver(staticGeo{code: "NG"}, svc, cache.NewMemoryCache(time.Hour), time.Hour, log)

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(RequestContext())

	Routes{
		Health:   NewHealthHandler(monitor),
		State:    NewStateHandler(models.DefaultLocale(), monitor, log),
		Search:   NewSearchHandler(svc, models.DefaultLocale(), 50, monitor, log),
		Location: NewLocationHandler(svc, resolver, 2, monitor),
	}.Register(e)

	e.GET("/panic", func(c echo.Context) error { panic("boom") })
	return e, monitor
}

func do(e *echo.Echo, method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func searchQuery() url.Values {
	state := models.DefaultSearchState()
	state.Origin = &models.Location{Code: "LOS", Name: "Lagos", City: "Lagos", Country: "Nigeria", SkyID: "LOS", EntityID: "95673323"}
	state.Destination = &models.Location{Code: "LHR", Name: "London Heathrow", City: "London Heathrow", Country: "United Kingdom", SkyID: "LHR", EntityID: "95565050"}
	state.DepartureDate = "2025-03-14"
	return urlsync.Encode(state)
}

func TestHealth(t *testing.T) {
	e, monitor := newTestServer(t, nil)

	rec := do(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[models.HealthResponse](t, rec).Status)

	monitor.ReportFailure(errors.New("offline"))
	rec = do(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[models.HealthResponse](t, rec)
	assert.Equal(t, "degraded", health.Status)
	assert.False(t, health.Upstream.Online)
}

func TestConfigAndLocale(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := do(e, http.MethodGet, "/api/v1/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[models.ConfigResponse](t, rec).Locales)

	rec = do(e, http.MethodGet, "/api/v1/locale", "")
	require.Equal(t, http.StatusOK, rec.Code)
	loc := decode[models.LocaleResponse](t, rec)
	assert.True(t, loc.Matched)
	assert.Equal(t, models.LocaleSettings{CountryCode: "NG", Market: "en-GB", Currency: "NGN"}, loc.Locale)
}

func TestAirports(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := do(e, http.MethodGet, "/api/v1/airports?query=l", "")
	require.Equal(t, http.StatusOK, rec.Code)
	short := decode[models.AirportsResponse](t, rec)
	assert.Empty(t, short.Locations)
	assert.NotNil(t, short.Locations)

	rec = do(e, http.MethodGet, "/api/v1/airports?query=lagos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[models.AirportsResponse](t, rec)
	require.Len(t, resp.Locations, 1)
	assert.Equal(t, "LOS", resp.Locations[0].Code)
	assert.Equal(t, "Nigeria", resp.Locations[0].Country)
	assert.False(t, resp.CacheHit)

	rec = do(e, http.MethodGet, "/api/v1/airports?query=lagos", "")
	assert.True(t, decode[models.AirportsResponse](t, rec).CacheHit)
}

func TestStateGet(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := do(e, http.MethodGet, "/api/v1/state?tripType=one_way&return=2025-03-20&class=bogus&currency=eur", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[models.StateResponse](t, rec)
	assert.Equal(t, models.TripOneWay, resp.State.TripType)
	assert.Empty(t, resp.State.ReturnDate)
	assert.Equal(t, models.ClassEconomy, resp.State.ClassType)
	assert.Equal(t, "EUR", resp.State.Locale.Currency)
	assert.Equal(t, "currency=eur&tripType=one_way", resp.Query)
}

func TestStateDispatch(t *testing.T) {
	e, _ := newTestServer(t, nil)

	body := `{"actions":[
		{"type":"setOrigin","payload":{"code":"LOS","city":"Lagos","country":"Nigeria"}},
		{"type":"setDestination","payload":{"code":"LHR","city":"London","country":"United Kingdom"}},
		{"type":"swapLocations"},
		{"type":"decrementPassenger","payload":"adults"},
		{"type":"incrementPassenger","payload":"children"},
		{"type":"setTripType","payload":"one_way"}
	]}`
	rec := do(e, http.MethodPost, "/api/v1/state/actions?return=2025-03-20&departure=2025-03-14", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[models.StateResponse](t, rec)
	assert.Equal(t, "LHR", resp.State.Origin.Code)
	assert.Equal(t, "LOS", resp.State.Destination.Code)
	assert.Equal(t, models.Passengers{Adults: 1, Children: 1}, resp.State.Passengers)
	assert.Empty(t, resp.State.ReturnDate)

	values, err := url.ParseQuery(resp.Query)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", values.Get("departure"))
	assert.False(t, values.Has("return"))
}

func TestStateDispatch_Invalid(t *testing.T) {
	e, _ := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
		code string
	}{
		{name: "unknown action", body: `{"actions":[{"type":"bookFlight"}]}`, code: "validation_error"},
		{name: "empty batch", body: `{"actions":[]}`, code: "validation_error"},
		{name: "not json", body: `{"actions":`, code: "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/api/v1/state/actions", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decode[models.ErrorResponse](t, rec).Error)
		})
	}
}

func TestSearchFlights(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := do(e, http.MethodGet, "/api/v1/flights/search?"+searchQuery().Encode(), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[models.FlightSearchResponse](t, rec)
	assert.Equal(t, 3, resp.Metadata.TotalResults)
	assert.Equal(t, 3, resp.Metadata.ReturnedResults)
	assert.False(t, resp.Metadata.CacheHit)
	assert.False(t, resp.State.IsSearching)
	require.NotNil(t, resp.State.LastSearchParams)
	assert.Equal(t, "LOS", resp.State.LastSearchParams.Origin.Code)
	assert.Equal(t, "best", string(resp.SearchCriteria.SortBy))

	require.Len(t, resp.Itineraries, 3)
	direct := resp.Itineraries[0]
	assert.Equal(t, "it-direct", direct.ID)
	assert.Equal(t, "USD 650.5", direct.PriceFormatted)
	assert.Equal(t, "Nonstop", direct.Legs[0].StopsLabel)

	oneStop := resp.Itineraries[1]
	require.Len(t, oneStop.Legs[0].Stops, 1)
	assert.Equal(t, "CDG", oneStop.Legs[0].Stops[0].ID)
	assert.Equal(t, 30, oneStop.Legs[0].TotalStopMinutes)
	assert.Equal(t, "30 mins", oneStop.Legs[0].Segments[0].LayoverDuration)

	rec = do(e, http.MethodGet, "/api/v1/flights/search?"+searchQuery().Encode(), "")
	assert.True(t, decode[models.FlightSearchResponse](t, rec).Metadata.CacheHit)
}

func TestSearchFlights_FiltersAndSort(t *testing.T) {
	e, _ := newTestServer(t, nil)

	q := searchQuery()
	q.Set("sortBy", "fastest")
	q.Set("maxStops", "1")
	q.Set("currency", "NGN")
	q.Set("market", "en-GB")
	q.Set("maxPrice", "not-a-number")

	rec := do(e, http.MethodGet, "/api/v1/flights/search?"+q.Encode(), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[models.FlightSearchResponse](t, rec)
	require.Len(t, resp.Itineraries, 2)
	assert.Equal(t, "it-one-stop", resp.Itineraries[0].ID)
	assert.Equal(t, "it-direct", resp.Itineraries[1].ID)
	assert.Equal(t, "NGN 480", resp.Itineraries[0].PriceFormatted)
	assert.Equal(t, "NGN", resp.SearchCriteria.Currency)
	assert.Contains(t, resp.Query, "sortBy=fastest")
}

func TestSearchFlights_MissingFields(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := do(e, http.MethodGet, "/api/v1/flights/search?departure=2025-03-14", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[models.ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", resp.Error)
	assert.Contains(t, resp.Message, "origin")
}

func TestSearchFlights_UpstreamDown(t *testing.T) {
	fixture, err := skyscrapper.NewFixtureClient()
	require.NoError(t, err)
	netErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	api := failingAPI{API: fixture, err: skyscrapper.NewUpstreamError(skyscrapper.EndpointFlights, 0, "request failed", netErr)}

	e, monitor := newTestServer(t, api)

	rec := do(e, http.MethodGet, "/api/v1/flights/search?"+searchQuery().Encode(), "")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	resp := decode[models.ErrorResponse](t, rec)
	assert.Equal(t, "upstream_error", resp.Error)
	assert.True(t, resp.Dismissible)
	assert.False(t, monitor.Online())

	rec = do(e, http.MethodGet, "/api/v1/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[models.StateResponse](t, rec)
	require.NotNil(t, state.Notice)
	assert.Equal(t, "offline", state.Notice.Kind)
}

func TestRecoveredPanic(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := do(e, http.MethodGet, "/panic", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := decode[models.ErrorResponse](t, rec)
	assert.Equal(t, "internal_error", resp.Error)
	assert.Equal(t, ActionReload, resp.Action)
}

func TestNotFound(t *testing.T) {
	e, _ := newTestServer(t, nil)

	rec := do(e, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[models.ErrorResponse](t, rec).Error)
}

func TestParseFilters(t *testing.T) {
	assert.Nil(t, parseFilters(url.Values{}))

	values := url.Values{}
	values.Set("maxStops", "0")
	values.Set("maxDuration", "-5")
	values.Add("carriers", "Air France, KLM")
	values.Add("carriers", "British Airways")

	f := parseFilters(values)
	require.NotNil(t, f)
	require.NotNil(t, f.MaxStops)
	assert.Equal(t, 0, *f.MaxStops)
	assert.Nil(t, f.MaxDuration)
	assert.Equal(t, []string{"Air France", "KLM", "British Airways"}, f.Carriers)
}
