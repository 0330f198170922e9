package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightexplorer/internal/connectivity"
	"github.com/dharmasatrya/flightexplorer/internal/filter"
	"github.com/dharmasatrya/flightexplorer/internal/itinerary"
	"github.com/dharmasatrya/flightexplorer/internal/logger"
	"github.com/dharmasatrya/flightexplorer/internal/models"
	"github.com/dharmasatrya/flightexplorer/internal/search"
)

type FlightSearcher interface {
	SearchFlights(ctx context.Context, req models.FlightSearchRequest) (*models.FlightSearchResult, bool, error)
}

type SearchHandler struct {
	flights FlightSearcher
	locale  models.LocaleSettings
	limit   int
	monitor *connectivity.Monitor
	log     *logger.Logger
}

func NewSearchHandler(flights FlightSearcher, locale models.LocaleSettings, limit int, monitor *connectivity.Monitor, log *logger.Logger) *SearchHandler {
	return &SearchHandler{
		flights: flights,
		locale:  locale,
		limit:   limit,
		monitor: monitor,
		log:     log,
	}
}

// Search runs the query encoded in the URL state and returns display-ready itineraries.
func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	store := newRequestStore(c, h.locale, h.log)
	if h.log != nil {
		log := h.log.WithContext(ctx)
		unsubscribe := store.Subscribe(func(s models.SearchState) {
			if s.IsSearching {
				log.Debug("searching flights",
					"origin", s.Origin.Code,
					"destination", s.Destination.Code,
					"passengers", s.Passengers.Total(),
				)
			}
		})
		defer unsubscribe()
	}

	req, err := search.BuildRequest(store.State(), h.limit)
	if err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	store.Dispatch(search.SetSearching{Searching: true})
	result, cacheHit, err := h.flights.SearchFlights(ctx, req)
	if err != nil {
		store.Dispatch(search.SetSearching{Searching: false})
		return err
	}

	state := store.State()
	params := state.Params()
	state = store.Dispatch(
		search.SetLastSearchParams{Params: &params},
		search.SetSearching{Searching: false},
	)

	its := filter.Apply(result.Itineraries, parseFilters(c.QueryParams()), state.SortBy)

	return c.JSON(http.StatusOK, models.FlightSearchResponse{
		SearchCriteria: req,
		State:          state,
		Query:          stateQuery(c, state),
		Metadata: models.SearchMetadata{
			TotalResults:    result.TotalResults,
			ReturnedResults: len(its),
			SearchTimeMs:    time.Since(startTime).Milliseconds(),
			CacheHit:        cacheHit,
		},
		Itineraries:         itinerary.DescribeAll(its, state.Locale),
		FilterStats:         result.FilterStats,
		DestinationImageURL: result.DestinationImageURL,
		Notice:              noticeOf(h.monitor),
	})
}

// parseFilters reads the optional result filters. Unparsable values are ignored.
func parseFilters(values url.Values) *models.ResultFilters {
	f := &models.ResultFilters{}

	if v, err := strconv.Atoi(values.Get("maxStops")); err == nil && v >= 0 {
		f.MaxStops = &v
	}
	if v, err := strconv.ParseFloat(values.Get("maxPrice"), 64); err == nil && v >= 0 {
		f.MaxPrice = &v
	}
	if v, err := strconv.Atoi(values.Get("maxDuration")); err == nil && v > 0 {
		f.MaxDuration = &v
	}
	for _, raw := range values["carriers"] {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				f.Carriers = append(f.Carriers, name)
			}
		}
	}

	if f.Empty() {
		return nil
	}
	return f
}
