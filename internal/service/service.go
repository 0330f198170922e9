// Package service fronts the flight API with caching, request collapsing
// and the upstream quota limiter.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dharmasatrya/flightexplorer/internal/apperr"
	"github.com/dharmasatrya/flightexplorer/internal/cache"
	"github.com/dharmasatrya/flightexplorer/internal/connectivity"
	"github.com/dharmasatrya/flightexplorer/internal/logger"
	"github.com/dharmasatrya/flightexplorer/internal/models"
	"github.com/dharmasatrya/flightexplorer/internal/ratelimit"
	"github.com/dharmasatrya/flightexplorer/internal/skyscrapper"
)

type Options struct {
	ConfigTTL  time.Duration
	AirportTTL time.Duration
	FlightTTL  time.Duration
	// Timeout bounds one upstream call including the wait for a quota token.
	Timeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		ConfigTTL:  time.Hour,
		AirportTTL: 10 * time.Minute,
		FlightTTL:  5 * time.Minute,
		Timeout:    20 * time.Second,
	}
}

type FlightService struct {
	api     skyscrapper.API
	cache   cache.Cache
	limiter *ratelimit.Limiter
	monitor *connectivity.Monitor
	opts    Options
	log     *logger.Logger
	group   singleflight.Group
}

func NewFlightService(api skyscrapper.API, c cache.Cache, limiter *ratelimit.Limiter, monitor *connectivity.Monitor, opts Options, log *logger.Logger) *FlightService {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if limiter == nil {
		limiter = ratelimit.NewWithDefaults()
	}
	if monitor == nil {
		monitor = connectivity.NewMonitor()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &FlightService{
		api:     api,
		cache:   c,
		limiter: limiter,
		monitor: monitor,
		opts:    opts,
		log:     log,
	}
}

func (s *FlightService) Monitor() *connectivity.Monitor {
	return s.monitor
}

// GetConfig lists the markets the flight API supports.
func (s *FlightService) GetConfig(ctx context.Context) ([]models.LocaleConfig, error) {
	configs, _, err := cached(ctx, s, skyscrapper.EndpointConfig, cache.Key("config", nil), s.opts.ConfigTTL,
		func(ctx context.Context) ([]models.LocaleConfig, error) {
			return s.api.GetConfig(ctx)
		})
	return configs, err
}

// SearchAirports returns matching places as form locations. The bool reports a cache hit.
func (s *FlightService) SearchAirports(ctx context.Context, query, locale string) ([]models.Location, bool, error) {
	query = strings.TrimSpace(query)
	if locale == "" {
		locale = skyscrapper.DefaultAirportLocale
	}
	key := cache.Key("airports", map[string]string{"query": query, "locale": locale})

	return cached(ctx, s, skyscrapper.EndpointAirports, key, s.opts.AirportTTL,
		func(ctx context.Context) ([]models.Location, error) {
			airports, err := s.api.SearchAirports(ctx, query, locale)
			if err != nil {
				return nil, err
			}
			locations := make([]models.Location, len(airports))
			for i, a := range airports {
				locations[i] = a.ToLocation()
			}
			return locations, nil
		})
}

func (s *FlightService) SearchFlights(ctx context.Context, req models.FlightSearchRequest) (*models.FlightSearchResult, bool, error) {
	return cached(ctx, s, skyscrapper.EndpointFlights, cache.Key("flights", req), s.opts.FlightTTL,
		func(ctx context.Context) (*models.FlightSearchResult, error) {
			return s.api.SearchFlights(ctx, req)
		})
}

// cached serves key from the cache or runs fetch once for all concurrent callers.
// Each caller still honours its own context while waiting.
func cached[T any](ctx context.Context, s *FlightService, endpoint, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, bool, error) {
	var zero T
	log := s.log.WithContext(ctx).With("endpoint", endpoint)

	if raw, ok := s.cache.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			log.Debug("cache hit")
			return v, true, nil
		}
		log.Warn("discarding unreadable cache entry", "key", key)
	}
	log.Debug("cache miss")

	ch := s.group.DoChan(key, func() (any, error) {
		callCtx := context.WithoutCancel(ctx)
		if s.opts.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, s.opts.Timeout)
			defer cancel()
		}

		if err := s.limiter.Wait(callCtx, endpoint); err != nil {
			return zero, apperr.Unavailable("flight API quota exhausted, try again shortly", err).WithOp(endpoint)
		}

		v, err := fetch(callCtx)
		if err != nil {
			return zero, s.upstreamFailure(endpoint, err)
		}
		s.monitor.ReportSuccess()

		if raw, err := json.Marshal(v); err == nil {
			if err := s.cache.Set(callCtx, key, raw, ttl); err != nil {
				log.Warn("cache write failed", "error", err)
			}
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		return res.Val.(T), false, nil
	}
}

func (s *FlightService) upstreamFailure(endpoint string, err error) error {
	if skyscrapper.IsNetworkError(err) {
		s.monitor.ReportFailure(err)
		return apperr.Upstream("unable to reach the flight service", err).WithOp(endpoint)
	}
	// The API answered, so the connection itself is fine.
	s.monitor.ReportSuccess()

	var upErr *skyscrapper.UpstreamError
	if errors.As(err, &upErr) && upErr.Message != "" {
		return apperr.Upstream(upErr.Message, err).WithOp(endpoint)
	}
	return apperr.Upstream("flight service request failed", err).WithOp(endpoint)
}
