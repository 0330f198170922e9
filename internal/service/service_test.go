package service

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightexplorer/internal/apperr"
	"github.com/dharmasatrya/flightexplorer/internal/cache"
	"github.com/dharmasatrya/flightexplorer/internal/connectivity"
	"github.com/dharmasatrya/flightexplorer/internal/models"
	"github.com/dharmasatrya/flightexplorer/internal/ratelimit"
	"github.com/dharmasatrya/flightexplorer/internal/skyscrapper"
)

type fakeAPI struct {
	configCalls  atomic.Int32
	airportCalls atomic.Int32
	flightCalls  atomic.Int32
	release      chan struct{}
	err          error
}

func (f *fakeAPI) GetConfig(ctx context.Context) ([]models.LocaleConfig, error) {
	f.configCalls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []models.LocaleConfig{{CountryCode: "NG", Market: "en-GB", Currency: "NGN"}}, nil
}

func (f *fakeAPI) SearchAirports(ctx context.Context, query, locale string) ([]models.Airport, error) {
	f.airportCalls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []models.Airport{{
		SkyID:        "LOND",
		EntityID:     "27544008",
		Presentation: models.AirportPresentation{Title: "London", Subtitle: "United Kingdom"},
	}}, nil
}

func (f *fakeAPI) SearchFlights(ctx context.Context, req models.FlightSearchRequest) (*models.FlightSearchResult, error) {
	f.flightCalls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return &models.FlightSearchResult{
		TotalResults: 1,
		Itineraries:  []models.Itinerary{{ID: "it-1", Price: models.Price{Raw: 100}}},
	}, nil
}

func newService(api skyscrapper.API) *FlightService {
	return NewFlightService(api, cache.NewMemoryCache(time.Minute), ratelimit.New(ratelimit.Config{RequestsPerSecond: 1000, BurstSize: 1000}), connectivity.NewMonitor(), DefaultOptions(), nil)
}

func flightRequest() models.FlightSearchRequest {
	return models.FlightSearchRequest{
		OriginSkyID:         "LOS",
		DestinationSkyID:    "LHR",
		OriginEntityID:      "1",
		DestinationEntityID: "2",
		Date:                "2025-03-14",
		CabinClass:          models.ClassEconomy,
		Adults:              1,
	}
}

func TestSearchAirports_Cached(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(api)
	ctx := context.Background()

	locations, hit, err := svc.SearchAirports(ctx, "lond", "")
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, locations, 1)
	assert.Equal(t, models.Location{
		Code: "LOND", Name: "London", City: "London", Country: "United Kingdom", SkyID: "LOND", EntityID: "27544008",
	}, locations[0])

	locations, hit, err = svc.SearchAirports(ctx, " lond ", "en-US")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, locations, 1)
	assert.Equal(t, int32(1), api.airportCalls.Load())

	_, hit, err = svc.SearchAirports(ctx, "lond", "en-GB")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int32(2), api.airportCalls.Load())
}

func TestGetConfig_Cached(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(api)

	for i := 0; i < 3; i++ {
		configs, err := svc.GetConfig(context.Background())
		require.NoError(t, err)
		assert.Len(t, configs, 1)
	}
	assert.Equal(t, int32(1), api.configCalls.Load())
}

func TestSearchFlights_CollapsesConcurrentCalls(t *testing.T) {
	api := &fakeAPI{release: make(chan struct{})}
	svc := newService(api)

	var wg sync.WaitGroup
	results := make([]*models.FlightSearchResult, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, _, err := svc.SearchFlights(context.Background(), flightRequest())
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}

	require.Eventually(t, func() bool { return api.flightCalls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(api.release)
	wg.Wait()

	assert.Equal(t, int32(1), api.flightCalls.Load())
	for _, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, "it-1", res.Itineraries[0].ID)
	}

	_, hit, err := svc.SearchFlights(context.Background(), flightRequest())
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestSearchFlights_CallerCancel(t *testing.T) {
	api := &fakeAPI{release: make(chan struct{})}
	svc := newService(api)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := svc.SearchFlights(ctx, flightRequest())
		done <- err
	}()

	require.Eventually(t, func() bool { return api.flightCalls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(api.release)
	require.Eventually(t, func() bool {
		_, hit, err := svc.SearchFlights(context.Background(), flightRequest())
		return err == nil && hit
	}, time.Second, 5*time.Millisecond)
}

func TestUpstreamErrors(t *testing.T) {
	t.Run("api error keeps connection online", func(t *testing.T) {
		api := &fakeAPI{err: skyscrapper.NewUpstreamError(skyscrapper.EndpointFlights, 429, "quota exceeded", nil)}
		svc := newService(api)

		_, _, err := svc.SearchFlights(context.Background(), flightRequest())
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindUpstream))

		var appErr *apperr.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "quota exceeded", appErr.Message)
		assert.True(t, svc.Monitor().Online())
	})

	t.Run("network error goes offline", func(t *testing.T) {
		netErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
		api := &fakeAPI{err: skyscrapper.NewUpstreamError(skyscrapper.EndpointAirports, 0, "request failed", netErr)}
		svc := newService(api)

		_, _, err := svc.SearchAirports(context.Background(), "lon", "")
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindUpstream))
		assert.False(t, svc.Monitor().Online())
		assert.NotNil(t, svc.Monitor().Notice())

		api.err = nil
		_, _, err = svc.SearchAirports(context.Background(), "lon", "")
		require.NoError(t, err)
		assert.True(t, svc.Monitor().Online())
	})

	t.Run("errors are not cached", func(t *testing.T) {
		api := &fakeAPI{err: errors.New("boom")}
		svc := newService(api)

		_, err := svc.GetConfig(context.Background())
		require.Error(t, err)
		api.err = nil
		_, err = svc.GetConfig(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(2), api.configCalls.Load())
	})
}

func TestQuotaExhausted(t *testing.T) {
	api := &fakeAPI{}
	limiter := ratelimit.New(ratelimit.Config{RequestsPerSecond: 0.001, BurstSize: 1})
	opts := DefaultOptions()
	opts.Timeout = 50 * time.Millisecond
	svc := NewFlightService(api, cache.NewNoOpCache(), limiter, nil, opts, nil)

	_, err := svc.GetConfig(context.Background())
	require.NoError(t, err)

	_, err = svc.GetConfig(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))
	assert.Equal(t, int32(1), api.configCalls.Load())
}
