package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dharmasatrya/flightexplorer/internal/cache"
	"github.com/dharmasatrya/flightexplorer/internal/config"
	"github.com/dharmasatrya/flightexplorer/internal/connectivity"
	"github.com/dharmasatrya/flightexplorer/internal/handler"
	"github.com/dharmasatrya/flightexplorer/internal/locale"
	"github.com/dharmasatrya/flightexplorer/internal/logger"
	"github.com/dharmasatrya/flightexplorer/internal/ratelimit"
	"github.com/dharmasatrya/flightexplorer/internal/service"
	"github.com/dharmasatrya/flightexplorer/internal/skyscrapper"
	"github.com/dharmasatrya/flightexplorer/internal/suggest"
	"github.com/dharmasatrya/flightexplorer/internal/validator"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api, err := newAPI(cfg, log)
	if err != nil {
		log.Error("failed to initialize flight API client", "error", err)
		os.Exit(1)
	}

	responseCache := newCache(ctx, cfg, log)
	defer responseCache.Close()

	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerSecond: cfg.UpstreamRPS,
		BurstSize:         cfg.UpstreamBurst,
	})
	limiter.SetLimit(skyscrapper.EndpointFlights, cfg.SearchRPS, cfg.SearchBurst)
	monitor := connectivity.NewMonitor()

	svc := service.NewFlightService(api, responseCache, limiter, monitor, service.Options{
		ConfigTTL:  cfg.ConfigTTL,
		AirportTTL: cfg.AirportTTL,
		FlightTTL:  cfg.FlightTTL,
		Timeout:    cfg.HTTPTimeout,
	}, log)

	resolver := locale.NewResolver(locale.NewGeoIP(cfg.GeoIPURL, cfg.HTTPTimeout), svc, responseCache, cfg.ConfigTTL, log)
	defaultLocale := resolver.Resolve(ctx, "").Locale
	log.Info("default locale resolved",
		"country_code", defaultLocale.CountryCode,
		"market", defaultLocale.Market,
		"currency", defaultLocale.Currency,
	)

	hub := suggest.NewHub(log)
	go hub.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.Development()
	e.Validator = validator.New()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(log)

	e.Use(middleware.RequestID())
	e.Use(handler.RequestContext())
	e.Use(handler.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
	}))

	handler.Routes{
		Health:   handler.NewHealthHandler(monitor),
		State:    handler.NewStateHandler(defaultLocale, monitor, log),
		Search:   handler.NewSearchHandler(svc, defaultLocale, cfg.SearchLimit, monitor, log),
		Location: handler.NewLocationHandler(svc, resolver, cfg.SuggestMinLength, monitor),
		Suggest: suggest.NewHandler(hub, svc, monitor.Notice, suggest.Config{
			Debounce:  cfg.SuggestDebounce,
			MinLength: cfg.SuggestMinLength,
		}, log),
	}.Register(e)

	go func() {
		log.Info("starting flight explorer server", "port", cfg.Port, "fixture_mode", cfg.FixtureMode())
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

func newAPI(cfg config.Config, log *logger.Logger) (skyscrapper.API, error) {
	if cfg.FixtureMode() {
		log.Warn("RAPIDAPI_KEY not set, serving embedded sample data")
		fixture, err := skyscrapper.NewFixtureClient()
		if err != nil {
			return nil, err
		}
		return fixture, nil
	}
	return skyscrapper.NewClient(skyscrapper.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.RapidAPIKey,
		Host:    cfg.RapidAPIHost,
		Timeout: cfg.HTTPTimeout,
	}, log), nil
}

// newCache prefers Redis and falls back to process memory when it is unreachable.
func newCache(ctx context.Context, cfg config.Config, log *logger.Logger) cache.Cache {
	if !cfg.CacheEnabled {
		log.Info("cache disabled")
		return cache.NewNoOpCache()
	}

	redisCfg := cache.DefaultRedisConfig()
	redisCfg.Host = cfg.RedisHost
	redisCfg.Port = cfg.RedisPort
	redisCfg.Password = cfg.RedisPassword
	redisCfg.DB = cfg.RedisDB
	redisCfg.TTL = cfg.FlightTTL

	redisCache, err := cache.NewRedisCache(redisCfg)
	if err != nil {
		log.Warn("redis unavailable, using in-memory cache", "error", err)
		mem := cache.NewMemoryCache(cfg.FlightTTL)
		go purgeExpired(ctx, mem, time.Minute, log)
		return mem
	}
	log.Info("redis cache enabled", "host", cfg.RedisHost, "port", cfg.RedisPort)
	return redisCache
}

func purgeExpired(ctx context.Context, mem *cache.MemoryCache, every time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := mem.Purge(); n > 0 {
				log.Debug("purged expired cache entries", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
