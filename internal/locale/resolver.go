// Package locale picks the market and currency for a visitor from their IP address.
package locale

import (
	"context"
	"net/netip"
	"strings"
	"time"

	"github.com/dharmasatrya/flightexplorer/internal/cache"
	"github.com/dharmasatrya/flightexplorer/internal/logger"
	"github.com/dharmasatrya/flightexplorer/internal/models"
)

// FallbackCountry is assumed when the geolocation lookup fails.
const FallbackCountry = "US"

type CountryLookup interface {
	Country(ctx context.Context, ip string) (string, error)
}

type ConfigSource interface {
	GetConfig(ctx context.Context) ([]models.LocaleConfig, error)
}

// Geolocation answers ISO codes while the flight API lists the UK as "UK".
var aliases = map[string]string{
	"GB": "UK",
}

type Result struct {
	Locale  models.LocaleSettings
	Country string
	// Matched is false when the default locale was used.
	Matched bool
	// Fallback is true when geolocation failed and FallbackCountry was assumed.
	Fallback bool
}

type Resolver struct {
	geo     CountryLookup
	configs ConfigSource
	cache   cache.Cache
	ttl     time.Duration
	log     *logger.Logger
}

func NewResolver(geo CountryLookup, configs ConfigSource, c cache.Cache, ttl time.Duration, log *logger.Logger) *Resolver {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Resolver{
		geo:     geo,
		configs: configs,
		cache:   c,
		ttl:     ttl,
		log:     log,
	}
}

// Resolve never fails. Any lookup problem is logged and the default locale returned.
func (r *Resolver) Resolve(ctx context.Context, ip string) Result {
	log := r.log.WithContext(ctx)

	country, err := r.country(ctx, ip)
	fallback := false
	if err != nil {
		log.Warn("geolocation failed, assuming fallback country",
			"ip", ip,
			"fallback", FallbackCountry,
			"error", err,
		)
		country = FallbackCountry
		fallback = true
	}

	configs, err := r.configs.GetConfig(ctx)
	if err != nil {
		log.Warn("locale config unavailable, using default locale", "error", err)
		return Result{Locale: Default(), Country: country, Fallback: fallback}
	}

	cfg, ok := Match(configs, country)
	if !ok {
		log.Debug("no locale config for country", "country", country)
		return Result{Locale: Default(), Country: country, Fallback: fallback}
	}
	return Result{Locale: cfg.Settings(), Country: cfg.CountryCode, Matched: true, Fallback: fallback}
}

func (r *Resolver) country(ctx context.Context, ip string) (string, error) {
	ip = lookupAddress(ip)
	key := cache.Key("geo", ip)
	if cached, ok := r.cache.Get(ctx, key); ok {
		return string(cached), nil
	}

	code, err := r.geo.Country(ctx, ip)
	if err != nil {
		return "", err
	}
	if err := r.cache.Set(ctx, key, []byte(code), r.ttl); err != nil {
		r.log.Debug("geo cache write failed", "error", err)
	}
	return code, nil
}

// Private and loopback clients share the server's network, so the server's own
// public address is looked up instead.
func lookupAddress(ip string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil || addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() || addr.IsLinkLocalUnicast() {
		return ""
	}
	return addr.String()
}

// Match finds the config for a country code, ignoring case. Aliases are only
// tried when the code itself has no entry.
func Match(configs []models.LocaleConfig, code string) (models.LocaleConfig, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if c, ok := find(configs, code); ok {
		return c, true
	}
	if alias, ok := aliases[code]; ok {
		return find(configs, alias)
	}
	return models.LocaleConfig{}, false
}

func find(configs []models.LocaleConfig, code string) (models.LocaleConfig, bool) {
	for _, c := range configs {
		if strings.EqualFold(c.CountryCode, code) {
			return c, true
		}
	}
	return models.LocaleConfig{}, false
}

func Default() models.LocaleSettings {
	return models.DefaultLocale()
}
