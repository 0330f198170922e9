package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL = "https://sky-scrapper.p.rapidapi.com/api"
	DefaultAPIHost = "sky-scrapper.p.rapidapi.com"
	DefaultGeoIP   = "https://ipapi.co"
)

type Config struct {
	Port string
	Env  string

	BaseURL      string
	RapidAPIKey  string
	RapidAPIHost string
	HTTPTimeout  time.Duration
	GeoIPURL     string

	CacheEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	ConfigTTL  time.Duration
	AirportTTL time.Duration
	FlightTTL  time.Duration

	UpstreamRPS   float64
	UpstreamBurst int
	SearchRPS     float64
	SearchBurst   int

	SuggestDebounce  time.Duration
	SuggestMinLength int
	SearchLimit      int

	CORSOrigins []string
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("APP_ENV", "production"),

		BaseURL:      strings.TrimRight(getEnv("SKYSCRAPPER_BASE_URL", DefaultBaseURL), "/"),
		RapidAPIKey:  getEnv("RAPIDAPI_KEY", ""),
		RapidAPIHost: getEnv("RAPIDAPI_HOST", DefaultAPIHost),
		HTTPTimeout:  getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
		GeoIPURL:     strings.TrimRight(getEnv("GEOIP_URL", DefaultGeoIP), "/"),

		CacheEnabled:  getEnvBool("CACHE_ENABLED", true),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		ConfigTTL:  getEnvDuration("CONFIG_CACHE_TTL", time.Hour),
		AirportTTL: getEnvDuration("AIRPORT_CACHE_TTL", 10*time.Minute),
		FlightTTL:  getEnvDuration("FLIGHT_CACHE_TTL", 5*time.Minute),

		UpstreamRPS:   getEnvFloat("UPSTREAM_RPS", 5),
		UpstreamBurst: getEnvInt("UPSTREAM_BURST", 10),
		SearchRPS:     getEnvFloat("SEARCH_RPS", 1),
		SearchBurst:   getEnvInt("SEARCH_BURST", 3),

		SuggestDebounce:  getEnvDuration("SUGGEST_DEBOUNCE", 300*time.Millisecond),
		SuggestMinLength: getEnvInt("SUGGEST_MIN_LENGTH", 2),
		SearchLimit:      getEnvInt("SEARCH_LIMIT", 50),

		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
	}
}

// FixtureMode is on when no RapidAPI key is configured.
func (c Config) FixtureMode() bool {
	return c.RapidAPIKey == ""
}

func (c Config) Development() bool {
	return strings.EqualFold(c.Env, "development")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
