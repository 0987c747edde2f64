package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pbarzyk/matchboard/internal/platform/logging"
	"github.com/pbarzyk/matchboard/internal/platform/resilience"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string

	DBURL string

	CacheEnabled bool
	CacheTTL     time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string

	FeedBaseURL    string
	FeedSign       string
	FeedLocale     string
	FeedSportID    int
	FeedVariant    int
	FeedTimeout    time.Duration
	FeedMaxRetries int
	FeedBreaker    resilience.BreakerConfig

	FeedSegmentSep  string
	FeedEntrySep    string
	FeedKeyValueSep string
	LogoBaseURL     string

	SyncWorkers      int
	RebuildWorkers   int
	FormWindow       int
	InternalJobToken string

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cacheEnabled, err := getEnvAsBool("CACHE_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := getEnvAsDuration("CACHE_TTL", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	pprofEnabled, err := getEnvAsBool("PPROF_ENABLED", false)
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := getEnvAsBool("UPTRACE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := getEnvAsBool("PYROSCOPE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pyroscopeServer := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServer == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}

	feedTimeout, err := getEnvAsDuration("FEED_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, err
	}
	feedMaxRetries, err := getEnvAsInt("FEED_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, err
	}
	feedSportID, err := getEnvAsInt("FEED_SPORT_ID", 1)
	if err != nil {
		return Config{}, err
	}
	feedVariant, err := getEnvAsInt("FEED_VARIANT", 0)
	if err != nil {
		return Config{}, err
	}

	breakerEnabled, err := getEnvAsBool("FEED_BREAKER_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	breakerFailures, err := getEnvAsInt("FEED_BREAKER_FAILURES", 5)
	if err != nil {
		return Config{}, err
	}
	breakerOpenFor, err := getEnvAsDuration("FEED_BREAKER_OPEN_FOR", 20*time.Second)
	if err != nil {
		return Config{}, err
	}
	breakerProbes, err := getEnvAsInt("FEED_BREAKER_HALF_OPEN_PROBES", 2)
	if err != nil {
		return Config{}, err
	}

	syncWorkers, err := getEnvAsInt("SYNC_WORKERS", 4)
	if err != nil {
		return Config{}, err
	}
	rebuildWorkers, err := getEnvAsInt("REBUILD_WORKERS", 8)
	if err != nil {
		return Config{}, err
	}
	formWindow, err := getEnvAsInt("FORM_WINDOW", 5)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "matchboard"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),

		DBURL: strings.TrimSpace(getEnv("DATABASE_URL", "")),

		CacheEnabled: cacheEnabled,
		CacheTTL:     cacheTTL,

		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", "localhost:6060"),

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServer,
		PyroscopeAppName:       getEnv("PYROSCOPE_APP_NAME", "matchboard"),
		PyroscopeAuthToken:     getEnv("PYROSCOPE_AUTH_TOKEN", ""),

		FeedBaseURL:    getEnv("FEED_BASE_URL", ""),
		FeedSign:       getEnv("FEED_SIGN", ""),
		FeedLocale:     getEnv("FEED_LOCALE", "fr"),
		FeedSportID:    feedSportID,
		FeedVariant:    feedVariant,
		FeedTimeout:    feedTimeout,
		FeedMaxRetries: feedMaxRetries,
		FeedBreaker: resilience.BreakerConfig{
			Enabled:          breakerEnabled,
			FailureThreshold: breakerFailures,
			OpenFor:          breakerOpenFor,
			HalfOpenProbes:   breakerProbes,
		},

		FeedSegmentSep:  getEnv("FEED_SEGMENT_SEP", "~"),
		FeedEntrySep:    getEnv("FEED_ENTRY_SEP", "¬"),
		FeedKeyValueSep: getEnv("FEED_KV_SEP", "÷"),
		LogoBaseURL:     getEnv("LOGO_BASE_URL", ""),

		SyncWorkers:      syncWorkers,
		RebuildWorkers:   rebuildWorkers,
		FormWindow:       formWindow,
		InternalJobToken: strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),

		LogLevel: logging.ParseLevel(getEnv("LOG_LEVEL", "info")),
	}

	if cfg.AppEnv == EnvProd && cfg.InternalJobToken == "" {
		return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required in prod")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", EnvDev, "development", "local":
		return EnvDev, nil
	case EnvProd, "production":
		return EnvProd, nil
	default:
		return "", fmt.Errorf("unsupported APP_ENV %q", v)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}
