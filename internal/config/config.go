package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all application settings, populated from environment variables.
type Config struct {
	DBPath          string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Weather lookup configuration.
	GeocodeBaseURL   string
	GeocodeLanguage  string
	GeocodeUserAgent string
	GeocodeCacheSize int
	ForecastBaseURL  string
	WeatherTimeout   time.Duration

	// Autosave writes a backup file after a burst of edits settles.
	AutosaveDelay time.Duration
	AutosavePath  string

	// Periodic backup snapshots while serving; zero disables them.
	SnapshotInterval time.Duration
	SnapshotDir      string
	SnapshotKeep     int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parsePositiveDuration("WEATHER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	autosaveDelay, err := parsePositiveDuration("AUTOSAVE_DELAY", "1s")
	if err != nil {
		return nil, err
	}

	snapshotInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("SNAPSHOT_INTERVAL", "0s"))
	if err != nil || snapshotInterval < 0 {
		return nil, errors.New("invalid SNAPSHOT_INTERVAL")
	}

	cacheSize, err := parsePositiveInt("GEOCODE_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	snapshotKeep, err := parsePositiveInt("SNAPSHOT_KEEP", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:          sharedcfg.EnvOrDefault("FISHLOG_DB_PATH", "data/fishlog.db"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", "127.0.0.1:8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,

		GeocodeBaseURL:   sharedcfg.EnvOrDefault("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeLanguage:  sharedcfg.EnvOrDefault("GEOCODE_LANGUAGE", "en"),
		GeocodeUserAgent: sharedcfg.EnvOrDefault("GEOCODE_USER_AGENT", "fishlog/1.0"),
		GeocodeCacheSize: cacheSize,
		ForecastBaseURL:  sharedcfg.EnvOrDefault("FORECAST_BASE_URL", "https://api.open-meteo.com/v1/forecast"),
		WeatherTimeout:   weatherTimeout,

		AutosaveDelay: autosaveDelay,
		AutosavePath:  sharedcfg.EnvOrDefault("AUTOSAVE_PATH", "data/fishlog-autosave.json"),

		SnapshotInterval: snapshotInterval,
		SnapshotDir:      sharedcfg.EnvOrDefault("SNAPSHOT_DIR", "data/backups"),
		SnapshotKeep:     snapshotKeep,
	}

	if cfg.DBPath == "" {
		return nil, errors.New("FISHLOG_DB_PATH is required")
	}
	if cfg.SnapshotInterval > 0 && cfg.SnapshotInterval < time.Second {
		return nil, errors.New("SNAPSHOT_INTERVAL must be at least 1s")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}
