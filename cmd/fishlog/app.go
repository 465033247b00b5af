package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/claussann/FishingWebApp/internal/adapter/nominatim"
	"github.com/claussann/FishingWebApp/internal/adapter/openmeteo"
	"github.com/claussann/FishingWebApp/internal/autosave"
	"github.com/claussann/FishingWebApp/internal/backup"
	"github.com/claussann/FishingWebApp/internal/config"
	"github.com/claussann/FishingWebApp/internal/logbook"
	"github.com/claussann/FishingWebApp/internal/observability"
	"github.com/claussann/FishingWebApp/internal/store"
	"github.com/claussann/FishingWebApp/internal/weather"
)

// app holds the wired components of one process.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *observability.Metrics
	logbook  *logbook.Logbook
	codec    *backup.Codec
	settings *store.Settings
	weather  *weather.Service
	autosave *autosave.Debouncer
	closeKV  func() error
}

// newApp loads the configuration, applies flag overrides and opens the store.
func newApp(opts *options, metrics *observability.Metrics, newLogger func(*config.Config) *slog.Logger) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}

	logger := newLogger(cfg)

	var (
		kv      store.KV
		closeKV = func() error { return nil }
	)
	if opts.memory {
		kv = store.NewMemoryKV()
		logger.Debug("using in-memory store")
	} else {
		db, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open store %s: %w", cfg.DBPath, err)
		}
		kv = db
		closeKV = db.Close
		logger.Debug("store opened", "path", cfg.DBPath)
	}

	cols := store.NewCollections(kv, logger, metrics)
	lb := logbook.New(cols, logger)
	codec := backup.NewCodec(cols, nil, logger, metrics)
	settings := store.NewSettings(kv)

	geocoder := nominatim.NewCachedGeocoder(
		nominatim.NewClient(cfg.GeocodeBaseURL, cfg.GeocodeLanguage, cfg.GeocodeUserAgent, cfg.WeatherTimeout, logger, metrics),
		cfg.GeocodeCacheSize,
		metrics,
	)
	forecaster := openmeteo.NewClient(cfg.ForecastBaseURL, cfg.WeatherTimeout, metrics)

	deb := autosave.NewDebouncer(autosave.NewFileSink(cfg.AutosavePath, codec), nil, cfg.AutosaveDelay, logger, metrics)
	lb.OnChange(func() {
		if settings.Autosave(context.Background()) {
			deb.Trigger()
		}
	})

	return &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		logbook:  lb,
		codec:    codec,
		settings: settings,
		weather:  weather.NewService(geocoder, forecaster, logger, metrics),
		autosave: deb,
		closeKV:  closeKV,
	}, nil
}

// close writes any pending autosave and closes the store.
func (a *app) close() {
	a.autosave.Close()
	if err := a.closeKV(); err != nil {
		a.logger.Error("store close error", "error", err)
	}
}

// withApp adapts fn into a RunE for a one-shot command. The app is opened with
// a private metrics registry and closed when fn returns.
func withApp(opts *options, fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(opts, observability.NewMetricsWith(prometheus.NewRegistry()), observability.NewCommandLogger)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd.Context(), cmd, a, args)
	}
}
