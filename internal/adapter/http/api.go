package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/claussann/FishingWebApp/internal/backup"
	"github.com/claussann/FishingWebApp/internal/domain"
	"github.com/claussann/FishingWebApp/internal/logbook"
	"github.com/claussann/FishingWebApp/internal/store"
	"github.com/claussann/FishingWebApp/internal/weather"
)

// maxBackupBytes bounds an uploaded backup; photos are embedded as data URLs.
const maxBackupBytes = 64 << 20

// API serves the fishing log as JSON under /api.
type API struct {
	logbook  *logbook.Logbook
	codec    *backup.Codec
	settings *store.Settings
	weather  *weather.Service
	panel    *weather.Panel
	logger   *slog.Logger
}

func NewAPI(lb *logbook.Logbook, codec *backup.Codec, settings *store.Settings, ws *weather.Service, logger *slog.Logger) *API {
	return &API{
		logbook:  lb,
		codec:    codec,
		settings: settings,
		weather:  ws,
		panel:    weather.NewPanel(),
		logger:   logger,
	}
}

// Register mounts the API routes on mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/gear", a.listGear)
	mux.HandleFunc("POST /api/gear", a.addGear)
	mux.HandleFunc("DELETE /api/gear/{id}", a.deleteHandler(a.logbook.DeleteGear))

	mux.HandleFunc("GET /api/spots", a.listSpots)
	mux.HandleFunc("POST /api/spots", a.addSpot)
	mux.HandleFunc("GET /api/spots/markers", a.spotMarkers)
	mux.HandleFunc("DELETE /api/spots/{id}", a.deleteHandler(a.logbook.DeleteSpot))

	mux.HandleFunc("GET /api/outings", a.listOutings)
	mux.HandleFunc("POST /api/outings", a.addOuting)
	mux.HandleFunc("GET /api/outings/latest", a.latestOuting)
	mux.HandleFunc("DELETE /api/outings/{id}", a.deleteHandler(a.logbook.DeleteOuting))

	mux.HandleFunc("GET /api/catches", a.listCatches)
	mux.HandleFunc("POST /api/catches", a.addCatch)
	mux.HandleFunc("DELETE /api/catches/{id}", a.deleteHandler(a.logbook.DeleteCatch))

	mux.HandleFunc("GET /api/stats", a.statistics)
	mux.HandleFunc("GET /api/techniques", a.techniques)

	mux.HandleFunc("GET /api/backup", a.exportBackup)
	mux.HandleFunc("POST /api/backup/preview", a.previewBackup)
	mux.HandleFunc("POST /api/backup/import", a.importBackup)

	mux.HandleFunc("GET /api/weather", a.lookupWeather)
	mux.HandleFunc("GET /api/weather/panel", a.weatherPanel)

	mux.HandleFunc("GET /api/settings", a.getSettings)
	mux.HandleFunc("PUT /api/settings", a.putSettings)
}

func (a *API) listGear(w http.ResponseWriter, r *http.Request) {
	category := domain.GearCategory(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown category %q", category))
		return
	}
	writeJSON(w, http.StatusOK, a.logbook.ListGear(r.Context(), category))
}

func (a *API) addGear(w http.ResponseWriter, r *http.Request) {
	var g domain.Gear
	if !decodeBody(w, r, &g) {
		return
	}
	created, err := a.logbook.AddGear(r.Context(), g)
	a.writeCreated(w, created, err)
}

func (a *API) listSpots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.logbook.ListSpots(r.Context()))
}

func (a *API) addSpot(w http.ResponseWriter, r *http.Request) {
	var in domain.SpotInput
	if !decodeBody(w, r, &in) {
		return
	}
	s, err := in.Spot()
	if err != nil {
		a.writeFailure(w, err)
		return
	}
	created, err := a.logbook.AddSpot(r.Context(), s)
	a.writeCreated(w, created, err)
}

type marker struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func (a *API) spotMarkers(w http.ResponseWriter, r *http.Request) {
	spots := a.logbook.ListSpots(r.Context())
	markers := make([]marker, 0, len(spots))
	for _, s := range spots {
		markers = append(markers, marker{ID: s.ID, Name: s.Name, Lat: s.Lat, Lng: s.Lng})
	}
	writeJSON(w, http.StatusOK, markers)
}

func (a *API) listOutings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.logbook.Diary(r.Context()))
}

func (a *API) addOuting(w http.ResponseWriter, r *http.Request) {
	var o domain.Outing
	if !decodeBody(w, r, &o) {
		return
	}
	created, err := a.logbook.AddOuting(r.Context(), o)
	a.writeCreated(w, created, err)
}

type latestResponse struct {
	Found  bool                    `json:"found"`
	Outing *logbook.ResolvedOuting `json:"outing,omitempty"`
}

func (a *API) latestOuting(w http.ResponseWriter, r *http.Request) {
	latest, ok := a.logbook.Latest(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, latestResponse{})
		return
	}
	writeJSON(w, http.StatusOK, latestResponse{Found: true, Outing: &latest})
}

func (a *API) listCatches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.logbook.ListCatches(r.Context()))
}

func (a *API) addCatch(w http.ResponseWriter, r *http.Request) {
	var c domain.Catch
	if !decodeBody(w, r, &c) {
		return
	}
	created, err := a.logbook.AddCatch(r.Context(), c)
	a.writeCreated(w, created, err)
}

func (a *API) deleteHandler(del func(ctx context.Context, id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !confirmed(w, r) {
			return
		}
		if err := del(r.Context(), r.PathValue("id")); err != nil {
			a.writeFailure(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (a *API) statistics(w http.ResponseWriter, r *http.Request) {
	year := domain.Now().Year()
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1 || y > 9999 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid year %q", s))
			return
		}
		year = y
	}
	writeJSON(w, http.StatusOK, a.logbook.Statistics(r.Context(), year))
}

func (a *API) techniques(w http.ResponseWriter, r *http.Request) {
	env := domain.Environment(r.URL.Query().Get("environment"))
	if env == "" {
		all := make(map[domain.Environment][]string, len(domain.Environments))
		for _, e := range domain.Environments {
			all[e] = domain.Techniques(e)
		}
		writeJSON(w, http.StatusOK, all)
		return
	}
	if !env.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown environment %q", env))
		return
	}
	writeJSON(w, http.StatusOK, domain.Techniques(env))
}

func (a *API) exportBackup(w http.ResponseWriter, r *http.Request) {
	doc := a.codec.Export(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="fishlog-backup-%s.json"`, doc.ExportDate.Format("2006-01-02")))
	if err := backup.Encode(w, doc); err != nil {
		a.logger.Error("backup export failed", "error", err)
	}
}

func (a *API) previewBackup(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.readBackup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, backup.Preview(snap))
}

func (a *API) importBackup(w http.ResponseWriter, r *http.Request) {
	if !confirmed(w, r) {
		return
	}
	snap, ok := a.readBackup(w, r)
	if !ok {
		return
	}
	err := a.logbook.Exclusive(func() error { return a.codec.Apply(r.Context(), snap) })
	if err != nil {
		a.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, backup.Preview(snap))
}

func (a *API) readBackup(w http.ResponseWriter, r *http.Request) (backup.Snapshot, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return backup.Snapshot{}, false
	}
	snap, err := a.codec.Check(raw)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return backup.Snapshot{}, false
	}
	return snap, true
}

func (a *API) lookupWeather(w http.ResponseWriter, r *http.Request) {
	report, err := a.panel.Lookup(r.Context(), a.weather, r.URL.Query().Get("place"))
	if err != nil {
		a.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *API) weatherPanel(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.panel.View())
}

type settingsBody struct {
	Theme    store.Theme `json:"theme"`
	Autosave *bool       `json:"autosave,omitempty"`
}

func (a *API) getSettings(w http.ResponseWriter, r *http.Request) {
	autosave := a.settings.Autosave(r.Context())
	writeJSON(w, http.StatusOK, settingsBody{Theme: a.settings.Theme(r.Context()), Autosave: &autosave})
}

// putSettings applies the fields present in the body and leaves the others.
func (a *API) putSettings(w http.ResponseWriter, r *http.Request) {
	var body settingsBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Theme != "" {
		if err := a.settings.SetTheme(r.Context(), body.Theme); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if body.Autosave != nil {
		if err := a.settings.SetAutosave(r.Context(), *body.Autosave); err != nil {
			a.writeFailure(w, err)
			return
		}
	}
	a.getSettings(w, r)
}

func (a *API) writeCreated(w http.ResponseWriter, v any, err error) {
	if err != nil {
		a.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// writeFailure maps domain errors to status codes.
func (a *API) writeFailure(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, logbook.ErrNotFound), errors.Is(err, weather.ErrPlaceNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, weather.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, weather.ErrNoConditions), errors.Is(err, weather.ErrUpstream):
		writeError(w, http.StatusBadGateway, err)
	default:
		a.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}
