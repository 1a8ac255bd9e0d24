// internal/server/router.go
//
// Route table.
//
/*
Context
--------
Operational endpoints sit outside the worker limiter so probes keep
answering under load:

  GET /health      static liveness, always 200
  GET /health/db   pool ping bounded by connect_timeout_secs
  GET /metrics     Prometheus

Game pages run behind the worker limiter and then chi's Timeout, so a
request turned away by the limiter gets exactly one 503:

  GET /            index.html
  GET /register    register.html    (features.enable_registration)
  GET /world-map   world_map.html   (features.enable_world_map)
  GET /static/*    files under <template_root>/static

Disabled features answer 404, the same as an unknown path.
*/
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vallheru/game-web/internal/config"
	"github.com/vallheru/game-web/internal/middleware"
	"github.com/vallheru/game-web/internal/view"
)

// Pinger is the slice of *sqlx.DB the router needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps carries everything the handlers read.  DB may be nil, in which case
// /health/db answers 404.
type Deps struct {
	Config *config.Config
	Views  *view.Engine
	DB     Pinger
	Log    *zap.SugaredLogger
}

// NewRouter wires middleware and routes for d.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	h := &handlers{deps: d}

	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.AccessLog(d.Log),
		chimw.Recoverer,
		middleware.Security,
	)

	r.Get("/health", h.health)
	r.Get("/health/db", h.dbHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		timeout := cfg.Server.RequestTimeout()
		r.Use(middleware.Limit(cfg.Server.Workers, timeout))
		if timeout > 0 {
			r.Use(chimw.Timeout(timeout))
		}

		r.Get("/", h.page("index"))
		r.With(middleware.Gate(cfg.Features.EnableRegistration)).Get("/register", h.page("register"))
		r.With(middleware.Gate(cfg.Features.EnableWorldMap)).Get("/world-map", h.page("world_map"))

		static := http.Dir(filepath.Join(cfg.Templates.TemplateRoot, "static"))
		r.Handle(view.AssetPrefix+"*", http.StripPrefix(view.AssetPrefix, http.FileServer(static)))
	})

	return r
}

/*──────────────────────────── handlers ────────────────────────────────────*/

type handlers struct {
	deps Deps
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) dbHealth(w http.ResponseWriter, r *http.Request) {
	if h.deps.DB == nil {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	if t := h.deps.Config.Database.ConnectTimeout(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	if err := h.deps.DB.PingContext(ctx); err != nil {
		h.deps.Log.Warnw("database health check failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pageData is what every page template receives.
type pageData struct {
	Title    string
	Features config.Features
}

func (h *handlers) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{Title: "Vallheru", Features: h.deps.Config.Features}
		err := h.deps.Views.Render(w, name, data)
		switch {
		case err == nil:
		case errors.Is(err, view.ErrNotFound):
			http.NotFound(w, r)
		default:
			h.deps.Log.Errorw("render error", "page", name, "err", err)
			http.Error(w, "template error", http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

var _ Pinger = (*sqlx.DB)(nil)
