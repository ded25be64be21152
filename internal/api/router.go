package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SimoKiihamaki/dashtabs/internal/config"
	"github.com/SimoKiihamaki/dashtabs/internal/tabs"
)

const maxBodyBytes = 1 << 10

func newRouter(deps Dependencies) (http.Handler, error) {
	if len(deps.Dashboard.Tabs) == 0 {
		deps.Dashboard = config.Defaults()
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	logger := deps.Logger.WithPrefix("api")

	if deps.RateLimiter == nil {
		// Without a cleanup routine idle clients stay until the router is
		// dropped; NewServer and Run start one for the servers they own.
		deps.RateLimiter = limiterFor(deps.Dashboard)
	}

	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	d, err := newDashboard(deps.Dashboard, logger.WithPrefix("tabs"), newMetrics(deps.Registry))
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logger.StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel}),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Use(SecurityMiddleware)
	r.Use(InputSanitizationMiddleware)
	r.Use(deps.RateLimiter.RateLimit)

	r.Get("/healthz", healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	r.Get("/", pageHandler(d))
	r.Post("/tabs/{name}", selectTabHandler(d))
	r.Get("/api/tabs", listTabsHandler(d))
	r.Put("/api/tabs/active", setActiveTabHandler(d))

	return r, nil
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pageHandler renders the dashboard. A ?tab= query deep-links to a tab as if
// it had been clicked; unknown names are ignored.
func pageHandler(d *dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.open(w, r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to build dashboard")
			return
		}
		if name := strings.TrimSpace(r.URL.Query().Get("tab")); name != "" {
			if err := s.click(name); err != nil {
				d.logger.Debug("ignoring deep link", "tab", name, "err", err)
			} else {
				d.metrics.selected(name, sourceLink)
			}
		}
		s.render(w, http.StatusOK)
	}
}

// selectTabHandler is the form target of every tab button. With a persisted
// selection it redirects back to the page; otherwise the selection would not
// survive the redirect, so the page is rendered in place.
func selectTabHandler(d *dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if _, ok := d.binding(name); !ok {
			writeError(w, http.StatusNotFound, "unknown tab")
			return
		}
		s, err := d.open(w, r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to build dashboard")
			return
		}
		if err := s.click(name); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to select tab")
			return
		}
		d.metrics.selected(name, sourceForm)
		if d.persists() {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		s.render(w, http.StatusOK)
	}
}

func listTabsHandler(d *dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.open(w, r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to build dashboard")
			return
		}
		writeJSON(w, http.StatusOK, s.state())
	}
}

type setActiveRequest struct {
	Tab string `json:"tab"`
}

func setActiveTabHandler(d *dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setActiveRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		req.Tab = strings.TrimSpace(req.Tab)
		if req.Tab == "" {
			writeError(w, http.StatusBadRequest, "tab is required")
			return
		}
		if _, ok := d.binding(req.Tab); !ok {
			writeError(w, http.StatusNotFound, "unknown tab")
			return
		}

		s, err := d.open(w, r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to build dashboard")
			return
		}
		if err := s.click(req.Tab); err != nil {
			if errors.Is(err, tabs.ErrUnknownTab) {
				writeError(w, http.StatusNotFound, "unknown tab")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to select tab")
			return
		}
		d.metrics.selected(req.Tab, sourceAPI)
		writeJSON(w, http.StatusOK, s.state())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
