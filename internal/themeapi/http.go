// Package themeapi serves resolved theme configurations as JSON.
package themeapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mosaic-theme/internal/metrics"
	"mosaic-theme/internal/theme"
)

// FallbackHeader is set to "true" when the requested mode was not recognized
// and the light mode was substituted.
const FallbackHeader = "X-Theme-Mode-Fallback"

// Options configures a Handler.
type Options struct {
	DefaultMode theme.Mode
	Resolver    theme.Resolver
	Logger      *log.Logger
	Metrics     *metrics.Metrics
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
}

type Handler struct {
	opts Options
}

func NewHandler(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.DefaultMode == "" {
		opts.DefaultMode = theme.ModeLight
	}
	return &Handler{opts: opts}
}

// Routes returns the HTTP surface:
//
//	GET /{app}/theme?mode=dark  resolved configuration for one app
//	GET /themes?mode=dark       resolved configurations for every app
//	GET /healthz                liveness
//	GET /metrics                Prometheus exposition
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.health)
	mux.HandleFunc("/themes", h.allThemes)
	mux.Handle("/metrics", promhttp.HandlerFor(h.opts.Gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", h.appTheme)
	return h.instrument(mux)
}

func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		observer := &statusObserver{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(observer, r)
		h.opts.Logger.Info("http request",
			"event", "theme_http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", observer.status,
			"duration_ms", time.Since(started).Milliseconds(),
			"remote", r.RemoteAddr,
		)
	})
}

type statusObserver struct {
	http.ResponseWriter
	status int
}

func (o *statusObserver) WriteHeader(status int) {
	o.status = status
	o.ResponseWriter.WriteHeader(status)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if !h.allowGet(w, r, "health") {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) appTheme(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 || parts[1] != "theme" {
		h.logRejection(r, "app_theme", "unknown_route", r.URL.Path)
		writeErr(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		return
	}
	if !h.allowGet(w, r, "app_theme") {
		return
	}

	app, err := theme.ParseApp(parts[0])
	if err != nil {
		h.logRejection(r, "app_theme", "unknown_app", parts[0])
		writeMappedErr(w, err)
		return
	}

	cfg, fallback := h.resolve(r, app)
	if fallback {
		w.Header().Set(FallbackHeader, "true")
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *Handler) allThemes(w http.ResponseWriter, r *http.Request) {
	if !h.allowGet(w, r, "all_themes") {
		return
	}
	out := make(map[theme.App]theme.Config, len(theme.Apps()))
	anyFallback := false
	for _, app := range theme.Apps() {
		cfg, fallback := h.resolve(r, app)
		anyFallback = anyFallback || fallback
		out[app] = cfg
	}
	if anyFallback {
		w.Header().Set(FallbackHeader, "true")
	}
	writeJSON(w, http.StatusOK, out)
}

// resolve returns the configuration for app using the mode query parameter,
// or the default mode when the parameter is absent.
func (h *Handler) resolve(r *http.Request, app theme.App) (theme.Config, bool) {
	raw := string(h.opts.DefaultMode)
	if values, ok := r.URL.Query()["mode"]; ok && len(values) > 0 {
		raw = values[0]
	}
	cfg, ok := h.opts.Resolver.Resolve(app, raw)
	if !ok {
		h.opts.Logger.Warn("theme mode normalized", "event", "mode_fallback", "input", raw, "mode", cfg.Palette.Mode, "app", app)
	}
	h.opts.Metrics.ObserveResolution("http", string(app), string(cfg.Palette.Mode), !ok)
	return cfg, !ok
}

func (h *Handler) allowGet(w http.ResponseWriter, r *http.Request, operation string) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	h.logRejection(r, operation, "method_not_allowed", "")
	w.Header().Set("Allow", "GET, HEAD")
	writeErr(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	return false
}

func (h *Handler) logRejection(r *http.Request, operation, reason, details string) {
	h.opts.Logger.Warn("http request rejected",
		"event", "theme_request_rejected",
		"operation", operation,
		"method", r.Method,
		"path", r.URL.Path,
		"reason", reason,
		"details", details,
		"remote", r.RemoteAddr,
	)
}

func writeMappedErr(w http.ResponseWriter, err error) {
	if errors.Is(err, theme.ErrUnknownApp) {
		writeErr(w, http.StatusNotFound, "UNKNOWN_APP", "application must be one of admin, client")
		return
	}
	writeErr(w, http.StatusInternalServerError, "INTERNAL_ERROR", "theme service internal error")
}

func writeErr(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "message": message, "status": strconv.Itoa(status)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
