package server

import (
	"log/slog"
	"net/http"
	"strings"

	"trustcheck/internal/cache"
	"trustcheck/internal/config"
	"trustcheck/internal/logger"
	"trustcheck/internal/metrics"
	"trustcheck/internal/renderer"
	"trustcheck/internal/scanner"
)

type Handler struct {
	scanner      scanner.Scanner
	cache        cache.Store
	metrics      *metrics.Recorder
	jsonRenderer renderer.Renderer
	ansiRenderer renderer.Renderer
	config       *config.Config
	logger       *slog.Logger
	mux          *http.ServeMux
}

// NewHandler wires the routes. store may be nil, in which case nothing is
// cached; rec may be nil, in which case /metrics is not served.
func NewHandler(cfg *config.Config, sc scanner.Scanner, store cache.Store, rec *metrics.Recorder) *Handler {
	if store == nil {
		store = cache.NewNoOpStore()
	}

	h := &Handler{
		scanner:      sc,
		cache:        store,
		metrics:      rec,
		jsonRenderer: renderer.NewJSONRenderer(),
		ansiRenderer: renderer.NewANSIRenderer(),
		config:       cfg,
		logger:       logger.Get(),
		mux:          http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /{$}", h.ServeHome)
	h.mux.HandleFunc("GET /health", h.ServeHealth)
	h.mux.HandleFunc("GET /dnssec/{domain}", h.ServeDNSSEC)
	h.mux.HandleFunc("GET /ssl/{domain}", h.ServeSSL)
	if cfg.Metrics.Enabled && rec != nil {
		h.mux.Handle("GET /metrics", rec.Handler())
	}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type OutputFormat int

const (
	OutputFormatANSI OutputFormat = iota
	OutputFormatJSON
)

func (f OutputFormat) String() string {
	switch f {
	case OutputFormatANSI:
		return "ansi"
	case OutputFormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

func (h *Handler) getOutputFormat(r *http.Request) OutputFormat {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "json":
		return OutputFormatJSON
	case "ansi", "text":
		return OutputFormatANSI
	}

	// Check Accept header
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		return OutputFormatJSON
	}

	return OutputFormatANSI
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return logger.GetFromContext(r.Context(), h.logger)
}
