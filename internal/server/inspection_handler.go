package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"trustcheck/internal/cache"
	"trustcheck/internal/errs"
	"trustcheck/internal/json"
	"trustcheck/internal/metrics"
	"trustcheck/internal/scanner"
	"trustcheck/internal/scanner/tools"
	"trustcheck/pkg/models"
)

// ServeDNSSEC handles the "/dnssec/{domain}" route
func (h *Handler) ServeDNSSEC(w http.ResponseWriter, r *http.Request) {
	format := h.getOutputFormat(r)
	domain := tools.NormalizeDomain(r.PathValue("domain"))

	nameserver := r.URL.Query().Get("nameserver")
	if nameserver == "" {
		nameserver = h.config.Scanner.Nameserver
	}

	// Try cache first (read-through cache strategy)
	key := cache.DNSSECKey(domain, nameserver)
	if cached, found := cache.Load[models.DnssecResult](r.Context(), h.cache, key); found {
		h.metrics.CacheHit(metrics.KindDNSSEC)
		h.writeDNSSEC(w, cached, format)
		return
	}
	h.metrics.CacheMiss(metrics.KindDNSSEC)

	result, err := h.scanner.InspectDNSSEC(r.Context(), domain, nameserver)
	if err != nil {
		h.writeError(w, r, err, format)
		return
	}

	cache.Save(r.Context(), h.cache, key, result)
	h.writeDNSSEC(w, result, format)
}

// ServeSSL handles the "/ssl/{domain}" route
func (h *Handler) ServeSSL(w http.ResponseWriter, r *http.Request) {
	format := h.getOutputFormat(r)
	domain := tools.NormalizeDomain(r.PathValue("domain"))

	port, err := parsePort(r.URL.Query().Get("port"))
	if err != nil {
		h.writeError(w, r, err, format)
		return
	}

	key := cache.SSLKey(domain, port)
	if cached, found := cache.Load[models.SslCheckResult](r.Context(), h.cache, key); found {
		h.metrics.CacheHit(metrics.KindSSL)
		h.writeSSL(w, cached, format)
		return
	}
	h.metrics.CacheMiss(metrics.KindSSL)

	result, err := h.scanner.InspectSSL(r.Context(), domain, port)
	if err != nil {
		h.writeError(w, r, err, format)
		return
	}

	cache.Save(r.Context(), h.cache, key, result)
	h.writeSSL(w, result, format)
}

func parsePort(raw string) (uint16, error) {
	if raw == "" {
		return scanner.DefaultTLSPort, nil
	}
	port, err := strconv.ParseUint(raw, 10, 16)
	if err != nil || port == 0 {
		return 0, errs.Validation("invalid port: %s", raw)
	}
	return uint16(port), nil
}

func (h *Handler) writeDNSSEC(w http.ResponseWriter, result *models.DnssecResult, format OutputFormat) {
	switch format {
	case OutputFormatJSON:
		w.Header().Set("Content-Type", "application/json")
		if err := h.jsonRenderer.RenderDNSSEC(w, result); err != nil {
			http.Error(w, "Failed to render JSON response: "+err.Error(), http.StatusInternalServerError)
		}
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := h.ansiRenderer.RenderDNSSEC(w, result); err != nil {
			http.Error(w, "Failed to render ANSI response: "+err.Error(), http.StatusInternalServerError)
		}
	}
}

func (h *Handler) writeSSL(w http.ResponseWriter, result *models.SslCheckResult, format OutputFormat) {
	switch format {
	case OutputFormatJSON:
		w.Header().Set("Content-Type", "application/json")
		if err := h.jsonRenderer.RenderSSL(w, result); err != nil {
			http.Error(w, "Failed to render JSON response: "+err.Error(), http.StatusInternalServerError)
		}
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := h.ansiRenderer.RenderSSL(w, result); err != nil {
			http.Error(w, "Failed to render ANSI response: "+err.Error(), http.StatusInternalServerError)
		}
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, format OutputFormat) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		h.requestLogger(r).Error("inspection failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.String("error", err.Error()))
	}

	if format == OutputFormatJSON {
		json.Write(w, status, json.ErrorBody{Error: err.Error()})
		return
	}
	http.Error(w, fmt.Sprintf("Inspection failed: %v", err), status)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errs.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
