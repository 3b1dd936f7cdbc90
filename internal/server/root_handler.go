package server

import (
	"fmt"
	"net/http"
	"strings"

	"trustcheck/internal/config"
	"trustcheck/internal/json"
)

// ServeHome handles the root "/" route
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	switch h.getOutputFormat(r) {
	case OutputFormatJSON:
		h.writeHomeJSON(w)
	default:
		h.writeHomeANSI(w)
	}
}

func (h *Handler) writeHomeANSI(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	base := h.config.App.BaseURL()

	var b strings.Builder
	fmt.Fprintf(&b, "\033[1m\033[32m%s\033[0m - DNSSEC and TLS inspector\n\n", h.config.App.Name)

	b.WriteString("\033[1mUsage:\033[0m\n")
	b.WriteString("  curl " + base + "/dnssec/<domain>[?nameserver=<ip>]\n")
	b.WriteString("  curl " + base + "/ssl/<domain>[?port=<port>]\n\n")

	b.WriteString("\033[1mExamples:\033[0m\n")
	b.WriteString("  curl " + base + "/dnssec/cloudflare.com\n")
	b.WriteString("  curl " + base + "/dnssec/example.com?nameserver=1.1.1.1\n")
	b.WriteString("  curl " + base + "/ssl/github.com\n")
	b.WriteString("  curl " + base + "/ssl/example.com?port=8443\n\n")

	b.WriteString("\033[1mOutput Formats:\033[0m\n")
	b.WriteString("  Text (default): curl " + base + "/ssl/github.com\n")
	b.WriteString("  JSON:           curl " + base + "/ssl/github.com?format=json\n")
	b.WriteString("  JSON (header):  curl -H \"Accept: application/json\" " + base + "/ssl/github.com\n\n")

	b.WriteString("\033[1mCache:\033[0m\n")
	b.WriteString("  " + h.cacheDescription() + "\n\n")

	fmt.Fprint(w, b.String())
}

func (h *Handler) writeHomeJSON(w http.ResponseWriter) {
	base := h.config.App.BaseURL()

	response := map[string]interface{}{
		"name":        h.config.App.Name,
		"description": "DNSSEC and TLS inspector",
		"endpoints": map[string]string{
			"dnssec": base + "/dnssec/<domain>?nameserver=<ip>",
			"ssl":    base + "/ssl/<domain>?port=<port>",
			"health": base + "/health",
		},
		"examples": []string{
			base + "/dnssec/cloudflare.com",
			base + "/ssl/github.com",
		},
		"formats": map[string]string{
			"text": base + "/ssl/github.com",
			"json": base + "/ssl/github.com?format=json",
		},
		"cache": map[string]interface{}{
			"mode": h.config.Cache.Mode,
			"ttl":  h.config.Cache.TTL.String(),
		},
		"metrics": h.config.Metrics.Enabled && h.metrics != nil,
	}

	json.Write(w, http.StatusOK, response)
}

func (h *Handler) cacheDescription() string {
	switch h.config.Cache.Mode {
	case config.CacheModeMem:
		return fmt.Sprintf("In-memory (%v TTL)", h.config.Cache.TTL)
	case config.CacheModeRedis:
		return fmt.Sprintf("Redis at %s (%v TTL)", h.config.Cache.Redis.Address, h.config.Cache.TTL)
	default:
		return "Disabled, every request inspects live"
	}
}
