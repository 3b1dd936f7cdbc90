package tools

import (
	"net"
	"strings"

	"trustcheck/internal/errs"
)

// NormalizeDomain lowercases the input and strips any scheme, path, port and
// trailing dot. IP literals are returned as-is.
func NormalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))

	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "https://")

	if idx := strings.IndexAny(domain, "/?#"); idx != -1 {
		domain = domain[:idx]
	}

	if ip := net.ParseIP(strings.Trim(domain, "[]")); ip != nil {
		return ip.String()
	}
	if host, _, err := net.SplitHostPort(domain); err == nil {
		domain = host
	} else if idx := strings.Index(domain, ":"); idx != -1 {
		domain = domain[:idx]
	}

	return strings.TrimSuffix(domain, ".")
}

// RequireDomain normalizes the input and rejects an empty result.
func RequireDomain(domain string) (string, error) {
	normalized := NormalizeDomain(domain)
	if normalized == "" {
		return "", errs.Validation("domain must not be empty")
	}
	return normalized, nil
}
