package scanner

import (
	"context"
	"log/slog"
	"time"

	"trustcheck/internal/logger"
	"trustcheck/internal/metrics"
	"trustcheck/pkg/models"
)

type Scanner interface {
	InspectDNSSEC(ctx context.Context, domain, nameserver string) (*models.DnssecResult, error)
	InspectSSL(ctx context.Context, domain string, port uint16) (*models.SslCheckResult, error)
}

type Options struct {
	DNSTimeout     time.Duration
	ConnectTimeout time.Duration
	ProbeTimeout   time.Duration
	Metrics        *metrics.Recorder
}

// DefaultOptions mirrors the timeouts used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		DNSTimeout:     5 * time.Second,
		ConnectTimeout: 10 * time.Second,
		ProbeTimeout:   5 * time.Second,
	}
}

type ScannerImpl struct {
	dnssec  *DNSSECInspector
	ssl     *SSLInspector
	metrics *metrics.Recorder
}

func NewScanner(opts Options) *ScannerImpl {
	return &ScannerImpl{
		dnssec:  NewDNSSECInspector(opts.DNSTimeout),
		ssl:     NewSSLInspector(opts.ConnectTimeout, opts.ProbeTimeout),
		metrics: opts.Metrics,
	}
}

func (s *ScannerImpl) InspectDNSSEC(ctx context.Context, domain, nameserver string) (*models.DnssecResult, error) {
	log := logger.GetFromContext(ctx, logger.Get())
	start := time.Now()

	result, err := s.dnssec.Inspect(ctx, domain, nameserver)
	duration := time.Since(start)
	if err != nil {
		log.Warn("dnssec inspection failed",
			slog.String("domain", domain),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
		s.metrics.ObserveInspection(metrics.KindDNSSEC, "error", duration)
		return nil, err
	}

	log.Info("dnssec inspection finished",
		slog.String("domain", result.Domain),
		slog.String("status", string(result.ValidationStatus)),
		slog.Duration("duration", duration))
	s.metrics.ObserveInspection(metrics.KindDNSSEC, string(result.ValidationStatus), duration)

	return result, nil
}

func (s *ScannerImpl) InspectSSL(ctx context.Context, domain string, port uint16) (*models.SslCheckResult, error) {
	log := logger.GetFromContext(ctx, logger.Get())
	start := time.Now()

	result, err := s.ssl.Inspect(ctx, domain, port)
	duration := time.Since(start)
	if err != nil {
		log.Warn("tls inspection failed",
			slog.String("domain", domain),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
		s.metrics.ObserveInspection(metrics.KindSSL, "error", duration)
		return nil, err
	}

	log.Info("tls inspection finished",
		slog.String("domain", result.Domain),
		slog.Int("port", int(result.Port)),
		slog.String("status", string(result.ConnectionStatus)),
		slog.Duration("duration", duration))
	s.metrics.ObserveInspection(metrics.KindSSL, string(result.ConnectionStatus), duration)

	return result, nil
}
