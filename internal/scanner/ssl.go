package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"trustcheck/internal/errs"
	"trustcheck/internal/logger"
	"trustcheck/internal/scanner/tools"
	"trustcheck/pkg/models"
)

const DefaultTLSPort uint16 = 443

type dialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// SSLInspector connects to an endpoint and reports on the certificate it
// presents. When TLS cannot be negotiated it checks for plain HTTP instead.
type SSLInspector struct {
	backend        tools.TLSBackend
	dial           dialFunc
	connectTimeout time.Duration
	probeTimeout   time.Duration
	now            func() time.Time
}

func NewSSLInspector(connectTimeout, probeTimeout time.Duration) *SSLInspector {
	dialer := &net.Dialer{}
	return &SSLInspector{
		backend:        tools.StdTLSBackend{},
		dial:           dialer.DialContext,
		connectTimeout: connectTimeout,
		probeTimeout:   probeTimeout,
		now:            time.Now,
	}
}

// Inspect runs the inspection on its own goroutine so a stalled peer only
// holds up this caller. Connection problems are reported inside the result;
// the returned error is reserved for bad input and cancellation.
func (s *SSLInspector) Inspect(ctx context.Context, domain string, port uint16) (*models.SslCheckResult, error) {
	domain, err := tools.RequireDomain(domain)
	if err != nil {
		return nil, err
	}
	if port == 0 {
		port = DefaultTLSPort
	}

	done := make(chan *models.SslCheckResult, 1)
	go func() {
		done <- s.inspect(ctx, domain, port)
	}()

	select {
	case <-ctx.Done():
		return nil, errs.Network("tls inspection interrupted", ctx.Err())
	case result := <-done:
		return result, nil
	}
}

func (s *SSLInspector) inspect(ctx context.Context, domain string, port uint16) *models.SslCheckResult {
	log := logger.GetFromContext(ctx, logger.Get()).With(
		slog.String("domain", domain),
		slog.Int("port", int(port)))

	result := &models.SslCheckResult{Domain: domain, Port: port}
	address := net.JoinHostPort(domain, strconv.Itoa(int(port)))

	conn, err := s.connect(ctx, address)
	if err != nil {
		log.Debug("connection failed", slog.String("error", err.Error()))
		result.ConnectionStatus = models.ConnectionFailed
		result.Error = models.StringPtr(fmt.Sprintf("connection failed: %v", err))
		return result
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	hsCtx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	session, err := s.backend.Handshake(hsCtx, conn, domain)
	cancel()
	if err != nil {
		conn.Close()
		log.Debug("tls handshake failed, probing for plain http", slog.String("error", err.Error()))
		return s.probePlain(ctx, result, address, err)
	}
	defer session.Conn.Close()

	// The response is not needed; the request only exercises the session.
	if err := tools.WriteHead(session.Conn, domain, s.probeTimeout); err != nil {
		log.Debug("probe over tls failed", slog.String("error", err.Error()))
	}

	result.ConnectionStatus = models.ConnectionHTTPS

	leaf, err := tools.ParseLeaf(session.PeerChain)
	if err != nil {
		if !errors.Is(err, tools.ErrNoCertificate) {
			log.Warn("unparseable leaf certificate", slog.String("error", err.Error()))
		}
		result.Error = models.StringPtr(err.Error())
		return result
	}

	result.CertInfo = tools.BuildCertInfo(leaf, session.PeerChain, domain, s.now())

	log.Debug("tls inspection completed",
		slog.String("subject", result.CertInfo.Subject),
		slog.Int64("days_remaining", result.CertInfo.DaysRemaining),
		slog.Bool("is_valid", result.CertInfo.IsValid))

	return result
}

func (s *SSLInspector) connect(ctx context.Context, address string) (net.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()
	return s.dial(dialCtx, "tcp", address)
}

// probePlain opens a fresh connection, since the failed handshake has already
// written a ClientHello on the first one.
func (s *SSLInspector) probePlain(ctx context.Context, result *models.SslCheckResult, address string, handshakeErr error) *models.SslCheckResult {
	conn, err := s.connect(ctx, address)
	if err == nil {
		stop := context.AfterFunc(ctx, func() { conn.Close() })
		isHTTP := tools.ProbeHTTP(conn, result.Domain, s.probeTimeout)
		stop()
		conn.Close()

		if isHTTP {
			result.ConnectionStatus = models.ConnectionHTTP
			return result
		}
	}

	result.ConnectionStatus = models.ConnectionFailed
	result.Error = models.StringPtr(fmt.Sprintf("TLS handshake failed and endpoint is not HTTP: %v", handshakeErr))
	return result
}
