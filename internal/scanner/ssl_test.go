package scanner

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"trustcheck/internal/errs"
	"trustcheck/internal/helpertest"
	"trustcheck/internal/scanner/tools"
	"trustcheck/pkg/models"
)

func newTestSSLInspector() *SSLInspector {
	return NewSSLInspector(2*time.Second, 500*time.Millisecond)
}

// dialTo sends every connection to address, whatever host the inspector asked for.
func dialTo(address string) dialFunc {
	return func(ctx context.Context, network, _ string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, network, address)
	}
}

func splitHostPort(t *testing.T, address string) (string, uint16) {
	t.Helper()

	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		t.Fatalf("split %q: %v", address, err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		t.Fatalf("parse port %q: %v", portStr, err)
	}
	return host, uint16(port)
}

func startTLSServer(t *testing.T, cert tls.Certificate) *httptest.Server {
	t.Helper()

	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.TLS = &tls.Config{Certificates: []tls.Certificate{cert}}
	srv.StartTLS()
	t.Cleanup(srv.Close)

	return srv
}

// startRawServer accepts connections and hands each one to handle.
func startRawServer(t *testing.T, handle func(net.Conn)) net.Listener {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	var wg sync.WaitGroup
	t.Cleanup(func() {
		ln.Close()
		wg.Wait()
	})

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer conn.Close()
				handle(conn)
			}()
		}
	}()

	return ln
}

func TestSSLInspector_ValidCertificateWithChain(t *testing.T) {
	ca := helpertest.NewCA(t, "Test Root CA")
	cert := ca.Issue(t, helpertest.CertSpec{
		CommonName: "www.example.com",
		DNSNames:   []string{"www.example.com", "example.com"},
	})
	srv := startTLSServer(t, cert)

	inspector := newTestSSLInspector()
	inspector.dial = dialTo(srv.Listener.Addr().String())

	result, err := inspector.Inspect(context.Background(), "example.com", 8443)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ConnectionStatus != models.ConnectionHTTPS {
		t.Fatalf("ConnectionStatus = %q, want https (error: %v)", result.ConnectionStatus, result.Error)
	}
	if result.Error != nil {
		t.Errorf("Error = %q", *result.Error)
	}
	if result.Port != 8443 {
		t.Errorf("Port = %d", result.Port)
	}

	info := result.CertInfo
	if info == nil {
		t.Fatal("expected certificate info")
	}
	if info.Domain != "www.example.com" {
		t.Errorf("Domain = %q", info.Domain)
	}
	if !info.IsValid || info.IsExpired {
		t.Errorf("IsValid = %v, IsExpired = %v", info.IsValid, info.IsExpired)
	}
	if len(info.CertificateChain) != 2 {
		t.Fatalf("chain length = %d, want 2", len(info.CertificateChain))
	}
	if info.CertificateChain[0].IsCA || !info.CertificateChain[1].IsCA {
		t.Errorf("unexpected chain: %+v", info.CertificateChain)
	}
}

func TestSSLInspector_IPAddressDoesNotMatchNames(t *testing.T) {
	cert := helpertest.SelfSigned(t, helpertest.CertSpec{CommonName: "localhost", DNSNames: []string{"localhost"}})
	srv := startTLSServer(t, cert)
	host, port := splitHostPort(t, srv.Listener.Addr().String())

	result, err := newTestSSLInspector().Inspect(context.Background(), host, port)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CertInfo == nil {
		t.Fatalf("expected certificate info, got %+v", result)
	}
	if result.CertInfo.IsValid {
		t.Error("certificate for localhost must not be valid for 127.0.0.1")
	}
	if len(result.CertInfo.CertificateChain) != 1 {
		t.Errorf("chain length = %d, want 1", len(result.CertInfo.CertificateChain))
	}
}

func TestSSLInspector_ExpiredCertificate(t *testing.T) {
	now := time.Date(2030, 3, 15, 0, 0, 0, 0, time.UTC)
	cert := helpertest.SelfSigned(t, helpertest.CertSpec{
		CommonName: "example.com",
		NotBefore:  now.AddDate(-1, 0, 0),
		NotAfter:   now.AddDate(0, 0, -10),
	})
	srv := startTLSServer(t, cert)

	inspector := newTestSSLInspector()
	inspector.dial = dialTo(srv.Listener.Addr().String())
	inspector.now = func() time.Time { return now }

	result, err := inspector.Inspect(context.Background(), "example.com", 443)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CertInfo == nil {
		t.Fatalf("expected certificate info, got %+v", result)
	}
	if !result.CertInfo.IsExpired {
		t.Error("expected expired certificate")
	}
	if result.CertInfo.DaysRemaining >= 0 {
		t.Errorf("DaysRemaining = %d, want negative", result.CertInfo.DaysRemaining)
	}
	if result.CertInfo.IsValid {
		t.Error("expired certificate must not be valid")
	}
}

func TestSSLInspector_PlainHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	host, port := splitHostPort(t, srv.Listener.Addr().String())

	result, err := newTestSSLInspector().Inspect(context.Background(), host, port)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ConnectionStatus != models.ConnectionHTTP {
		t.Errorf("ConnectionStatus = %q, want http", result.ConnectionStatus)
	}
	if result.CertInfo != nil {
		t.Error("plain HTTP must not carry certificate info")
	}
	if result.Error != nil {
		t.Errorf("Error = %q", *result.Error)
	}
}

func TestSSLInspector_NonHTTPService(t *testing.T) {
	ln := startRawServer(t, func(conn net.Conn) {
		_, _ = conn.Write([]byte("SSH-2.0-OpenSSH_9.6\r\n"))
		_, _ = io.Copy(io.Discard, conn)
	})
	host, port := splitHostPort(t, ln.Addr().String())

	result, err := newTestSSLInspector().Inspect(context.Background(), host, port)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ConnectionStatus != models.ConnectionFailed {
		t.Errorf("ConnectionStatus = %q, want failed", result.ConnectionStatus)
	}
	if result.Error == nil || !strings.Contains(*result.Error, "not HTTP") {
		t.Errorf("Error = %v", result.Error)
	}
}

func TestSSLInspector_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	host, port := splitHostPort(t, ln.Addr().String())
	ln.Close()

	result, err := newTestSSLInspector().Inspect(context.Background(), host, port)
	if err != nil {
		t.Fatalf("connection failures belong in the result: %v", err)
	}
	if result.ConnectionStatus != models.ConnectionFailed {
		t.Errorf("ConnectionStatus = %q, want failed", result.ConnectionStatus)
	}
	if result.Error == nil || !strings.HasPrefix(*result.Error, "connection failed") {
		t.Errorf("Error = %v", result.Error)
	}
}

func TestSSLInspector_DefaultPort(t *testing.T) {
	var dialed string
	inspector := newTestSSLInspector()
	inspector.dial = func(_ context.Context, _, address string) (net.Conn, error) {
		dialed = address
		return nil, errors.New("unreachable")
	}

	result, err := inspector.Inspect(context.Background(), "Example.com", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dialed != "example.com:443" {
		t.Errorf("dialed %q, want example.com:443", dialed)
	}
	if result.Port != 443 || result.Domain != "example.com" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestSSLInspector_EmptyDomain(t *testing.T) {
	_, err := newTestSSLInspector().Inspect(context.Background(), "  ", 443)
	if !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestSSLInspector_CancelledWhileStalled(t *testing.T) {
	ln := startRawServer(t, func(conn net.Conn) {
		_, _ = io.Copy(io.Discard, conn)
	})

	inspector := NewSSLInspector(10*time.Second, 5*time.Second)
	inspector.dial = dialTo(ln.Addr().String())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := inspector.Inspect(ctx, "stalled.example.com", 443)
	if !errors.Is(err, errs.ErrNetwork) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected network error wrapping deadline, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("inspection took %v after cancellation", elapsed)
	}
}

type fakeBackend struct {
	chain [][]byte
}

func (f fakeBackend) Handshake(_ context.Context, conn net.Conn, _ string) (*tools.TLSSession, error) {
	return &tools.TLSSession{Conn: conn, PeerChain: f.chain}, nil
}

func TestSSLInspector_HandshakeWithoutUsableCertificate(t *testing.T) {
	ln := startRawServer(t, func(conn net.Conn) {
		_, _ = io.Copy(io.Discard, conn)
	})

	tests := []struct {
		name      string
		chain     [][]byte
		wantError string
	}{
		{"no certificate", nil, "no certificate found"},
		{"unparseable leaf", [][]byte{[]byte("junk")}, "parse error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inspector := newTestSSLInspector()
			inspector.dial = dialTo(ln.Addr().String())
			inspector.backend = fakeBackend{chain: tt.chain}

			result, err := inspector.Inspect(context.Background(), "example.com", 443)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.ConnectionStatus != models.ConnectionHTTPS {
				t.Errorf("ConnectionStatus = %q, want https", result.ConnectionStatus)
			}
			if result.CertInfo != nil {
				t.Error("expected no certificate info")
			}
			if result.Error == nil || !strings.Contains(*result.Error, tt.wantError) {
				t.Errorf("Error = %v, want %q", result.Error, tt.wantError)
			}
		})
	}
}
