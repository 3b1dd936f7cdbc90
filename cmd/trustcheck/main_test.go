package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trustcheck/internal/credential"
	"trustcheck/internal/errs"
	"trustcheck/pkg/models"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	c := newRootCommand()
	c.SetArgs(args)
	c.SetIn(strings.NewReader(stdin))
	c.SetOut(&out)
	c.SetErr(io.Discard)

	err := c.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "trustcheck version dev") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestHelp(t *testing.T) {
	out, err := run(t, "", "help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, sub := range []string{"serve", "dnssec", "tls", "seal", "open", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("help output does not list %q", sub)
		}
	}
}

func TestSealOpen(t *testing.T) {
	t.Setenv("TRUSTCHECK_PASSWORD", "correct horse battery staple")

	sealed, err := run(t, "api-token-123", "seal")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	var payload credential.Payload
	if err := json.Unmarshal([]byte(sealed), &payload); err != nil {
		t.Fatalf("seal output is not a payload: %v", err)
	}
	if payload.Salt == "" || payload.Nonce == "" || payload.Ciphertext == "" {
		t.Fatalf("incomplete payload: %+v", payload)
	}

	plain, err := run(t, sealed, "open")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if plain != "api-token-123" {
		t.Errorf("open = %q, want %q", plain, "api-token-123")
	}
}

func TestOpen_WrongPassword(t *testing.T) {
	t.Setenv("SEAL_PASSWORD", "first")
	t.Setenv("OTHER_PASSWORD", "second")

	sealed, err := run(t, "secret", "seal", "--password-env", "SEAL_PASSWORD")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	_, err = run(t, sealed, "open", "--password-env", "OTHER_PASSWORD")
	if !errors.Is(err, errs.ErrDecryption) {
		t.Errorf("expected decryption error, got %v", err)
	}
}

func TestOpen_MalformedInput(t *testing.T) {
	t.Setenv("TRUSTCHECK_PASSWORD", "pw")

	if _, err := run(t, "not json", "open"); err == nil {
		t.Error("expected error for non-JSON input")
	}

	_, err := run(t, `{"salt":"!!","nonce":"!!","ciphertext":"!!"}`, "open")
	if !errors.Is(err, errs.ErrDecryption) {
		t.Errorf("expected decryption error, got %v", err)
	}
}

func TestSeal_MissingPassword(t *testing.T) {
	t.Setenv("EMPTY_PASSWORD", "")

	if _, err := run(t, "x", "seal", "--password-env", "EMPTY_PASSWORD"); err == nil {
		t.Error("expected error for empty password variable")
	}
}

func TestTLSCommand_PlainHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	if err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "tls", "127.0.0.1", "--port", port, "--json")
	if err != nil {
		t.Fatalf("tls: %v", err)
	}

	var result models.SslCheckResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if result.ConnectionStatus != models.ConnectionHTTP {
		t.Errorf("connection_status = %s, want http", result.ConnectionStatus)
	}
	if result.CertInfo != nil {
		t.Error("expected no certificate info")
	}
}

func TestTLSCommand_RequiresDomain(t *testing.T) {
	if _, err := run(t, "", "tls"); err == nil {
		t.Error("expected error without a domain argument")
	}
}

func TestDNSSECCommand_InvalidNameserver(t *testing.T) {
	_, err := run(t, "", "dnssec", "example.com", "--nameserver", "not-an-ip")
	if !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestServeCommand_InvalidConfig(t *testing.T) {
	if _, err := run(t, "", "serve", "--cache-mode", "bogus", "--port", "0"); err == nil {
		t.Error("expected configuration error")
	}
}
