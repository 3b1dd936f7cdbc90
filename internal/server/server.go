package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"trustcheck/internal/config"
	"trustcheck/internal/logger"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// New returns an http.Server for cfg with the request ID and logging
// middleware around h.
func New(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.App.Address(),
		Handler:           RequestIDMiddleware(LoggingMiddleware(h)),
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// Serve accepts connections on l until ctx is cancelled, then shuts the
// server down and waits for in-flight requests.
func Serve(ctx context.Context, srv *http.Server, l net.Listener) error {
	log := logger.Get()
	errCh := make(chan error, 1)

	go func() {
		log.Info("starting http server", slog.String("address", l.Addr().String()))
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("stopping http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

// ListenAndServe is Serve on a fresh TCP listener for srv.Addr.
func ListenAndServe(ctx context.Context, srv *http.Server) error {
	l, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("cannot listen on %s: %w", srv.Addr, err)
	}
	return Serve(ctx, srv, l)
}
