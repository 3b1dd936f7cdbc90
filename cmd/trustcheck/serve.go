package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"trustcheck/internal/config"
	"trustcheck/internal/logger"
	"trustcheck/internal/metrics"
	"trustcheck/internal/scanner"
	"trustcheck/internal/server"
)

func newServeCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Start the HTTP inspection service",
		RunE:  startServer,
	}
	config.RegisterFlags(c.Flags())

	return c
}

func startServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, cmd.Flags())
	if err != nil {
		return err
	}
	log := logger.Get().With(slog.String("component", "serve"))

	var rec *metrics.Recorder
	if cfg.Metrics.Enabled {
		rec = metrics.NewRecorder()
	}

	store, err := server.NewStore(cmd.Context(), cfg.Cache)
	if err != nil {
		return err
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	sc := scanner.NewScanner(scanner.Options{
		DNSTimeout:     cfg.Scanner.DNSTimeout,
		ConnectTimeout: cfg.Scanner.ConnectTimeout,
		ProbeTimeout:   cfg.Scanner.ProbeTimeout,
		Metrics:        rec,
	})

	log.Info("application starting",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("build_time", BuildTime),
		slog.String("config", cfg.String()))

	srv := server.New(cfg, server.NewHandler(cfg, sc, store, rec))
	return server.ListenAndServe(cmd.Context(), srv)
}
