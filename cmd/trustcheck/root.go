package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"trustcheck/internal/config"
	"trustcheck/internal/logger"
)

func newRootCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "trustcheck",
		Short: "trustcheck inspects DNSSEC and TLS configuration of domains",
		Long: `Inspect the DNSSEC chain and TLS certificate of a domain from the
command line, or run an HTTP service that does the same on request.

Configuration is read from TRUSTCHECK_* environment variables and
overridden by command-line flags.`,
		SilenceUsage: true,
	}

	c.AddCommand(
		newServeCommand(),
		newDNSSECCommand(),
		newTLSCommand(),
		newSealCommand(),
		newOpenCommand(),
		newVersionCommand(),
	)

	return c
}

// loadConfig reads the configuration and points the process logger at the
// command's error stream.
func loadConfig(cmd *cobra.Command, fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(fs)
	if err != nil {
		return nil, err
	}

	if _, err := logger.InitWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, nil
}
