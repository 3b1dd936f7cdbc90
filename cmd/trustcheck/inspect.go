package main

import (
	"github.com/spf13/cobra"

	"trustcheck/internal/config"
	"trustcheck/internal/renderer"
	"trustcheck/internal/scanner"
)

func newDNSSECCommand() *cobra.Command {
	var (
		nameserver string
		asJSON     bool
	)

	c := &cobra.Command{
		Use:   "dnssec <domain>",
		Args:  cobra.ExactArgs(1),
		Short: "Inspect the DNSSEC records of a domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("nameserver") {
				nameserver = cfg.Scanner.Nameserver
			}

			result, err := newCLIScanner(cfg).InspectDNSSEC(cmd.Context(), args[0], nameserver)
			if err != nil {
				return err
			}
			return pickRenderer(asJSON).RenderDNSSEC(cmd.OutOrStdout(), result)
		},
	}

	c.Flags().StringVar(&nameserver, "nameserver", "", "nameserver IP to query (default: system resolver)")
	c.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return c
}

func newTLSCommand() *cobra.Command {
	var (
		port   uint16
		asJSON bool
	)

	c := &cobra.Command{
		Use:   "tls <domain>",
		Args:  cobra.ExactArgs(1),
		Short: "Inspect the TLS certificate served by a domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			result, err := newCLIScanner(cfg).InspectSSL(cmd.Context(), args[0], port)
			if err != nil {
				return err
			}
			return pickRenderer(asJSON).RenderSSL(cmd.OutOrStdout(), result)
		},
	}

	c.Flags().Uint16Var(&port, "port", scanner.DefaultTLSPort, "TCP port to connect to")
	c.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return c
}

func newCLIScanner(cfg *config.Config) scanner.Scanner {
	return scanner.NewScanner(scanner.Options{
		DNSTimeout:     cfg.Scanner.DNSTimeout,
		ConnectTimeout: cfg.Scanner.ConnectTimeout,
		ProbeTimeout:   cfg.Scanner.ProbeTimeout,
	})
}

func pickRenderer(asJSON bool) renderer.Renderer {
	if asJSON {
		return renderer.NewJSONRenderer()
	}
	return renderer.NewANSIRenderer()
}
