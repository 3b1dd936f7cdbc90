package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"trustcheck/internal/credential"
	jsonenc "trustcheck/internal/json"
)

const defaultPasswordEnv = "TRUSTCHECK_PASSWORD"

func newSealCommand() *cobra.Command {
	var passwordEnv string

	c := &cobra.Command{
		Use:   "seal",
		Args:  cobra.NoArgs,
		Short: "Encrypt stdin with a password and print the sealed payload as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := passwordFromEnv(passwordEnv)
			if err != nil {
				return err
			}

			plaintext, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("can't read input: %w", err)
			}

			payload, err := credential.Seal(plaintext, password)
			if err != nil {
				return err
			}
			return jsonenc.GetJsonEncoder(cmd.OutOrStdout()).Encode(payload)
		},
	}

	c.Flags().StringVar(&passwordEnv, "password-env", defaultPasswordEnv, "environment variable holding the password")

	return c
}

func newOpenCommand() *cobra.Command {
	var passwordEnv string

	c := &cobra.Command{
		Use:   "open",
		Args:  cobra.NoArgs,
		Short: "Decrypt a sealed JSON payload from stdin and print the plaintext",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := passwordFromEnv(passwordEnv)
			if err != nil {
				return err
			}

			var payload credential.Payload
			if err := json.NewDecoder(cmd.InOrStdin()).Decode(&payload); err != nil {
				return fmt.Errorf("can't decode sealed payload: %w", err)
			}

			plaintext, err := payload.Open(password)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(plaintext)
			return err
		},
	}

	c.Flags().StringVar(&passwordEnv, "password-env", defaultPasswordEnv, "environment variable holding the password")

	return c
}

func passwordFromEnv(name string) (string, error) {
	password, ok := os.LookupEnv(name)
	if !ok || password == "" {
		return "", fmt.Errorf("password environment variable %s is not set", name)
	}
	return password, nil
}
