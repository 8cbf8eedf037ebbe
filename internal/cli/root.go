// Package cli is the scorekeeper command line client. It talks to the
// scoring backend through the same gateway as the web console and keeps
// the backend credential in a local file between runs.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/scorekeeper/internal/backend"
)

var (
	cfg    *Config
	client *backend.Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "scorekeeper",
		Short: "CLI tool for the scorekeeper backend",
		Long: `scorekeeper is a CLI tool for managing players, matches and rounds
on the scoring backend.

Sign in with "scorekeeper login"; the credential is kept in a local file
until you log out or the backend rejects it.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = newClient(cfg, cmd.ErrOrStderr())
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.BackendURL, "backend", cfg.BackendURL, "Backend URL (env: SCOREKEEPER_BACKEND_URL)")
	rootCmd.PersistentFlags().StringVar(&cfg.CredentialFile, "credential-file", cfg.CredentialFile, "Credential file path (env: SCOREKEEPER_CREDENTIAL_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Backend request timeout")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newRoundCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}
