package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "cardduel",
		Short: "CLI tool for the card duel server API",
		Long: `cardduel is a CLI tool for interacting with the card duel JSON API.

It supports all API operations including account management, deck
management, matchmaking, and real-time SSE event streaming.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load connection id from file if not provided via flag/env
			if err := cfg.LoadConnectionID(); err != nil {
				return err
			}

			// Create HTTP client
			client = NewClient(cfg.ServerURL, cfg.ConnectionID)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: CARDDUEL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.ConnectionID, "connection", cfg.ConnectionID, "Connection id (env: CARDDUEL_CONNECTION)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Connection id file path (env: CARDDUEL_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newDeckCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newResultsCmd())
	rootCmd.AddCommand(newMetaCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
