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
		Use:   "emberfell",
		Short: "CLI tool for the Emberfell presence server",
		Long: `emberfell is a CLI tool for the Emberfell game server.

It manages characters over the JSON API and can bring a character
online in the shared space, streaming presence events over the
sync websocket. Player identity comes from the host platform; for
local testing set it with --player-id or EMBERFELL_PLAYER_ID.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL, cfg.PlayerID, cfg.PlayerName)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: EMBERFELL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.PlayerID, "player-id", cfg.PlayerID, "Player id (env: EMBERFELL_PLAYER_ID)")
	rootCmd.PersistentFlags().StringVar(&cfg.PlayerName, "player-name", cfg.PlayerName, "Player display name (env: EMBERFELL_PLAYER_NAME)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newCharacterCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
