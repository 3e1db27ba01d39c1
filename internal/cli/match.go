package cli

import (
	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Matchmaking commands",
	}

	cmd.AddCommand(newMatchStartCmd())
	cmd.AddCommand(newMatchStopCmd())

	return cmd
}

func newMatchStartCmd() *cobra.Command {
	var deckID, password string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Enter matchmaking",
		Long: `Enter the matchmaking queue with a deck.

With no password, you are paired against the next open opponent.
A shared private password pairs you with whoever else used it.
The passwords "ai" and "ai1" request a game against the built-in
opponents; append "#f" to skip waiting for humans.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"deck_id":  deckID,
				"password": password,
			}
			var result OkResult

			if err := client.Post("/api/v1/match", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&deckID, "deck", "", "Deck id to play with (required)")
	cmd.Flags().StringVar(&password, "password", "", "Match password (optional)")
	_ = cmd.MarkFlagRequired("deck")

	return cmd
}

func newMatchStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Leave the matchmaking queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result OkResult

			if err := client.Delete("/api/v1/match", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
