package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newDeckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Deck management commands",
	}

	cmd.AddCommand(newDeckAddCmd())
	cmd.AddCommand(newDeckModifyCmd())
	cmd.AddCommand(newDeckRemoveCmd())

	return cmd
}

func loadDeckFile(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck file: %w", err)
	}

	var deck Deck
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("failed to parse deck file: %w", err)
	}

	return &deck, nil
}

func newDeckAddCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a deck from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := loadDeckFile(file)
			if err != nil {
				return err
			}

			req := map[string]any{"deck": deck}
			var result OkResult

			if err := client.Post("/api/v1/decks", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Deck JSON file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newDeckModifyCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "modify <deck-id>",
		Short: "Replace a deck with the contents of a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := loadDeckFile(file)
			if err != nil {
				return err
			}

			req := map[string]any{"deck": deck}
			var result OkResult

			if err := client.Put("/api/v1/decks/"+args[0], req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Deck JSON file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newDeckRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <deck-id>",
		Short: "Remove a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result OkResult

			if err := client.Delete("/api/v1/decks/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
