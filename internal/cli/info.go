package cli

import (
	"github.com/spf13/cobra"
)

func newUsersCmd() *cobra.Command {
	var countOnly bool

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Show online users and rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if countOnly {
				var result CountResult
				if err := client.Get("/api/v1/users/count", &result); err != nil {
					return err
				}
				out.Print(result)
				return nil
			}

			var result Snapshot
			if err := client.Get("/api/v1/users", &result); err != nil {
				return err
			}
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&countOnly, "count", false, "Show the online count only")

	return cmd
}

func newResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "Show recent game results",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ResultsResult

			if err := client.Get("/api/v1/results", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMetaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Server metadata commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the latest client version",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result VersionResult
			if err := client.Get("/api/v1/meta/version", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "notes",
		Short: "Show the operator bulletin",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result NotesResult
			if err := client.Get("/api/v1/meta/notes", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cards",
		Short: "Dump the card catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result any
			if err := client.Get("/api/v1/meta/cards", &result); err != nil {
				return err
			}
			NewOutput("json").Print(result)
			return nil
		},
	})

	return cmd
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			if err := client.Get("/api/v1/health", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "In-game commands",
	}

	cmd.AddCommand(newGameOpCmd())

	return cmd
}

func newGameOpCmd() *cobra.Command {
	var opType, data string

	cmd := &cobra.Command{
		Use:   "op",
		Short: "Send a game operation to your current room",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"type": opType}
			if data != "" {
				req["data"] = jsonRaw(data)
			}

			if err := client.Post("/api/v1/game/operation", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Operation sent")
			return nil
		},
	}

	cmd.Flags().StringVar(&opType, "type", "", "Operation type (required)")
	cmd.Flags().StringVar(&data, "data", "", "Operation payload as JSON")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// jsonRaw passes a string through as raw JSON
type jsonRaw string

func (r jsonRaw) MarshalJSON() ([]byte, error) {
	return []byte(r), nil
}
