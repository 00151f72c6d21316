package cli

import (
	"github.com/spf13/cobra"
)

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show your hunt progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ProgressReport

			if err := client.Get("/api/v1/progress/me", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
