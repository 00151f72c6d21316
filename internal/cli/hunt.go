package cli

import (
	"github.com/spf13/cobra"
)

func newHuntCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hunt",
		Short: "Show the hunt overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Overview

			if err := client.Get("/api/v1/hunt", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
