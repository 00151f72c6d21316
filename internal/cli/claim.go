package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim <checkpoint-id> <passphrase>",
		Short: "Claim a checkpoint with its passphrase",
		Long: `Submit a claim for a checkpoint. The passphrase comparison ignores
leading and trailing whitespace and letter case, so quote passphrases
containing spaces.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			checkpointID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid checkpoint id: %w", err)
			}

			req := map[string]any{
				"checkpoint_id": checkpointID,
				"passphrase":    args[1],
			}
			var result ClaimResult

			if err := client.Post("/api/v1/claims", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
