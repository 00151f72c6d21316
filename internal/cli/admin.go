package cli

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	var adminToken string

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Operator commands",
	}

	cmd.PersistentFlags().StringVar(&adminToken, "admin-token", "", "Admin token (env: TRAILHUNT_ADMIN_TOKEN)")

	cmd.AddCommand(newAdminListCmd(&adminToken))
	cmd.AddCommand(newAdminResetCmd(&adminToken))

	return cmd
}

// useAdminToken swaps the client over to the admin token for this request
func useAdminToken(token string) {
	if token == "" {
		token = os.Getenv("TRAILHUNT_ADMIN_TOKEN")
	}
	if token != "" {
		client.SetToken(token)
	}
}

func newAdminListCmd(adminToken *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every participant's progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			useAdminToken(*adminToken)

			var result ProgressList

			if err := client.Get("/api/v1/admin/progress", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminResetCmd(adminToken *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <participant-id>",
		Short: "Wipe a participant's progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			useAdminToken(*adminToken)

			id := args[0]

			if err := client.Delete(fmt.Sprintf("/api/v1/admin/progress/%s", url.PathEscape(id))); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Progress reset for %s", id))
			return nil
		},
	}
}
