package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/chessgame-go/internal/api/response"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server and its storage are up",
		RunE: func(cmd *cobra.Command, args []string) error {
			var health response.Health
			if err := client.Get(cmd.Context(), "/api/v1/health", &health); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(health)
			if health.Status != "ok" {
				return fmt.Errorf("server unhealthy: %s", health.Status)
			}
			return nil
		},
	}
}
