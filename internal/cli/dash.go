package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klubi/kubesim/internal/tui"
)

func newDashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dash",
		Aliases: []string{"ui", "dashboard"},
		Short:   "Launch the interactive terminal dashboard",
		Long:    "Launch a k9s-style terminal UI for watching and managing simulated cluster resources.",
		Example: `  kubesim dash
  kubesim dash --server http://127.0.0.1:7117`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := tui.NewApp(serverAddr)
			if err := app.Run(); err != nil {
				return fmt.Errorf("dashboard error: %w", err)
			}
			return nil
		},
	}

	return cmd
}
