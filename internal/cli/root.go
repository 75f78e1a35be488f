package cli

import (
	"github.com/spf13/cobra"

	"github.com/klubi/kubesim/pkg/client"
)

var (
	serverAddr string
	apiClient  *client.Client
)

// NewRootCmd creates the top-level kubesim CLI command with all subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kubesim",
		Short: "A simulated Kubernetes-style control plane",
		Long: `Kubesim runs a declarative resource store with simulated controllers.
Create pods, deployments, services and custom resources without a real cluster.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Skip client init for commands that don't need the API server.
			if cmd.Name() == "serve" {
				return
			}
			apiClient = client.New(serverAddr)
		},
	}

	cmd.PersistentFlags().StringVar(&serverAddr, "server", "http://127.0.0.1:7117", "kubesim server address")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table|json|yaml")

	cmd.AddCommand(
		newServeCmd(),
		newApplyCmd(),
		newGetCmd(),
		newDeleteCmd(),
		newEventsCmd(),
		newResetCmd(),
		newDashCmd(),
	)

	return cmd
}
