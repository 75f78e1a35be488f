package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "delete <kind> <name>",
		Short: "Delete a resource",
		Long:  "Delete a resource by kind and name. Owned dependents are deleted with it.",
		Example: `  kubesim delete pod web -n staging
  kubesim delete deployment api
  kubesim delete namespace staging`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := resolveKind(args[0])
			if !ok {
				return fmt.Errorf("unknown resource kind %q", args[0])
			}
			if clusterScoped(kind) {
				namespace = ""
			}
			name := args[1]

			if err := apiClient.Delete(namespace, kind, name); err != nil {
				return err
			}
			fmt.Printf("%s/%s deleted\n", strings.ToLower(kind), name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "default", "Namespace")

	return cmd
}
