package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klubi/kubesim/pkg/manifest"
)

func newApplyCmd() *cobra.Command {
	var (
		filename  string
		namespace string
	)

	cmd := &cobra.Command{
		Use:   "apply -f <file>",
		Short: "Apply a manifest file",
		Long:  "Create or update resources from a YAML manifest file.",
		Example: `  kubesim apply -f app.yaml
  kubesim apply -f app.yaml -n staging`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := manifest.ParseFile(filename)
			if err != nil {
				return fmt.Errorf("parsing manifest %s: %w", filename, err)
			}

			if len(resources) == 0 {
				fmt.Println("No resources found in manifest.")
				return nil
			}

			for _, resource := range resources {
				kind := manifest.StoreKind(resource)
				name := resource.GetObjectMeta().Name

				ns := resource.GetObjectMeta().Namespace
				if ns == "" {
					ns = namespace
				}
				if clusterScoped(kind) {
					ns = ""
				}

				if _, err := apiClient.Apply(ns, kind, resource); err != nil {
					return fmt.Errorf("applying %s/%s: %w", kind, name, err)
				}
				fmt.Printf("%s/%s configured\n", resource.GetTypeMeta().Kind, name)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&filename, "filename", "f", "", "Path to manifest file (required)")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "default", "Namespace for resources without one")
	cmd.MarkFlagRequired("filename")

	return cmd
}
