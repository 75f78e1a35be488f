package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	v1 "github.com/klubi/kubesim/pkg/apis/v1"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List lifecycle events",
		Long:  "Display the retained resource lifecycle events, oldest first.",
		Example: `  kubesim events
  kubesim events -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := apiClient.Events()
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Println("No events recorded.")
				return nil
			}

			items := make([]interface{}, len(events))
			for i := range events {
				items[i] = &events[i]
			}
			printOutput(items, eventHeaders(), eventRow)
			return nil
		},
	}

	return cmd
}

func eventHeaders() []string {
	return []string{"TIME", "NAMESPACE", "KIND", "NAME", "ACTION"}
}

func eventRow(v interface{}) []string {
	event, ok := v.(*v1.Event)
	if !ok {
		return []string{"?", "?", "?", "?", "?"}
	}
	namespace := event.Namespace
	if namespace == "" {
		namespace = "<cluster>"
	}
	return []string{
		formatAge(event.Timestamp),
		namespace,
		event.Kind,
		event.Name,
		string(event.Action),
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard all cluster state",
		Long:  "Delete every resource and event, leaving only the default namespace.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Reset(); err != nil {
				return err
			}
			fmt.Println("cluster state reset")
			return nil
		},
	}
}
