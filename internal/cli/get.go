package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	v1 "github.com/klubi/kubesim/pkg/apis/v1"
)

func newGetCmd() *cobra.Command {
	var (
		namespace string
		selector  string
	)

	cmd := &cobra.Command{
		Use:   "get <kind> [name]",
		Short: "List or get resources",
		Long: `Display one or many resources.

Kinds: pods (po), deployments (deploy), services (svc), namespaces (ns),
pvc, serviceaccounts (sa), ingresses (ing), pdb, or a qualified
group/version/Kind for custom resources.`,
		Example: `  kubesim get pods
  kubesim get pods web -n staging
  kubesim get deployments -l app=web
  kubesim get namespaces
  kubesim get example.com/v1/Widget`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := resolveKind(args[0])
			if !ok {
				return fmt.Errorf("unknown resource kind %q", args[0])
			}
			if clusterScoped(kind) {
				namespace = ""
			}

			if len(args) > 1 {
				obj, err := apiClient.Get(namespace, kind, args[1])
				if err != nil {
					return err
				}
				printOutput(obj, kindHeaders(kind), kindRow(kind))
				return nil
			}

			objects, err := apiClient.List(namespace, kind, selector)
			if err != nil {
				return err
			}
			if len(objects) == 0 {
				fmt.Println("No resources found.")
				return nil
			}

			items := make([]interface{}, len(objects))
			for i := range objects {
				items[i] = objects[i]
			}
			printOutput(items, kindHeaders(kind), kindRow(kind))
			return nil
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "default", "Namespace")
	cmd.Flags().StringVarP(&selector, "selector", "l", "", "Label selector, e.g. app=web,tier=frontend")

	return cmd
}

// resolveKind maps kubectl-style aliases onto kind strings. Qualified
// "group/version/Kind" inputs pass through as custom kinds.
func resolveKind(input string) (string, bool) {
	if strings.Count(input, "/") == 2 {
		return input, true
	}
	switch strings.ToLower(input) {
	case "pod", "pods", "po":
		return v1.KindPod, true
	case "deployment", "deployments", "deploy":
		return v1.KindDeployment, true
	case "service", "services", "svc":
		return v1.KindService, true
	case "namespace", "namespaces", "ns":
		return v1.KindNamespace, true
	case "persistentvolumeclaim", "persistentvolumeclaims", "pvc":
		return v1.KindPersistentVolumeClaim, true
	case "serviceaccount", "serviceaccounts", "sa":
		return v1.KindServiceAccount, true
	case "ingress", "ingresses", "ing":
		return v1.KindIngress, true
	case "poddisruptionbudget", "poddisruptionbudgets", "pdb":
		return v1.KindPodDisruptionBudget, true
	default:
		return "", false
	}
}

// clusterScoped reports whether a kind is never addressed by namespace.
func clusterScoped(kind string) bool {
	return kind == v1.KindNamespace
}

// --- Table headers and row converters ---

func kindHeaders(kind string) []string {
	switch kind {
	case v1.KindPod:
		return []string{"NAME", "NAMESPACE", "PHASE", "READY", "AGE"}
	case v1.KindDeployment:
		return []string{"NAME", "NAMESPACE", "READY", "AGE"}
	case v1.KindService:
		return []string{"NAME", "NAMESPACE", "TYPE", "CLUSTER-IP", "AGE"}
	case v1.KindPersistentVolumeClaim:
		return []string{"NAME", "NAMESPACE", "PHASE", "STORAGE", "AGE"}
	case v1.KindNamespace:
		return []string{"NAME", "AGE"}
	default:
		return []string{"NAME", "NAMESPACE", "KIND", "AGE"}
	}
}

func kindRow(kind string) func(interface{}) []string {
	switch kind {
	case v1.KindPod:
		return podRow
	case v1.KindDeployment:
		return deploymentRow
	case v1.KindService:
		return serviceRow
	case v1.KindPersistentVolumeClaim:
		return claimRow
	case v1.KindNamespace:
		return namespaceRow
	default:
		return genericRow
	}
}

func podRow(v interface{}) []string {
	pod, ok := v.(*v1.Pod)
	if !ok {
		return genericRow(v)
	}
	ready := 0
	for _, status := range pod.Status.ContainerStatuses {
		if status.Ready {
			ready++
		}
	}
	return []string{
		pod.Metadata.Name,
		pod.Metadata.Namespace,
		colorPhase(string(pod.Status.Phase)),
		fmt.Sprintf("%d/%d", ready, len(pod.Status.ContainerStatuses)),
		formatAge(pod.Metadata.CreationTimestamp),
	}
}

func deploymentRow(v interface{}) []string {
	deployment, ok := v.(*v1.Deployment)
	if !ok {
		return genericRow(v)
	}
	return []string{
		deployment.Metadata.Name,
		deployment.Metadata.Namespace,
		fmt.Sprintf("%d/%d", deployment.Status.ReadyReplicas, deployment.Status.Replicas),
		formatAge(deployment.Metadata.CreationTimestamp),
	}
}

func serviceRow(v interface{}) []string {
	service, ok := v.(*v1.Service)
	if !ok {
		return genericRow(v)
	}
	clusterIP := service.Spec.ClusterIP
	if clusterIP == "" {
		clusterIP = "<none>"
	}
	return []string{
		service.Metadata.Name,
		service.Metadata.Namespace,
		service.Spec.Type,
		clusterIP,
		formatAge(service.Metadata.CreationTimestamp),
	}
}

func claimRow(v interface{}) []string {
	claim, ok := v.(*v1.PersistentVolumeClaim)
	if !ok {
		return genericRow(v)
	}
	storage := claim.Spec.Storage
	if storage == "" {
		storage = "<none>"
	}
	return []string{
		claim.Metadata.Name,
		claim.Metadata.Namespace,
		colorPhase(string(claim.Status.Phase)),
		storage,
		formatAge(claim.Metadata.CreationTimestamp),
	}
}

func namespaceRow(v interface{}) []string {
	namespace, ok := v.(*v1.Namespace)
	if !ok {
		return genericRow(v)
	}
	return []string{
		namespace.Metadata.Name,
		formatAge(namespace.Metadata.CreationTimestamp),
	}
}

func genericRow(v interface{}) []string {
	obj, ok := v.(v1.Object)
	if !ok {
		return []string{"?", "?", "?", "?"}
	}
	meta := obj.GetObjectMeta()
	return []string{
		meta.Name,
		meta.Namespace,
		obj.GetTypeMeta().Kind,
		formatAge(meta.CreationTimestamp),
	}
}

// colorPhase returns a colored string for known phases.
func colorPhase(phase string) string {
	switch phase {
	case "Running", "Bound", "Succeeded":
		return color.GreenString(phase)
	case "Failed":
		return color.RedString(phase)
	case "Pending":
		return color.YellowString(phase)
	default:
		return phase
	}
}
