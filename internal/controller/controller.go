// Package controller implements the kind-specific simulators that run
// synchronously after a resource is created, mimicking the eventual effect
// of the corresponding Kubernetes controller without a reconcile loop.
package controller

import (
	"go.uber.org/zap"

	"github.com/klubi/kubesim/internal/cluster"
	v1 "github.com/klubi/kubesim/pkg/apis/v1"
)

// Simulators returns the default simulator table, keyed by kind. Kinds
// without an entry (Ingress, PodDisruptionBudget, ServiceAccount,
// Namespace, custom objects) are stored as-is.
func Simulators(logger *zap.Logger) map[string]cluster.Simulator {
	return map[string]cluster.Simulator{
		v1.KindPod:                   NewPodSimulator(logger),
		v1.KindDeployment:            NewDeploymentSimulator(logger),
		v1.KindService:               NewServiceSimulator(logger),
		v1.KindPersistentVolumeClaim: NewClaimSimulator(logger),
	}
}
