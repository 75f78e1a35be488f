package controller

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/klubi/kubesim/internal/cluster"
	"github.com/klubi/kubesim/pkg/apierrors"
	v1 "github.com/klubi/kubesim/pkg/apis/v1"
)

// runtimeIDLabel is propagated from a deployment onto its replica pods
// when present, so callers can correlate pods back to the workload run
// that created the deployment.
const runtimeIDLabel = "runtime_id"

// DeploymentSimulator materialises a deployment's replica pods through the
// standard create path and reports full readiness immediately. There is no
// partial-rollout or failure state.
type DeploymentSimulator struct {
	logger *zap.Logger
}

// NewDeploymentSimulator creates a new DeploymentSimulator.
func NewDeploymentSimulator(logger *zap.Logger) *DeploymentSimulator {
	return &DeploymentSimulator{logger: logger}
}

func (s *DeploymentSimulator) Simulate(c *cluster.Cluster, obj v1.Object) error {
	deployment, ok := obj.(*v1.Deployment)
	if !ok {
		return nil
	}

	replicas := deployment.Spec.Replicas
	if replicas <= 0 {
		replicas = 1
	}

	namespace := deployment.Metadata.Namespace
	uidPrefix := deployment.Metadata.UID
	if len(uidPrefix) > 8 {
		uidPrefix = uidPrefix[:8]
	}

	for i := 0; i < replicas; i++ {
		pod := s.replicaPod(deployment, uidPrefix, i)
		if _, err := c.Create(namespace, v1.KindPod, pod); err != nil {
			// A pod left over from an earlier partial run is kept as-is.
			if apierrors.IsConflict(err) {
				continue
			}
			return fmt.Errorf("creating replica pod %q: %w", pod.Metadata.Name, err)
		}
	}

	deployment.Status.Replicas = replicas
	deployment.Status.ReadyReplicas = replicas
	deployment.Status.AvailableReplicas = replicas

	s.logger.Debug("deployment materialised",
		zap.String("namespace", namespace),
		zap.String("deployment", deployment.Metadata.Name),
		zap.Int("replicas", replicas),
	)
	return nil
}

// replicaPod builds the i-th replica pod from the deployment's template,
// carrying the template labels, the deployment's runtime_id label when
// present, and an owner reference back to the deployment.
func (s *DeploymentSimulator) replicaPod(deployment *v1.Deployment, uidPrefix string, index int) *v1.Pod {
	labels := make(map[string]string, len(deployment.Spec.Template.Metadata.Labels)+1)
	for k, v := range deployment.Spec.Template.Metadata.Labels {
		labels[k] = v
	}
	if runtimeID, ok := deployment.Metadata.Labels[runtimeIDLabel]; ok {
		labels[runtimeIDLabel] = runtimeID
	}

	return &v1.Pod{
		TypeMeta: v1.TypeMeta{
			APIVersion: v1.APIVersionCore,
			Kind:       v1.KindPod,
		},
		Metadata: v1.ObjectMeta{
			Name:      fmt.Sprintf("%s-%s-%d", deployment.Metadata.Name, uidPrefix, index),
			Namespace: deployment.Metadata.Namespace,
			Labels:    labels,
			OwnerReferences: []v1.OwnerReference{{
				APIVersion: v1.APIVersionApps,
				Kind:       v1.KindDeployment,
				Name:       deployment.Metadata.Name,
				UID:        deployment.Metadata.UID,
			}},
		},
		Spec: deployment.Spec.Template.Spec,
		Status: v1.PodStatus{
			Phase: v1.PodPending,
		},
	}
}
