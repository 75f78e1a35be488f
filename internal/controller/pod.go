package controller

import (
	"time"

	"go.uber.org/zap"

	"github.com/klubi/kubesim/internal/cluster"
	v1 "github.com/klubi/kubesim/pkg/apis/v1"
)

// PodSimulator models a pod that starts successfully: container statuses
// are synthesized for every declared container, then the pod transitions
// straight to Running with all containers ready. No failure injection.
type PodSimulator struct {
	logger *zap.Logger
}

// NewPodSimulator creates a new PodSimulator.
func NewPodSimulator(logger *zap.Logger) *PodSimulator {
	return &PodSimulator{logger: logger}
}

func (s *PodSimulator) Simulate(_ *cluster.Cluster, obj v1.Object) error {
	pod, ok := obj.(*v1.Pod)
	if !ok {
		return nil
	}

	if len(pod.Status.ContainerStatuses) == 0 {
		for _, container := range pod.Spec.Containers {
			pod.Status.ContainerStatuses = append(pod.Status.ContainerStatuses, v1.ContainerStatus{
				Name:    container.Name,
				Ready:   false,
				Image:   container.Image,
				ImageID: "docker-pullable://" + container.Image + "@sha256:simulated",
				State: v1.ContainerState{
					Waiting: &v1.ContainerStateWaiting{Reason: v1.ReasonContainerCreating},
				},
			})
		}
	}

	// Simulated startup: straight to Running, everything ready.
	now := time.Now().UTC()
	pod.Status.Phase = v1.PodRunning
	for i := range pod.Status.ContainerStatuses {
		pod.Status.ContainerStatuses[i].Ready = true
		pod.Status.ContainerStatuses[i].State = v1.ContainerState{
			Running: &v1.ContainerStateRunning{StartedAt: now},
		}
	}

	s.logger.Debug("pod started",
		zap.String("namespace", pod.Metadata.Namespace),
		zap.String("pod", pod.Metadata.Name),
		zap.Int("containers", len(pod.Status.ContainerStatuses)),
	)
	return nil
}
