package controller

import (
	"go.uber.org/zap"

	"github.com/klubi/kubesim/internal/cluster"
	v1 "github.com/klubi/kubesim/pkg/apis/v1"
)

// ClaimSimulator models a persistent volume claim that binds immediately.
// No capacity or storage-class matching is performed.
type ClaimSimulator struct {
	logger *zap.Logger
}

// NewClaimSimulator creates a new ClaimSimulator.
func NewClaimSimulator(logger *zap.Logger) *ClaimSimulator {
	return &ClaimSimulator{logger: logger}
}

func (s *ClaimSimulator) Simulate(_ *cluster.Cluster, obj v1.Object) error {
	claim, ok := obj.(*v1.PersistentVolumeClaim)
	if !ok {
		return nil
	}

	if claim.Status.Phase == "" {
		claim.Status.Phase = v1.ClaimPending
	}
	// Simulated binding always succeeds.
	claim.Status.Phase = v1.ClaimBound

	s.logger.Debug("claim bound",
		zap.String("namespace", claim.Metadata.Namespace),
		zap.String("claim", claim.Metadata.Name),
	)
	return nil
}
