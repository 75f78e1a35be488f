package controller

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/klubi/kubesim/internal/cluster"
	v1 "github.com/klubi/kubesim/pkg/apis/v1"
)

// ServiceSimulator defaults the service type to ClusterIP and allocates a
// deterministic pseudo-address in 10.96.0.0/16 based on how many services
// the namespace already held. The address is purely illustrative: it is
// not collision-checked against deleted and re-created services.
type ServiceSimulator struct {
	logger *zap.Logger
}

// NewServiceSimulator creates a new ServiceSimulator.
func NewServiceSimulator(logger *zap.Logger) *ServiceSimulator {
	return &ServiceSimulator{logger: logger}
}

func (s *ServiceSimulator) Simulate(c *cluster.Cluster, obj v1.Object) error {
	service, ok := obj.(*v1.Service)
	if !ok {
		return nil
	}

	if service.Spec.Type == "" {
		service.Spec.Type = v1.ServiceTypeClusterIP
	}

	if service.Spec.Type == v1.ServiceTypeClusterIP && service.Spec.ClusterIP == "" {
		existing, err := c.List(service.Metadata.Namespace, v1.KindService, "")
		if err != nil {
			return fmt.Errorf("counting services in %q: %w", service.Metadata.Namespace, err)
		}
		// The service being created is already stored; exclude it.
		n := len(existing) - 1
		if n < 0 {
			n = 0
		}
		service.Spec.ClusterIP = fmt.Sprintf("10.96.%d.%d", n%255, (n/255)%255)

		s.logger.Debug("allocated cluster IP",
			zap.String("namespace", service.Metadata.Namespace),
			zap.String("service", service.Metadata.Name),
			zap.String("clusterIP", service.Spec.ClusterIP),
		)
	}
	return nil
}
