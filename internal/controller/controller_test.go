package controller

import (
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/klubi/kubesim/internal/cluster"
	"github.com/klubi/kubesim/internal/store"
	"github.com/klubi/kubesim/pkg/apierrors"
	v1 "github.com/klubi/kubesim/pkg/apis/v1"
)

// newSimCluster creates a memory-backed cluster with the full simulator
// table installed.
func newSimCluster() *cluster.Cluster {
	return cluster.New(
		store.NewMemoryBackend(),
		cluster.WithSimulators(Simulators(zap.NewNop())),
	)
}

func TestPodSimulatorStartsPod(t *testing.T) {
	c := newSimCluster()

	created, err := c.Create("default", v1.KindPod, &v1.Pod{
		Metadata: v1.ObjectMeta{Name: "web"},
		Spec: v1.PodSpec{
			Containers: []v1.Container{
				{Name: "app", Image: "nginx:1.25"},
				{Name: "sidecar", Image: "envoy:1.30"},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error creating pod: %v", err)
	}

	pod := created.(*v1.Pod)
	if pod.Status.Phase != v1.PodRunning {
		t.Errorf("expected phase Running, got %s", pod.Status.Phase)
	}
	if len(pod.Status.ContainerStatuses) != 2 {
		t.Fatalf("expected 2 container statuses, got %d", len(pod.Status.ContainerStatuses))
	}
	for _, status := range pod.Status.ContainerStatuses {
		if !status.Ready {
			t.Errorf("expected container %s ready", status.Name)
		}
		if status.State.Running == nil || status.State.Running.StartedAt.IsZero() {
			t.Errorf("expected container %s to carry a running state", status.Name)
		}
		if !strings.HasPrefix(status.ImageID, "docker-pullable://") {
			t.Errorf("expected synthesized image ID, got %q", status.ImageID)
		}
	}

	// The simulated status must also be visible on a fresh read.
	got, err := c.Get("default", v1.KindPod, "web")
	if err != nil {
		t.Fatalf("unexpected error re-reading pod: %v", err)
	}
	if got.(*v1.Pod).Status.Phase != v1.PodRunning {
		t.Error("expected simulated status persisted in the store")
	}
}

func TestDeploymentSimulatorCreatesReplicas(t *testing.T) {
	c := newSimCluster()

	created, err := c.Create("default", v1.KindDeployment, &v1.Deployment{
		Metadata: v1.ObjectMeta{Name: "web"},
		Spec: v1.DeploymentSpec{
			Replicas: 3,
			Template: v1.PodTemplateSpec{
				Metadata: v1.ObjectMeta{Labels: map[string]string{"app": "web"}},
				Spec: v1.PodSpec{
					Containers: []v1.Container{{Name: "app", Image: "nginx:1.25"}},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error creating deployment: %v", err)
	}

	deployment := created.(*v1.Deployment)
	if deployment.Status.ReadyReplicas != 3 || deployment.Status.AvailableReplicas != 3 {
		t.Errorf("expected 3 ready/available replicas, got %+v", deployment.Status)
	}

	pods, err := c.List("default", v1.KindPod, "")
	if err != nil {
		t.Fatalf("unexpected error listing pods: %v", err)
	}
	if len(pods) != 3 {
		t.Fatalf("expected 3 replica pods, got %d", len(pods))
	}

	uidPrefix := deployment.Metadata.UID[:8]
	for i, item := range pods {
		pod := item.(*v1.Pod)

		wantName := fmt.Sprintf("web-%s-%d", uidPrefix, i)
		if pod.Metadata.Name != wantName {
			t.Errorf("pod %d: expected name %s, got %s", i, wantName, pod.Metadata.Name)
		}
		if len(pod.Metadata.OwnerReferences) != 1 {
			t.Fatalf("pod %d: expected 1 owner reference, got %d", i, len(pod.Metadata.OwnerReferences))
		}
		ref := pod.Metadata.OwnerReferences[0]
		if ref.Kind != v1.KindDeployment || ref.Name != "web" || ref.UID != deployment.Metadata.UID {
			t.Errorf("pod %d: unexpected owner reference %+v", i, ref)
		}
		if ref.APIVersion != v1.APIVersionApps {
			t.Errorf("pod %d: expected apps/v1 owner reference, got %s", i, ref.APIVersion)
		}
		// Replica pods go through the pod simulator too.
		if pod.Status.Phase != v1.PodRunning {
			t.Errorf("pod %d: expected phase Running, got %s", i, pod.Status.Phase)
		}
	}
}

func TestDeploymentSimulatorDefaultsReplicas(t *testing.T) {
	c := newSimCluster()

	created, err := c.Create("default", v1.KindDeployment, &v1.Deployment{
		Metadata: v1.ObjectMeta{Name: "single"},
	})
	if err != nil {
		t.Fatalf("unexpected error creating deployment: %v", err)
	}

	if got := created.(*v1.Deployment).Status.Replicas; got != 1 {
		t.Errorf("expected unset replicas to default to 1, got %d", got)
	}
	pods, err := c.List("default", v1.KindPod, "")
	if err != nil {
		t.Fatalf("unexpected error listing pods: %v", err)
	}
	if len(pods) != 1 {
		t.Errorf("expected 1 replica pod, got %d", len(pods))
	}
}

func TestDeploymentReplicaSelection(t *testing.T) {
	c := newSimCluster()

	_, err := c.Create("default", v1.KindDeployment, &v1.Deployment{
		Metadata: v1.ObjectMeta{Name: "api"},
		Spec: v1.DeploymentSpec{
			Replicas: 2,
			Template: v1.PodTemplateSpec{
				Metadata: v1.ObjectMeta{Labels: map[string]string{"app": "api"}},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error creating deployment: %v", err)
	}
	// An unrelated pod that must not match the selector.
	if _, err := c.Create("default", v1.KindPod, &v1.Pod{
		Metadata: v1.ObjectMeta{Name: "other", Labels: map[string]string{"app": "other"}},
	}); err != nil {
		t.Fatalf("unexpected error creating pod: %v", err)
	}

	pods, err := c.List("default", v1.KindPod, "app=api")
	if err != nil {
		t.Fatalf("unexpected error listing pods: %v", err)
	}
	if len(pods) != 2 {
		t.Errorf("expected selector to match exactly the 2 replicas, got %d", len(pods))
	}
}

func TestDeploymentRuntimeIDPropagation(t *testing.T) {
	c := newSimCluster()

	_, err := c.Create("default", v1.KindDeployment, &v1.Deployment{
		Metadata: v1.ObjectMeta{
			Name:   "job",
			Labels: map[string]string{runtimeIDLabel: "run-42"},
		},
		Spec: v1.DeploymentSpec{Replicas: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error creating deployment: %v", err)
	}

	pods, err := c.List("default", v1.KindPod, runtimeIDLabel+"=run-42")
	if err != nil {
		t.Fatalf("unexpected error listing pods: %v", err)
	}
	if len(pods) != 1 {
		t.Errorf("expected runtime_id label propagated to the replica pod, got %d matches", len(pods))
	}
}

func TestDeploymentCascadeDelete(t *testing.T) {
	c := newSimCluster()

	created, err := c.Create("default", v1.KindDeployment, &v1.Deployment{
		Metadata: v1.ObjectMeta{Name: "web"},
		Spec:     v1.DeploymentSpec{Replicas: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error creating deployment: %v", err)
	}

	// A service owned by the deployment goes down with it.
	deployment := created.(*v1.Deployment)
	if _, err := c.Create("default", v1.KindService, &v1.Service{
		Metadata: v1.ObjectMeta{
			Name: "web-svc",
			OwnerReferences: []v1.OwnerReference{{
				APIVersion: v1.APIVersionApps,
				Kind:       v1.KindDeployment,
				Name:       deployment.Metadata.Name,
				UID:        deployment.Metadata.UID,
			}},
		},
	}); err != nil {
		t.Fatalf("unexpected error creating service: %v", err)
	}

	if err := c.Delete("default", v1.KindDeployment, "web"); err != nil {
		t.Fatalf("unexpected error deleting deployment: %v", err)
	}

	pods, err := c.List("default", v1.KindPod, "")
	if err != nil {
		t.Fatalf("unexpected error listing pods: %v", err)
	}
	if len(pods) != 0 {
		t.Errorf("expected all replica pods cascade-deleted, got %d", len(pods))
	}
	if _, err := c.Get("default", v1.KindService, "web-svc"); !apierrors.IsNotFound(err) {
		t.Errorf("expected owned service cascade-deleted, got %v", err)
	}
}

func TestServiceSimulatorDefaults(t *testing.T) {
	c := newSimCluster()

	created, err := c.Create("default", v1.KindService, &v1.Service{
		Metadata: v1.ObjectMeta{Name: "first"},
	})
	if err != nil {
		t.Fatalf("unexpected error creating service: %v", err)
	}

	service := created.(*v1.Service)
	if service.Spec.Type != v1.ServiceTypeClusterIP {
		t.Errorf("expected type defaulted to ClusterIP, got %q", service.Spec.Type)
	}
	if service.Spec.ClusterIP != "10.96.0.0" {
		t.Errorf("expected first allocated address 10.96.0.0, got %q", service.Spec.ClusterIP)
	}

	second, err := c.Create("default", v1.KindService, &v1.Service{
		Metadata: v1.ObjectMeta{Name: "second"},
	})
	if err != nil {
		t.Fatalf("unexpected error creating second service: %v", err)
	}
	if got := second.(*v1.Service).Spec.ClusterIP; got != "10.96.1.0" {
		t.Errorf("expected second allocated address 10.96.1.0, got %q", got)
	}
}

func TestServiceSimulatorKeepsExplicitAddress(t *testing.T) {
	c := newSimCluster()

	created, err := c.Create("default", v1.KindService, &v1.Service{
		Metadata: v1.ObjectMeta{Name: "pinned"},
		Spec:     v1.ServiceSpec{ClusterIP: "10.96.7.7"},
	})
	if err != nil {
		t.Fatalf("unexpected error creating service: %v", err)
	}
	if got := created.(*v1.Service).Spec.ClusterIP; got != "10.96.7.7" {
		t.Errorf("expected explicit address kept, got %q", got)
	}
}

func TestClaimSimulatorBinds(t *testing.T) {
	c := newSimCluster()

	created, err := c.Create("default", v1.KindPersistentVolumeClaim, &v1.PersistentVolumeClaim{
		Metadata: v1.ObjectMeta{Name: "data"},
		Spec:     v1.PersistentVolumeClaimSpec{Storage: "10Gi"},
	})
	if err != nil {
		t.Fatalf("unexpected error creating claim: %v", err)
	}

	if got := created.(*v1.PersistentVolumeClaim).Status.Phase; got != v1.ClaimBound {
		t.Errorf("expected phase Bound, got %s", got)
	}
}

func TestSimulatorsTable(t *testing.T) {
	table := Simulators(zap.NewNop())

	for _, kind := range []string{
		v1.KindPod, v1.KindDeployment, v1.KindService, v1.KindPersistentVolumeClaim,
	} {
		if table[kind] == nil {
			t.Errorf("expected simulator registered for %s", kind)
		}
	}
	// Kinds without an entry are stored without simulation.
	if _, ok := table[v1.KindIngress]; ok {
		t.Error("expected no simulator for Ingress")
	}
}
