package manifest

import (
	"os"
	"testing"

	v1 "github.com/klubi/kubesim/pkg/apis/v1"
)

func TestParsePod(t *testing.T) {
	yaml := []byte(`
apiVersion: v1
kind: Pod
metadata:
  name: web
  namespace: default
  labels:
    app: web
spec:
  containers:
    - name: app
      image: nginx:1.25
      ports:
        - containerPort: 80
    - name: sidecar
      image: envoy:1.30
`)
	resources, err := ParseBytes(yaml)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resources) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(resources))
	}
	pod, ok := resources[0].(*v1.Pod)
	if !ok {
		t.Fatalf("expected *v1.Pod, got %T", resources[0])
	}
	if pod.Metadata.Name != "web" {
		t.Errorf("expected name web, got %s", pod.Metadata.Name)
	}
	if pod.Metadata.Labels["app"] != "web" {
		t.Errorf("expected label app=web, got %s", pod.Metadata.Labels["app"])
	}
	if len(pod.Spec.Containers) != 2 {
		t.Fatalf("expected 2 containers, got %d", len(pod.Spec.Containers))
	}
	if pod.Spec.Containers[0].Image != "nginx:1.25" {
		t.Errorf("expected image nginx:1.25, got %s", pod.Spec.Containers[0].Image)
	}
	if pod.Spec.Containers[0].Ports[0].ContainerPort != 80 {
		t.Errorf("expected containerPort 80, got %d", pod.Spec.Containers[0].Ports[0].ContainerPort)
	}
}

func TestParseDeployment(t *testing.T) {
	yaml := []byte(`
apiVersion: apps/v1
kind: Deployment
metadata:
  name: api
spec:
  replicas: 3
  selector:
    app: api
  template:
    metadata:
      labels:
        app: api
    spec:
      containers:
        - name: api
          image: api:2.1
`)
	resources, err := ParseBytes(yaml)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	deployment, ok := resources[0].(*v1.Deployment)
	if !ok {
		t.Fatalf("expected *v1.Deployment, got %T", resources[0])
	}
	if deployment.Spec.Replicas != 3 {
		t.Errorf("expected replicas 3, got %d", deployment.Spec.Replicas)
	}
	if deployment.Spec.Selector["app"] != "api" {
		t.Errorf("expected selector app=api, got %s", deployment.Spec.Selector["app"])
	}
	if deployment.Spec.Template.Metadata.Labels["app"] != "api" {
		t.Errorf("expected template label app=api, got %v", deployment.Spec.Template.Metadata.Labels)
	}
	if deployment.Spec.Template.Spec.Containers[0].Image != "api:2.1" {
		t.Errorf("expected template image api:2.1, got %s", deployment.Spec.Template.Spec.Containers[0].Image)
	}
}

func TestParseMultiDocument(t *testing.T) {
	yaml := []byte(`
apiVersion: v1
kind: Namespace
metadata:
  name: staging
---
apiVersion: v1
kind: Service
metadata:
  name: web
  namespace: staging
spec:
  selector:
    app: web
  ports:
    - port: 80
      targetPort: 8080
---
apiVersion: v1
kind: PersistentVolumeClaim
metadata:
  name: data
  namespace: staging
spec:
  storage: 10Gi
`)
	resources, err := ParseBytes(yaml)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resources) != 3 {
		t.Fatalf("expected 3 resources, got %d", len(resources))
	}

	if _, ok := resources[0].(*v1.Namespace); !ok {
		t.Fatalf("expected resource[0] to be *v1.Namespace, got %T", resources[0])
	}
	service, ok := resources[1].(*v1.Service)
	if !ok {
		t.Fatalf("expected resource[1] to be *v1.Service, got %T", resources[1])
	}
	if service.Spec.Ports[0].TargetPort != 8080 {
		t.Errorf("expected targetPort 8080, got %d", service.Spec.Ports[0].TargetPort)
	}
	claim, ok := resources[2].(*v1.PersistentVolumeClaim)
	if !ok {
		t.Fatalf("expected resource[2] to be *v1.PersistentVolumeClaim, got %T", resources[2])
	}
	if claim.Spec.Storage != "10Gi" {
		t.Errorf("expected storage 10Gi, got %s", claim.Spec.Storage)
	}
}

func TestParseCustomKind(t *testing.T) {
	yaml := []byte(`
apiVersion: example.com/v1
kind: Widget
metadata:
  name: w-1
  labels:
    team: core
spec:
  size: large
  count: 3
`)
	resources, err := ParseBytes(yaml)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	custom, ok := resources[0].(*v1.CustomObject)
	if !ok {
		t.Fatalf("expected *v1.CustomObject, got %T", resources[0])
	}
	if custom.Kind != "Widget" || custom.APIVersion != "example.com/v1" {
		t.Errorf("unexpected type meta %+v", custom.TypeMeta)
	}
	if custom.Metadata.Labels["team"] != "core" {
		t.Errorf("expected label team=core, got %v", custom.Metadata.Labels)
	}
	spec, ok := custom.Data["spec"].(map[string]any)
	if !ok {
		t.Fatalf("expected opaque spec payload, got %v", custom.Data)
	}
	if spec["size"] != "large" {
		t.Errorf("expected size large, got %v", spec["size"])
	}
	if _, ok := custom.Data["metadata"]; ok {
		t.Error("expected metadata stripped from the opaque payload")
	}

	if got := StoreKind(custom); got != "example.com/v1/Widget" {
		t.Errorf("expected store kind example.com/v1/Widget, got %s", got)
	}
}

func TestParseDefaultAPIVersion(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"Pod", v1.APIVersionCore},
		{"Deployment", v1.APIVersionApps},
		{"Ingress", v1.APIVersionNetworking},
		{"PodDisruptionBudget", v1.APIVersionPolicy},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			resources, err := ParseBytes([]byte("kind: " + tt.kind + "\nmetadata:\n  name: x\n"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := resources[0].GetTypeMeta().APIVersion; got != tt.want {
				t.Errorf("expected default apiVersion %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseEmptyName(t *testing.T) {
	yaml := []byte(`
apiVersion: v1
kind: Pod
metadata:
  name: ""
`)
	if _, err := ParseBytes(yaml); err == nil {
		t.Fatal("expected error for empty name, got nil")
	}
}

func TestParseSkipsEmptyDocuments(t *testing.T) {
	yaml := []byte(`
---
apiVersion: v1
kind: Pod
metadata:
  name: only
---
`)
	resources, err := ParseBytes(yaml)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resources) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(resources))
	}
}

func TestParseFile(t *testing.T) {
	content := []byte(`apiVersion: v1
kind: Namespace
metadata:
  name: prod
---
apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
  namespace: prod
spec:
  replicas: 2
`)

	tmpFile, err := os.CreateTemp("", "kubesim-manifest-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(content); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("failed to close temp file: %v", err)
	}

	resources, err := ParseFile(tmpFile.Name())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(resources))
	}
	deployment, ok := resources[1].(*v1.Deployment)
	if !ok {
		t.Fatalf("expected resource[1] to be *v1.Deployment, got %T", resources[1])
	}
	if deployment.Metadata.Namespace != "prod" {
		t.Errorf("expected namespace prod, got %s", deployment.Metadata.Namespace)
	}
}
