package apiserver

import (
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/klubi/kubesim/internal/cluster"
	"github.com/klubi/kubesim/internal/controller"
	"github.com/klubi/kubesim/internal/store"
	"github.com/klubi/kubesim/pkg/apierrors"
	v1 "github.com/klubi/kubesim/pkg/apis/v1"
	"github.com/klubi/kubesim/pkg/client"
)

// newTestServer spins up an httptest server around a fresh simulated
// cluster and returns a client pointed at it.
func newTestServer(t *testing.T) *client.Client {
	t.Helper()

	c := cluster.New(
		store.NewMemoryBackend(),
		cluster.WithSimulators(controller.Simulators(zap.NewNop())),
	)
	srv := NewServer("127.0.0.1:0", c, zap.NewNop())

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return client.New(ts.URL)
}

func TestResourceRoundTrip(t *testing.T) {
	api := newTestServer(t)

	created, err := api.Create("default", v1.KindPod, &v1.Pod{
		Metadata: v1.ObjectMeta{Name: "web", Labels: map[string]string{"app": "web"}},
		Spec: v1.PodSpec{
			Containers: []v1.Container{{Name: "app", Image: "nginx:1.25"}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error on Create: %v", err)
	}
	if created.GetObjectMeta().UID == "" {
		t.Error("expected server-assigned UID")
	}
	// The pod simulator runs server-side before the response.
	if created.(*v1.Pod).Status.Phase != v1.PodRunning {
		t.Errorf("expected phase Running in create response, got %s", created.(*v1.Pod).Status.Phase)
	}

	got, err := api.Get("default", v1.KindPod, "web")
	if err != nil {
		t.Fatalf("unexpected error on Get: %v", err)
	}
	if got.GetObjectMeta().UID != created.GetObjectMeta().UID {
		t.Error("expected stable UID across Get")
	}

	items, err := api.List("default", v1.KindPod, "app=web")
	if err != nil {
		t.Fatalf("unexpected error on List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 pod for app=web, got %d", len(items))
	}

	updated, err := api.Update("default", v1.KindPod, "web", &v1.Pod{
		Metadata: v1.ObjectMeta{Name: "web", Labels: map[string]string{"app": "web", "v": "2"}},
	})
	if err != nil {
		t.Fatalf("unexpected error on Update: %v", err)
	}
	if updated.GetObjectMeta().UID != created.GetObjectMeta().UID {
		t.Error("expected UID preserved across Update")
	}

	if err := api.Delete("default", v1.KindPod, "web"); err != nil {
		t.Fatalf("unexpected error on Delete: %v", err)
	}
	if _, err := api.Get("default", v1.KindPod, "web"); !apierrors.IsNotFound(err) {
		t.Fatalf("expected NotFound after Delete, got %v", err)
	}
}

func TestErrorTranslation(t *testing.T) {
	api := newTestServer(t)

	if _, err := api.Get("default", v1.KindPod, "ghost"); !apierrors.IsNotFound(err) {
		t.Errorf("expected NotFound through the wire, got %v", err)
	}

	if _, err := api.Create("default", v1.KindPod, &v1.Pod{
		Metadata: v1.ObjectMeta{Name: "dup"},
	}); err != nil {
		t.Fatalf("unexpected error on first Create: %v", err)
	}
	if _, err := api.Create("default", v1.KindPod, &v1.Pod{
		Metadata: v1.ObjectMeta{Name: "dup"},
	}); !apierrors.IsConflict(err) {
		t.Errorf("expected Conflict through the wire, got %v", err)
	}
}

func TestClusterScopedRoutes(t *testing.T) {
	api := newTestServer(t)

	if _, err := api.Create("", v1.KindNamespace, &v1.Namespace{
		Metadata: v1.ObjectMeta{Name: "staging"},
	}); err != nil {
		t.Fatalf("unexpected error creating namespace: %v", err)
	}

	namespaces, err := api.Namespaces()
	if err != nil {
		t.Fatalf("unexpected error listing namespaces: %v", err)
	}
	want := []string{"default", "staging"}
	if len(namespaces) != len(want) || namespaces[0] != want[0] || namespaces[1] != want[1] {
		t.Errorf("expected namespaces %v, got %v", want, namespaces)
	}
}

func TestCustomResourceRoutes(t *testing.T) {
	api := newTestServer(t)
	kind := v1.CustomKind("example.com", "v1", "Widget")

	if _, err := api.Create("default", kind, &v1.CustomObject{
		TypeMeta: v1.TypeMeta{APIVersion: "example.com/v1", Kind: "Widget"},
		Metadata: v1.ObjectMeta{Name: "w-1"},
		Data:     map[string]any{"spec": map[string]any{"size": "large"}},
	}); err != nil {
		t.Fatalf("unexpected error creating custom object: %v", err)
	}

	got, err := api.Get("default", kind, "w-1")
	if err != nil {
		t.Fatalf("unexpected error fetching custom object: %v", err)
	}
	custom := got.(*v1.CustomObject)
	spec, ok := custom.Data["spec"].(map[string]any)
	if !ok || spec["size"] != "large" {
		t.Errorf("expected payload round-tripped, got %v", custom.Data)
	}
}

func TestApplyCreateOrUpdate(t *testing.T) {
	api := newTestServer(t)

	first, err := api.Apply("default", v1.KindService, &v1.Service{
		Metadata: v1.ObjectMeta{Name: "web"},
	})
	if err != nil {
		t.Fatalf("unexpected error on first Apply: %v", err)
	}

	second, err := api.Apply("default", v1.KindService, &v1.Service{
		Metadata: v1.ObjectMeta{Name: "web", Labels: map[string]string{"v": "2"}},
	})
	if err != nil {
		t.Fatalf("unexpected error on second Apply: %v", err)
	}
	if second.GetObjectMeta().UID != first.GetObjectMeta().UID {
		t.Error("expected apply-as-update to preserve the UID")
	}
	if second.GetObjectMeta().Labels["v"] != "2" {
		t.Error("expected apply-as-update to replace labels")
	}
}

func TestEventsAndReset(t *testing.T) {
	api := newTestServer(t)

	if _, err := api.Create("default", v1.KindPersistentVolumeClaim, &v1.PersistentVolumeClaim{
		Metadata: v1.ObjectMeta{Name: "data"},
	}); err != nil {
		t.Fatalf("unexpected error creating claim: %v", err)
	}

	events, err := api.Events()
	if err != nil {
		t.Fatalf("unexpected error fetching events: %v", err)
	}
	if len(events) == 0 || events[0].Action != v1.ActionCreated {
		t.Fatalf("expected a Created event, got %v", events)
	}

	if err := api.Reset(); err != nil {
		t.Fatalf("unexpected error on Reset: %v", err)
	}
	events, err = api.Events()
	if err != nil {
		t.Fatalf("unexpected error fetching events after reset: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected empty event log after reset, got %d entries", len(events))
	}
}

func TestListSelectorSpecialCharacters(t *testing.T) {
	api := newTestServer(t)

	if _, err := api.Create("default", v1.KindPod, &v1.Pod{
		Metadata: v1.ObjectMeta{
			Name:   "annotated",
			Labels: map[string]string{"note": "hello world", "pct": "100%"},
		},
	}); err != nil {
		t.Fatalf("unexpected error on Create: %v", err)
	}
	if _, err := api.Create("default", v1.KindPod, &v1.Pod{
		Metadata: v1.ObjectMeta{Name: "plain"},
	}); err != nil {
		t.Fatalf("unexpected error on Create: %v", err)
	}

	// Selector values with spaces and percent signs must survive the query
	// string round trip.
	for _, selector := range []string{"note=hello world", "pct=100%"} {
		items, err := api.List("default", v1.KindPod, selector)
		if err != nil {
			t.Fatalf("unexpected error listing with %q: %v", selector, err)
		}
		if len(items) != 1 || items[0].GetObjectMeta().Name != "annotated" {
			t.Errorf("selector %q matched %d items, want only the annotated pod", selector, len(items))
		}
	}

	items, err := api.List("default", v1.KindPod, "note=no such value")
	if err != nil {
		t.Fatalf("unexpected error listing: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no matches, got %d", len(items))
	}
}
