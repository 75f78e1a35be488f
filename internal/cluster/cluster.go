// Package cluster implements the simulated control plane: a typed resource
// store with CRUD verbs, owner-reference cascade deletion, a bounded event
// log, and synchronous per-kind controller simulation.
//
// A Cluster is confined to one logical owner. The verbs take no lock;
// concurrent adapters (such as the REST server) must serialise access
// themselves.
package cluster

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/klubi/kubesim/internal/events"
	"github.com/klubi/kubesim/internal/store"
	"github.com/klubi/kubesim/pkg/apierrors"
	v1 "github.com/klubi/kubesim/pkg/apis/v1"
	"github.com/klubi/kubesim/pkg/labels"
)

// DefaultNamespace exists from construction; every other namespace is
// created lazily on first resource insertion.
const DefaultNamespace = "default"

// Simulator is the synchronous post-create hook for one kind. It mimics a
// reconciliation loop's eventual effect without modelling the loop: it runs
// to completion before Create returns, and any mutation it makes to the
// freshly created object is persisted without an extra event.
type Simulator interface {
	Simulate(c *Cluster, obj v1.Object) error
}

// Cluster is the simulated control plane state.
type Cluster struct {
	backend    store.Backend
	simulators map[string]Simulator
	events     *events.Log
	namespaces map[string]struct{}
	logger     *zap.Logger

	eventCapacity int
}

// Option configures a Cluster.
type Option func(*Cluster)

// WithSimulators installs the per-kind simulator table. Kinds without an
// entry get no simulated controller behaviour.
func WithSimulators(simulators map[string]Simulator) Option {
	return func(c *Cluster) { c.simulators = simulators }
}

// WithLogger sets the logger. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cluster) { c.logger = logger }
}

// WithEventCapacity overrides the event log capacity (default 1000).
func WithEventCapacity(capacity int) Option {
	return func(c *Cluster) { c.eventCapacity = capacity }
}

// New creates an empty cluster around the given backend, containing only
// the implicit "default" namespace.
func New(backend store.Backend, opts ...Option) *Cluster {
	c := &Cluster{
		backend:    backend,
		simulators: map[string]Simulator{},
		namespaces: map[string]struct{}{DefaultNamespace: {}},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.events = events.NewLog(c.eventCapacity)
	return c
}

// ---------------------------------------------------------------------------
// Verbs
// ---------------------------------------------------------------------------

// Create stores a new resource in the given scope (empty namespace =
// cluster scope). Missing identity metadata is generated: a synthesized
// "<kind>-<suffix>" name, a fresh UID, and the current creation timestamp.
// Returns a Conflict error if the (namespace, kind, name) is taken.
//
// The stored object is the one passed in; callers must not assume a copy.
func (c *Cluster) Create(namespace, kind string, obj v1.Object) (v1.Object, error) {
	meta := obj.GetObjectMeta()

	if meta.Name == "" {
		meta.Name = generateName(kind)
	}
	if meta.UID == "" {
		meta.UID = uuid.New().String()
	}
	if meta.CreationTimestamp.IsZero() {
		meta.CreationTimestamp = time.Now().UTC()
	}
	if namespace != "" && meta.Namespace == "" {
		meta.Namespace = namespace
	}
	if tm := obj.GetTypeMeta(); tm.Kind == "" {
		tm.Kind = kind
	}

	key := store.ResourceKey(namespace, kind, meta.Name)
	if err := c.backend.Create(key, obj); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, apierrors.NewConflict(namespace, kind, meta.Name)
		}
		return nil, fmt.Errorf("storing %s %q: %w", kind, meta.Name, err)
	}

	if namespace != "" {
		c.ensureNamespace(namespace)
	} else if kind == v1.KindNamespace {
		c.ensureNamespace(meta.Name)
	}

	c.events.Record(namespace, kind, meta.Name, v1.ActionCreated)
	c.logger.Debug("resource created",
		zap.String("namespace", namespace),
		zap.String("kind", kind),
		zap.String("name", meta.Name),
	)

	if sim := c.simulators[kind]; sim != nil {
		if err := sim.Simulate(c, obj); err != nil {
			return nil, fmt.Errorf("simulating %s %q: %w", kind, meta.Name, err)
		}
		// Persist whatever the simulator wrote onto the object, silently.
		if err := c.backend.Update(key, obj); err != nil {
			return nil, fmt.Errorf("persisting simulated %s %q: %w", kind, meta.Name, err)
		}
	}

	return obj, nil
}

// Get retrieves a resource, or a NotFound error.
func (c *Cluster) Get(namespace, kind, name string) (v1.Object, error) {
	obj := v1.New(kind)
	err := c.backend.Get(store.ResourceKey(namespace, kind, name), obj)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierrors.NewNotFound(namespace, kind, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s %q: %w", kind, name, err)
	}
	return obj, nil
}

// List returns all resources of one kind in one scope, in insertion order,
// optionally filtered by an equality label selector string.
func (c *Cluster) List(namespace, kind, selector string) ([]v1.Object, error) {
	items, err := c.backend.List(
		store.KindPrefix(namespace, kind),
		func() interface{} { return v1.New(kind) },
	)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}

	sel := labels.Parse(selector)
	results := make([]v1.Object, 0, len(items))
	for _, item := range items {
		obj := item.(v1.Object)
		if sel.Matches(obj.GetObjectMeta().Labels) {
			results = append(results, obj)
		}
	}
	return results, nil
}

// Update replaces a stored resource. Identity cannot change through update:
// the name, UID, creation timestamp, and namespace of the stored object are
// forced onto the replacement. Returns NotFound if absent.
func (c *Cluster) Update(namespace, kind, name string, obj v1.Object) (v1.Object, error) {
	existing, err := c.Get(namespace, kind, name)
	if err != nil {
		return nil, err
	}

	meta := obj.GetObjectMeta()
	existingMeta := existing.GetObjectMeta()
	meta.Name = existingMeta.Name
	meta.UID = existingMeta.UID
	meta.CreationTimestamp = existingMeta.CreationTimestamp
	meta.Namespace = existingMeta.Namespace
	if tm := obj.GetTypeMeta(); tm.Kind == "" {
		tm.Kind = kind
	}

	key := store.ResourceKey(namespace, kind, name)
	if err := c.backend.Update(key, obj); err != nil {
		return nil, fmt.Errorf("updating %s %q: %w", kind, name, err)
	}

	c.events.Record(namespace, kind, name, v1.ActionUpdated)
	return obj, nil
}

// Delete removes a resource and then cascades to everything that holds an
// owner reference to its UID, directly or transitively. The primary
// resource's Deleted event is recorded after the cascade, so dependents'
// events appear first in the log. Returns NotFound if absent.
func (c *Cluster) Delete(namespace, kind, name string) error {
	existing, err := c.Get(namespace, kind, name)
	if err != nil {
		return err
	}

	key := store.ResourceKey(namespace, kind, name)
	if err := c.backend.Delete(key); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apierrors.NewNotFound(namespace, kind, name)
		}
		return fmt.Errorf("deleting %s %q: %w", kind, name, err)
	}

	if uid := existing.GetObjectMeta().UID; uid != "" {
		c.cascadeDelete(namespace, uid)
	}

	c.events.Record(namespace, kind, name, v1.ActionDeleted)
	c.logger.Debug("resource deleted",
		zap.String("namespace", namespace),
		zap.String("kind", kind),
		zap.String("name", name),
	)
	return nil
}

// ---------------------------------------------------------------------------
// Observability and lifecycle
// ---------------------------------------------------------------------------

// Events returns a copy of the retained lifecycle events, oldest first.
func (c *Cluster) Events() []v1.Event {
	return c.events.List()
}

// Namespaces returns the sorted names of all known namespaces, declared or
// lazily created.
func (c *Cluster) Namespaces() []string {
	names := make([]string, 0, len(c.namespaces))
	for name := range c.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset discards all resources and events, leaving an empty cluster with
// only the "default" namespace.
func (c *Cluster) Reset() error {
	if err := c.backend.Reset(); err != nil {
		return fmt.Errorf("resetting backend: %w", err)
	}
	c.events.Reset()
	c.namespaces = map[string]struct{}{DefaultNamespace: {}}
	return nil
}

// ---------------------------------------------------------------------------
// internal
// ---------------------------------------------------------------------------

func (c *Cluster) ensureNamespace(namespace string) {
	c.namespaces[namespace] = struct{}{}
}

// generateName synthesizes "<kind>-<8 hex chars>" for resources created
// without a name.
func generateName(kind string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return strings.ToLower(kind) + "-" + suffix
}
