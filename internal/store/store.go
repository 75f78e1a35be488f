// Package store provides keyed persistence backends for kubesim resources.
//
// Keys follow the convention "/namespaces/{namespace}/{kind}/{name}" for
// namespaced resources and "/cluster/{kind}/{name}" for cluster-scoped
// ones, mirroring Kubernetes-style hierarchical addressing. Custom kinds
// may contain slashes ("group/version/Kind"); keys are only ever matched
// by prefix, never split, so the embedded slashes are harmless.
package store

import (
	"fmt"
)

// Backend is the persistence interface the cluster state is built on.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Create stores a new object at the given key.
	// Returns ErrAlreadyExists if the key is taken.
	Create(key string, value interface{}) error

	// Get retrieves the object stored at key and deserialises it into target.
	// Returns ErrNotFound if the key does not exist.
	Get(key string, target interface{}) error

	// Update replaces the object at the given key.
	// Returns ErrNotFound if the key does not exist.
	Update(key string, value interface{}) error

	// Delete removes the object at the given key.
	// Returns ErrNotFound if the key does not exist.
	Delete(key string) error

	// List returns every object whose key starts with prefix. factory is
	// called once per result to create a zero-value pointer that the stored
	// JSON is unmarshalled into. The memory and sqlite backends return
	// results in insertion order; bolt returns key order.
	List(prefix string, factory func() interface{}) ([]interface{}, error)

	// Reset drops all stored data.
	Reset() error

	// Close releases any resources held by the backend.
	Close() error
}

// Common sentinel errors.
var (
	ErrAlreadyExists = fmt.Errorf("key already exists")
	ErrNotFound      = fmt.Errorf("key not found")
)

// Key roots for the two scopes.
const (
	namespacesRoot = "/namespaces/"
	clusterRoot    = "/cluster/"
)

// ResourceKey builds a canonical store key for a resource. An empty
// namespace addresses the cluster scope.
//
//	ResourceKey("default", "Pod", "web-1")  => "/namespaces/default/Pod/web-1"
//	ResourceKey("", "Namespace", "default") => "/cluster/Namespace/default"
func ResourceKey(namespace, kind, name string) string {
	return KindPrefix(namespace, kind) + name
}

// KindPrefix returns the key prefix covering every resource of one kind in
// one scope.
func KindPrefix(namespace, kind string) string {
	if namespace == "" {
		return clusterRoot + kind + "/"
	}
	return namespacesRoot + namespace + "/" + kind + "/"
}

// NamespacePrefix returns the key prefix covering every resource in the
// given namespace, across all kinds.
func NamespacePrefix(namespace string) string {
	return namespacesRoot + namespace + "/"
}

// ClusterPrefix returns the key prefix covering every cluster-scoped
// resource.
func ClusterPrefix() string { return clusterRoot }

// AllNamespacesPrefix returns the key prefix covering every namespaced
// resource in every namespace.
func AllNamespacesPrefix() string { return namespacesRoot }
