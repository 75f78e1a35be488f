package cluster

import (
	"strings"

	"go.uber.org/zap"

	"github.com/klubi/kubesim/internal/store"
	"github.com/klubi/kubesim/pkg/apierrors"
	v1 "github.com/klubi/kubesim/pkg/apis/v1"
)

// partialObject decodes just the identity of any stored resource. Cascade
// scanning only needs kind, scope, name, and owner references, so it never
// has to know the concrete payload type.
type partialObject struct {
	v1.TypeMeta `json:",inline"`
	Metadata    v1.ObjectMeta `json:"metadata"`
}

// dependent identifies a resource scheduled for cascade deletion.
type dependent struct {
	namespace string
	kind      string
	name      string
}

// cascadeDelete removes every resource holding an owner reference to
// ownerUID, each through the standard Delete path so the cascade recurses
// into their own dependents. It is best-effort: NotFound from a dependent
// already removed earlier in the cascade is swallowed, and the root delete
// never fails because of it.
//
// Scope selection: when the deleted resource was namespaced, only that
// namespace's partitions are scanned; when it was cluster-scoped, every
// namespace is. Cluster-scoped partitions are scanned in both cases, since
// cluster resources may depend on either scope.
func (c *Cluster) cascadeDelete(namespace, ownerUID string) {
	var prefixes []string
	if namespace != "" {
		prefixes = []string{store.NamespacePrefix(namespace), store.ClusterPrefix()}
	} else {
		prefixes = []string{store.AllNamespacesPrefix(), store.ClusterPrefix()}
	}

	var worklist []dependent
	for _, prefix := range prefixes {
		items, err := c.backend.List(prefix, func() interface{} { return &partialObject{} })
		if err != nil {
			c.logger.Warn("cascade scan failed",
				zap.String("prefix", prefix),
				zap.Error(err),
			)
			continue
		}
		for _, item := range items {
			partial := item.(*partialObject)
			if !hasOwnerReference(partial.Metadata.OwnerReferences, ownerUID) {
				continue
			}
			worklist = append(worklist, dependent{
				namespace: partial.Metadata.Namespace,
				kind:      storageKind(partial.TypeMeta),
				name:      partial.Metadata.Name,
			})
		}
	}

	for _, dep := range worklist {
		err := c.Delete(dep.namespace, dep.kind, dep.name)
		if err == nil {
			continue
		}
		if apierrors.IsNotFound(err) {
			// Already removed by an earlier step of this cascade.
			continue
		}
		c.logger.Warn("cascade delete failed",
			zap.String("namespace", dep.namespace),
			zap.String("kind", dep.kind),
			zap.String("name", dep.name),
			zap.Error(err),
		)
	}
}

// storageKind recovers the kind a resource is stored under. Built-in kinds
// are stored under the bare kind; custom objects under the fully qualified
// "group/version/Kind", reconstructed here from the API version.
func storageKind(tm v1.TypeMeta) string {
	if v1.IsBuiltin(tm.Kind) || tm.Kind == "" || strings.Contains(tm.Kind, "/") {
		return tm.Kind
	}
	if group, version, ok := splitGroupVersion(tm.APIVersion); ok {
		return v1.CustomKind(group, version, tm.Kind)
	}
	return tm.Kind
}

func splitGroupVersion(apiVersion string) (group, version string, ok bool) {
	group, version, ok = strings.Cut(apiVersion, "/")
	if !ok || group == "" || version == "" {
		return "", "", false
	}
	return group, version, true
}

func hasOwnerReference(refs []v1.OwnerReference, uid string) bool {
	for _, ref := range refs {
		if ref.UID == uid {
			return true
		}
	}
	return false
}
