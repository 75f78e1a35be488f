package v1

import "sort"

// builtins maps every built-in kind to a factory for its concrete type.
// The store uses these to decode stored JSON back into typed objects.
var builtins = map[string]func() Object{
	KindNamespace:             func() Object { return &Namespace{} },
	KindPod:                   func() Object { return &Pod{} },
	KindDeployment:            func() Object { return &Deployment{} },
	KindService:               func() Object { return &Service{} },
	KindServiceAccount:        func() Object { return &ServiceAccount{} },
	KindPersistentVolumeClaim: func() Object { return &PersistentVolumeClaim{} },
	KindIngress:               func() Object { return &Ingress{} },
	KindPodDisruptionBudget:   func() Object { return &PodDisruptionBudget{} },
}

// New returns a zero value of the concrete type registered for kind.
// Unrecognized kinds fall back to CustomObject, so the store can hold
// arbitrary group/version/kind resources through the same verb set.
func New(kind string) Object {
	if factory, ok := builtins[kind]; ok {
		return factory()
	}
	return &CustomObject{}
}

// IsBuiltin reports whether kind has a strongly-typed representation.
func IsBuiltin(kind string) bool {
	_, ok := builtins[kind]
	return ok
}

// BuiltinKinds returns the sorted list of built-in kind names.
func BuiltinKinds() []string {
	kinds := make([]string, 0, len(builtins))
	for k := range builtins {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
