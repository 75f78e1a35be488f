// Package manifest provides YAML manifest parsing for kubesim resources.
package manifest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	v1 "github.com/klubi/kubesim/pkg/apis/v1"
)

// ParseFile reads a YAML file at the given path and parses it into typed
// resources. Multi-document YAML (separated by ---) is supported.
func ParseFile(path string) ([]v1.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest file %s: %w", path, err)
	}
	return ParseBytes(data)
}

// ParseBytes parses raw YAML bytes into typed resources.
// Multi-document YAML (separated by ---) is supported.
func ParseBytes(data []byte) ([]v1.Object, error) {
	var resources []v1.Object

	decoder := yaml.NewDecoder(bytes.NewReader(data))

	for {
		// Decode into a generic yaml.Node so we can re-decode it.
		var node yaml.Node
		if err := decoder.Decode(&node); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("decoding yaml document: %w", err)
		}

		// Skip empty documents.
		if node.Kind == 0 {
			continue
		}

		// First pass: extract TypeMeta to determine the Kind.
		var meta v1.TypeMeta
		if err := node.Decode(&meta); err != nil {
			return nil, fmt.Errorf("decoding type meta: %w", err)
		}
		if meta.Kind == "" && meta.APIVersion == "" {
			continue
		}
		if meta.Kind == "" {
			return nil, fmt.Errorf("manifest document has no kind")
		}

		// Second pass: decode into the concrete type based on Kind.
		resource, err := decodeResource(&node, meta)
		if err != nil {
			return nil, err
		}

		setDefaultAPIVersion(resource)

		if resource.GetObjectMeta().Name == "" {
			return nil, fmt.Errorf("validation failed: %s name must not be empty", meta.Kind)
		}

		resources = append(resources, resource)
	}

	return resources, nil
}

// StoreKind returns the kind string the store verbs expect for a parsed
// resource: the bare kind for built-ins, "group/version/Kind" for custom
// objects.
func StoreKind(obj v1.Object) string {
	tm := obj.GetTypeMeta()
	if v1.IsBuiltin(tm.Kind) {
		return tm.Kind
	}
	if group, version, ok := strings.Cut(tm.APIVersion, "/"); ok {
		return v1.CustomKind(group, version, tm.Kind)
	}
	return tm.Kind
}

// decodeResource unmarshals a yaml.Node into the concrete type registered
// for the document's kind. Unrecognized kinds decode into a CustomObject
// whose payload carries every non-metadata field of the document.
func decodeResource(node *yaml.Node, meta v1.TypeMeta) (v1.Object, error) {
	if v1.IsBuiltin(meta.Kind) {
		resource := v1.New(meta.Kind)
		if err := node.Decode(resource); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", meta.Kind, err)
		}
		return resource, nil
	}
	return decodeCustom(node, meta)
}

// decodeCustom splits an arbitrary document into identity metadata and an
// opaque payload.
func decodeCustom(node *yaml.Node, meta v1.TypeMeta) (*v1.CustomObject, error) {
	var envelope struct {
		Metadata v1.ObjectMeta `yaml:"metadata"`
	}
	if err := node.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding %s metadata: %w", meta.Kind, err)
	}

	var fields map[string]any
	if err := node.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", meta.Kind, err)
	}
	delete(fields, "apiVersion")
	delete(fields, "kind")
	delete(fields, "metadata")

	return &v1.CustomObject{
		TypeMeta: meta,
		Metadata: envelope.Metadata,
		Data:     fields,
	}, nil
}

// setDefaultAPIVersion fills the canonical API version for built-in kinds
// parsed without one.
func setDefaultAPIVersion(resource v1.Object) {
	tm := resource.GetTypeMeta()
	if tm.APIVersion != "" {
		return
	}
	switch tm.Kind {
	case v1.KindDeployment:
		tm.APIVersion = v1.APIVersionApps
	case v1.KindIngress:
		tm.APIVersion = v1.APIVersionNetworking
	case v1.KindPodDisruptionBudget:
		tm.APIVersion = v1.APIVersionPolicy
	default:
		tm.APIVersion = v1.APIVersionCore
	}
}
