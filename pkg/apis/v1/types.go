// Package v1 defines all kubesim resource types.
package v1

import "time"

// API versions carried by the built-in kinds.
const (
	APIVersionCore       = "v1"
	APIVersionApps       = "apps/v1"
	APIVersionNetworking = "networking.k8s.io/v1"
	APIVersionPolicy     = "policy/v1"
)

// Resource kinds
const (
	KindNamespace             = "Namespace"
	KindPod                   = "Pod"
	KindDeployment            = "Deployment"
	KindService               = "Service"
	KindServiceAccount        = "ServiceAccount"
	KindPersistentVolumeClaim = "PersistentVolumeClaim"
	KindIngress               = "Ingress"
	KindPodDisruptionBudget   = "PodDisruptionBudget"
)

// TypeMeta describes the API version and kind of a resource.
type TypeMeta struct {
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Kind       string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// GetTypeMeta returns the embedded TypeMeta. Promoted onto every resource
// type so they all satisfy the Object interface.
func (t *TypeMeta) GetTypeMeta() *TypeMeta { return t }

// ObjectMeta holds identity metadata common to all resources.
type ObjectMeta struct {
	Name              string            `json:"name,omitempty" yaml:"name,omitempty"`
	Namespace         string            `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	UID               string            `json:"uid,omitempty" yaml:"uid,omitempty"`
	CreationTimestamp time.Time         `json:"creationTimestamp,omitempty" yaml:"creationTimestamp,omitempty"`
	Labels            map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Annotations       map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	OwnerReferences   []OwnerReference  `json:"ownerReferences,omitempty" yaml:"ownerReferences,omitempty"`
}

// OwnerReference points from a dependent resource to the resource that
// created it. It drives cascade deletion; ownership graphs are assumed to
// be acyclic and cycles are not validated.
type OwnerReference struct {
	APIVersion string `json:"apiVersion" yaml:"apiVersion"`
	Kind       string `json:"kind" yaml:"kind"`
	Name       string `json:"name" yaml:"name"`
	UID        string `json:"uid" yaml:"uid"`
}

// Object is implemented by every resource type the store can hold.
type Object interface {
	GetTypeMeta() *TypeMeta
	GetObjectMeta() *ObjectMeta
}

// -------------------------------------------------------
// Namespace
// -------------------------------------------------------

// Namespace is a logical partition for namespaced resources. Namespaces are
// cluster-scoped themselves; the implicit "default" namespace always exists.
type Namespace struct {
	TypeMeta `json:",inline" yaml:",inline"`
	Metadata ObjectMeta      `json:"metadata" yaml:"metadata"`
	Status   NamespaceStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

type NamespaceStatus struct {
	Phase string `json:"phase,omitempty" yaml:"phase,omitempty"`
}

func (n *Namespace) GetObjectMeta() *ObjectMeta { return &n.Metadata }

// -------------------------------------------------------
// Pod
// -------------------------------------------------------

// PodPhase represents the lifecycle phase of a Pod.
type PodPhase string

const (
	PodPending   PodPhase = "Pending"
	PodRunning   PodPhase = "Running"
	PodSucceeded PodPhase = "Succeeded"
	PodFailed    PodPhase = "Failed"
)

// ReasonContainerCreating is the waiting reason set on freshly synthesized
// container statuses before the simulated startup completes.
const ReasonContainerCreating = "ContainerCreating"

// Pod represents a single workload instance.
type Pod struct {
	TypeMeta `json:",inline" yaml:",inline"`
	Metadata ObjectMeta `json:"metadata" yaml:"metadata"`
	Spec     PodSpec    `json:"spec" yaml:"spec"`
	Status   PodStatus  `json:"status,omitempty" yaml:"status,omitempty"`
}

type PodSpec struct {
	Containers         []Container `json:"containers,omitempty" yaml:"containers,omitempty"`
	ServiceAccountName string      `json:"serviceAccountName,omitempty" yaml:"serviceAccountName,omitempty"`
	NodeName           string      `json:"nodeName,omitempty" yaml:"nodeName,omitempty"`
	RestartPolicy      string      `json:"restartPolicy,omitempty" yaml:"restartPolicy,omitempty"`
}

type Container struct {
	Name    string          `json:"name" yaml:"name"`
	Image   string          `json:"image,omitempty" yaml:"image,omitempty"`
	Command []string        `json:"command,omitempty" yaml:"command,omitempty"`
	Args    []string        `json:"args,omitempty" yaml:"args,omitempty"`
	Env     []EnvVar        `json:"env,omitempty" yaml:"env,omitempty"`
	Ports   []ContainerPort `json:"ports,omitempty" yaml:"ports,omitempty"`
}

type EnvVar struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

type ContainerPort struct {
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	ContainerPort int    `json:"containerPort" yaml:"containerPort"`
	Protocol      string `json:"protocol,omitempty" yaml:"protocol,omitempty"`
}

type PodStatus struct {
	Phase             PodPhase          `json:"phase,omitempty" yaml:"phase,omitempty"`
	Message           string            `json:"message,omitempty" yaml:"message,omitempty"`
	ContainerStatuses []ContainerStatus `json:"containerStatuses,omitempty" yaml:"containerStatuses,omitempty"`
}

type ContainerStatus struct {
	Name         string         `json:"name" yaml:"name"`
	Ready        bool           `json:"ready" yaml:"ready"`
	RestartCount int            `json:"restartCount" yaml:"restartCount"`
	Image        string         `json:"image,omitempty" yaml:"image,omitempty"`
	ImageID      string         `json:"imageID,omitempty" yaml:"imageID,omitempty"`
	State        ContainerState `json:"state,omitempty" yaml:"state,omitempty"`
}

// ContainerState holds at most one of Waiting, Running, Terminated.
type ContainerState struct {
	Waiting    *ContainerStateWaiting    `json:"waiting,omitempty" yaml:"waiting,omitempty"`
	Running    *ContainerStateRunning    `json:"running,omitempty" yaml:"running,omitempty"`
	Terminated *ContainerStateTerminated `json:"terminated,omitempty" yaml:"terminated,omitempty"`
}

type ContainerStateWaiting struct {
	Reason  string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

type ContainerStateRunning struct {
	StartedAt time.Time `json:"startedAt,omitempty" yaml:"startedAt,omitempty"`
}

type ContainerStateTerminated struct {
	ExitCode int    `json:"exitCode" yaml:"exitCode"`
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Message  string `json:"message,omitempty" yaml:"message,omitempty"`
}

func (p *Pod) GetObjectMeta() *ObjectMeta { return &p.Metadata }

// -------------------------------------------------------
// Deployment
// -------------------------------------------------------

// Deployment declares a desired number of identical pod replicas.
type Deployment struct {
	TypeMeta `json:",inline" yaml:",inline"`
	Metadata ObjectMeta       `json:"metadata" yaml:"metadata"`
	Spec     DeploymentSpec   `json:"spec" yaml:"spec"`
	Status   DeploymentStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

type DeploymentSpec struct {
	// Replicas is the desired pod count. Zero means unset and defaults to 1.
	Replicas int               `json:"replicas,omitempty" yaml:"replicas,omitempty"`
	Selector map[string]string `json:"selector,omitempty" yaml:"selector,omitempty"`
	Template PodTemplateSpec   `json:"template" yaml:"template"`
}

type PodTemplateSpec struct {
	Metadata ObjectMeta `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Spec     PodSpec    `json:"spec" yaml:"spec"`
}

type DeploymentStatus struct {
	Replicas          int `json:"replicas" yaml:"replicas"`
	ReadyReplicas     int `json:"readyReplicas" yaml:"readyReplicas"`
	AvailableReplicas int `json:"availableReplicas" yaml:"availableReplicas"`
}

func (d *Deployment) GetObjectMeta() *ObjectMeta { return &d.Metadata }

// -------------------------------------------------------
// Service
// -------------------------------------------------------

// ServiceTypeClusterIP is the default service type.
const ServiceTypeClusterIP = "ClusterIP"

// Service exposes a set of pods under a stable virtual address.
type Service struct {
	TypeMeta `json:",inline" yaml:",inline"`
	Metadata ObjectMeta  `json:"metadata" yaml:"metadata"`
	Spec     ServiceSpec `json:"spec" yaml:"spec"`
}

type ServiceSpec struct {
	Type      string            `json:"type,omitempty" yaml:"type,omitempty"`
	ClusterIP string            `json:"clusterIP,omitempty" yaml:"clusterIP,omitempty"`
	Selector  map[string]string `json:"selector,omitempty" yaml:"selector,omitempty"`
	Ports     []ServicePort     `json:"ports,omitempty" yaml:"ports,omitempty"`
}

type ServicePort struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	Port       int    `json:"port" yaml:"port"`
	TargetPort int    `json:"targetPort,omitempty" yaml:"targetPort,omitempty"`
	Protocol   string `json:"protocol,omitempty" yaml:"protocol,omitempty"`
}

func (s *Service) GetObjectMeta() *ObjectMeta { return &s.Metadata }

// -------------------------------------------------------
// ServiceAccount
// -------------------------------------------------------

type ServiceAccount struct {
	TypeMeta `json:",inline" yaml:",inline"`
	Metadata ObjectMeta `json:"metadata" yaml:"metadata"`
	Secrets  []string   `json:"secrets,omitempty" yaml:"secrets,omitempty"`
}

func (s *ServiceAccount) GetObjectMeta() *ObjectMeta { return &s.Metadata }

// -------------------------------------------------------
// PersistentVolumeClaim
// -------------------------------------------------------

// ClaimPhase represents the binding phase of a PersistentVolumeClaim.
type ClaimPhase string

const (
	ClaimPending ClaimPhase = "Pending"
	ClaimBound   ClaimPhase = "Bound"
)

type PersistentVolumeClaim struct {
	TypeMeta `json:",inline" yaml:",inline"`
	Metadata ObjectMeta                  `json:"metadata" yaml:"metadata"`
	Spec     PersistentVolumeClaimSpec   `json:"spec" yaml:"spec"`
	Status   PersistentVolumeClaimStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

type PersistentVolumeClaimSpec struct {
	StorageClassName string   `json:"storageClassName,omitempty" yaml:"storageClassName,omitempty"`
	AccessModes      []string `json:"accessModes,omitempty" yaml:"accessModes,omitempty"`
	Storage          string   `json:"storage,omitempty" yaml:"storage,omitempty"`
}

type PersistentVolumeClaimStatus struct {
	Phase ClaimPhase `json:"phase,omitempty" yaml:"phase,omitempty"`
}

func (c *PersistentVolumeClaim) GetObjectMeta() *ObjectMeta { return &c.Metadata }

// -------------------------------------------------------
// Ingress
// -------------------------------------------------------

type Ingress struct {
	TypeMeta `json:",inline" yaml:",inline"`
	Metadata ObjectMeta  `json:"metadata" yaml:"metadata"`
	Spec     IngressSpec `json:"spec" yaml:"spec"`
}

type IngressSpec struct {
	IngressClassName string        `json:"ingressClassName,omitempty" yaml:"ingressClassName,omitempty"`
	Rules            []IngressRule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

type IngressRule struct {
	Host  string        `json:"host,omitempty" yaml:"host,omitempty"`
	Paths []IngressPath `json:"paths,omitempty" yaml:"paths,omitempty"`
}

type IngressPath struct {
	Path    string         `json:"path" yaml:"path"`
	Backend IngressBackend `json:"backend" yaml:"backend"`
}

type IngressBackend struct {
	Service string `json:"service" yaml:"service"`
	Port    int    `json:"port" yaml:"port"`
}

func (i *Ingress) GetObjectMeta() *ObjectMeta { return &i.Metadata }

// -------------------------------------------------------
// PodDisruptionBudget
// -------------------------------------------------------

type PodDisruptionBudget struct {
	TypeMeta `json:",inline" yaml:",inline"`
	Metadata ObjectMeta              `json:"metadata" yaml:"metadata"`
	Spec     PodDisruptionBudgetSpec `json:"spec" yaml:"spec"`
}

type PodDisruptionBudgetSpec struct {
	MinAvailable   int               `json:"minAvailable,omitempty" yaml:"minAvailable,omitempty"`
	MaxUnavailable int               `json:"maxUnavailable,omitempty" yaml:"maxUnavailable,omitempty"`
	Selector       map[string]string `json:"selector,omitempty" yaml:"selector,omitempty"`
}

func (p *PodDisruptionBudget) GetObjectMeta() *ObjectMeta { return &p.Metadata }

// -------------------------------------------------------
// CustomObject
// -------------------------------------------------------

// CustomObject carries an arbitrary group/version/kind resource. Its payload
// is an opaque mapping; the store never inspects it and no simulator runs
// for custom kinds. The kind string used with the store verbs is
// CustomKind(group, version, kind).
type CustomObject struct {
	TypeMeta `json:",inline" yaml:",inline"`
	Metadata ObjectMeta     `json:"metadata" yaml:"metadata"`
	Data     map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

func (c *CustomObject) GetObjectMeta() *ObjectMeta { return &c.Metadata }

// CustomKind builds the store kind string for a custom resource, e.g.
//
//	CustomKind("example.com", "v1", "Widget") => "example.com/v1/Widget"
func CustomKind(group, version, kind string) string {
	return group + "/" + version + "/" + kind
}

// -------------------------------------------------------
// Event
// -------------------------------------------------------

// EventAction is the lifecycle action recorded in the event log.
type EventAction string

const (
	ActionCreated EventAction = "Created"
	ActionUpdated EventAction = "Updated"
	ActionDeleted EventAction = "Deleted"
)

// Event is an immutable record of a single mutating store action.
// Namespace is empty for cluster-scoped resources.
type Event struct {
	Timestamp time.Time   `json:"timestamp"`
	Namespace string      `json:"namespace,omitempty"`
	Kind      string      `json:"kind"`
	Name      string      `json:"name"`
	Action    EventAction `json:"action"`
}
