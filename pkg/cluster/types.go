package cluster

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// ClusterGVK is the GroupVersionKind for CAPI Cluster resources
var ClusterGVK = schema.GroupVersionKind{
	Group:   "cluster.x-k8s.io",
	Version: "v1beta1",
	Kind:    "Cluster",
}

// Cluster represents a CAPI Cluster resource
type Cluster struct {
	Name        string
	Namespace   string
	Annotations map[string]string
	Spec        ClusterSpec
	Status      ClusterStatus
}

// ClusterSpec represents the spec of a CAPI Cluster
type ClusterSpec struct {
	Paused            bool
	InfrastructureRef *ObjectReference
	ControlPlaneRef   *ObjectReference
}

// ObjectReference references another Kubernetes object
type ObjectReference struct {
	APIVersion string
	Kind       string
	Name       string
	Namespace  string
}

// ClusterStatus represents the status of a CAPI Cluster
type ClusterStatus struct {
	Phase               string
	InfrastructureReady bool
	ControlPlaneReady   bool
}

// IsReady returns true if the cluster is ready
func (c *Cluster) IsReady() bool {
	return c.Status.Phase == "Provisioned" &&
		c.Status.InfrastructureReady &&
		c.Status.ControlPlaneReady
}

// ProviderKind returns the infrastructure provider kind of this cluster, or
// an empty string when the cluster carries no infrastructure reference.
func (c *Cluster) ProviderKind() string {
	if c.Spec.InfrastructureRef == nil {
		return ""
	}
	return c.Spec.InfrastructureRef.Kind
}

// NewClusterFromUnstructured converts an unstructured object to a Cluster
func NewClusterFromUnstructured(obj *unstructured.Unstructured) (*Cluster, error) {
	cluster := &Cluster{
		Name:        obj.GetName(),
		Namespace:   obj.GetNamespace(),
		Annotations: obj.GetAnnotations(),
	}

	// Extract spec
	spec, found, err := unstructured.NestedMap(obj.Object, "spec")
	if err == nil && found {
		// Paused
		if paused, ok := spec["paused"].(bool); ok {
			cluster.Spec.Paused = paused
		}

		// InfrastructureRef
		if infraRef, ok := spec["infrastructureRef"].(map[string]interface{}); ok {
			cluster.Spec.InfrastructureRef = parseObjectReference(infraRef)
		}

		// ControlPlaneRef
		if cpRef, ok := spec["controlPlaneRef"].(map[string]interface{}); ok {
			cluster.Spec.ControlPlaneRef = parseObjectReference(cpRef)
		}
	}

	// Extract status
	status, found, err := unstructured.NestedMap(obj.Object, "status")
	if err == nil && found {
		// Phase
		if phase, ok := status["phase"].(string); ok {
			cluster.Status.Phase = phase
		}

		// InfrastructureReady
		if ready, ok := status["infrastructureReady"].(bool); ok {
			cluster.Status.InfrastructureReady = ready
		}

		// ControlPlaneReady
		if ready, ok := status["controlPlaneReady"].(bool); ok {
			cluster.Status.ControlPlaneReady = ready
		}
	}

	return cluster, nil
}

func parseObjectReference(data map[string]interface{}) *ObjectReference {
	ref := &ObjectReference{}

	if apiVersion, ok := data["apiVersion"].(string); ok {
		ref.APIVersion = apiVersion
	}
	if kind, ok := data["kind"].(string); ok {
		ref.Kind = kind
	}
	if name, ok := data["name"].(string); ok {
		ref.Name = name
	}
	if namespace, ok := data["namespace"].(string); ok {
		ref.Namespace = namespace
	}

	return ref
}
