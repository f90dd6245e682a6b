package cluster

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
)

// ClusterGVR is the GroupVersionResource for CAPI Cluster resources
var ClusterGVR = schema.GroupVersionResource{
	Group:    "cluster.x-k8s.io",
	Version:  "v1beta1",
	Resource: "clusters",
}

// List lists CAPI clusters across all namespaces of the hub. It issues a
// single list call; transport and API errors are returned to the caller
// without retry.
func List(ctx context.Context, client dynamic.Interface) ([]*Cluster, error) {
	list, err := client.Resource(ClusterGVR).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}

	clusters := make([]*Cluster, 0, len(list.Items))
	for _, item := range list.Items {
		c, err := NewClusterFromUnstructured(&item)
		if err != nil {
			continue // Skip invalid clusters
		}
		clusters = append(clusters, c)
	}

	return clusters, nil
}
