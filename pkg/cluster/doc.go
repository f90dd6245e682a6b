// Package cluster provides discovery of Cluster API (CAPI) Cluster resources
// on a hub cluster.
//
// # CAPI Resources
//
// The package works with the standard CAPI Cluster resource
// (cluster.x-k8s.io/v1beta1), fetched fresh every refresh cycle and never
// mutated.
//
// # Usage
//
// List all clusters on a hub:
//
//	clusters, err := cluster.List(ctx, dynamicClient)
//
// # Annotations
//
// Catalog metadata is carried on cluster annotations:
//   - capi.backstage.io/owner: Owner of the projected entity
//   - capi.backstage.io/lifecycle: Lifecycle of the projected entity
//   - capi.backstage.io/system: System the entity belongs to
//   - capi.backstage.io/tags: Comma-separated entity tags
//   - capi.backstage.io/description: Entity description
package cluster
