package provider

import (
	"github.com/bigkevmcd/capi-catalog-provider/pkg/catalog"
	"github.com/bigkevmcd/capi-catalog-provider/pkg/cluster"
	"github.com/bigkevmcd/capi-catalog-provider/pkg/config"
	"github.com/bigkevmcd/capi-catalog-provider/pkg/kubeconfig"
)

// MapEntity combines a remote cluster, its optional resolved credentials and
// the provider defaults into a catalog entity.
//
// Each field resolves independently: a cluster annotation wins over the
// provider default, which wins over the built-in fallback. Owner falls back
// to "guest"; lifecycle, system, tags and description are omitted entirely
// when no source supplies them. The three API-server annotations are set
// only when credentials resolved; they are never written empty.
func MapEntity(providerName string, defaults config.Defaults, c *cluster.Cluster, credentials *kubeconfig.Credentials) catalog.Entity {
	metadata := cluster.ExtractMetadata(c)

	annotations := map[string]string{
		catalog.AnnotationManagedByLocation:       providerName,
		catalog.AnnotationManagedByOriginLocation: providerName,
		catalog.AnnotationCAPIProvider:            c.ProviderKind(),
	}

	if credentials != nil {
		annotations[catalog.AnnotationAPIServer] = credentials.Server
		annotations[catalog.AnnotationAPIServerCA] = string(credentials.CAData)
		annotations[catalog.AnnotationAuthProvider] = catalog.AuthProviderOIDC
	}

	owner := metadata.Owner
	if owner == "" {
		owner = defaults.ClusterOwner
	}
	if owner == "" {
		owner = catalog.DefaultOwner
	}

	lifecycle := metadata.Lifecycle
	if lifecycle == "" {
		lifecycle = defaults.Lifecycle
	}

	system := metadata.System
	if system == "" {
		system = defaults.System
	}

	tags := metadata.Tags
	if len(tags) == 0 {
		tags = defaults.Tags
	}

	return catalog.Entity{
		APIVersion: catalog.EntityAPIVersion,
		Kind:       catalog.KindResource,
		Metadata: catalog.EntityMeta{
			Name:        c.Name,
			Title:       c.Name,
			Description: metadata.Description,
			Annotations: annotations,
			Tags:        tags,
		},
		Spec: catalog.ResourceSpec{
			Type:      catalog.ResourceTypeKubernetesCluster,
			Owner:     owner,
			Lifecycle: lifecycle,
			System:    system,
		},
	}
}
