package cluster

import "strings"

// Catalog metadata annotations recognised on CAPI Cluster resources.
const (
	AnnotationOwner       = "capi.backstage.io/owner"
	AnnotationLifecycle   = "capi.backstage.io/lifecycle"
	AnnotationSystem      = "capi.backstage.io/system"
	AnnotationTags        = "capi.backstage.io/tags"
	AnnotationDescription = "capi.backstage.io/description"
)

// Metadata is the catalog-facing metadata carried on a cluster's
// annotations. Unannotated fields are left zero-valued; precedence against
// provider defaults is applied by the entity mapper, not here.
type Metadata struct {
	Owner       string
	Lifecycle   string
	System      string
	Description string
	Tags        []string
}

// ExtractMetadata reads the catalog annotations of a cluster into a typed
// record. The tags annotation is comma-separated; tokens are trimmed of
// surrounding whitespace and empty tokens are dropped.
func ExtractMetadata(c *Cluster) Metadata {
	metadata := Metadata{
		Owner:       c.Annotations[AnnotationOwner],
		Lifecycle:   c.Annotations[AnnotationLifecycle],
		System:      c.Annotations[AnnotationSystem],
		Description: c.Annotations[AnnotationDescription],
	}

	if raw := c.Annotations[AnnotationTags]; raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag := strings.TrimSpace(tag); tag != "" {
				metadata.Tags = append(metadata.Tags, tag)
			}
		}
	}

	return metadata
}
