package catalog

// Entity constants for projected cluster records.
const (
	EntityAPIVersion = "backstage.io/v1alpha1"
	KindResource     = "Resource"

	// ResourceTypeKubernetesCluster is the spec.type of every projected
	// cluster entity.
	ResourceTypeKubernetesCluster = "kubernetes-cluster"

	// DefaultOwner is used when neither a cluster annotation nor a provider
	// default supplies an owner.
	DefaultOwner = "guest"
)

// Well-known entity annotations.
const (
	AnnotationManagedByLocation       = "backstage.io/managed-by-location"
	AnnotationManagedByOriginLocation = "backstage.io/managed-by-origin-location"

	// AnnotationCAPIProvider carries the infrastructure provider kind of
	// the source cluster. Always present, possibly empty.
	AnnotationCAPIProvider = "capi.backstage.io/provider"

	// API-server connection annotations, set only when a kubeconfig secret
	// resolved for the cluster.
	AnnotationAPIServer    = "kubernetes.io/api-server"
	AnnotationAPIServerCA  = "kubernetes.io/api-server-certificate-authority"
	AnnotationAuthProvider = "kubernetes.io/auth-provider"

	// AuthProviderOIDC is the constant auth-provider marker written
	// alongside resolved API-server details.
	AuthProviderOIDC = "oidc"
)

// Entity is a catalog record, keyed by (kind, name) within the catalog.
type Entity struct {
	APIVersion string       `json:"apiVersion"`
	Kind       string       `json:"kind"`
	Metadata   EntityMeta   `json:"metadata"`
	Spec       ResourceSpec `json:"spec"`
}

// EntityMeta holds the identifying metadata of an entity.
type EntityMeta struct {
	Name        string            `json:"name"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
}

// ResourceSpec is the spec of a Resource-kind entity. Lifecycle and System
// are omitted from the wire form when unset.
type ResourceSpec struct {
	Type      string `json:"type"`
	Owner     string `json:"owner"`
	Lifecycle string `json:"lifecycle,omitempty"`
	System    string `json:"system,omitempty"`
}

// DeferredEntity pairs an entity with the location key it is grouped under.
type DeferredEntity struct {
	Entity      Entity `json:"entity"`
	LocationKey string `json:"locationKey"`
}

// MutationTypeFull declares the complete current entity set for a location
// key; entities previously recorded under that key but absent from the set
// are retired by the catalog.
const MutationTypeFull = "full"

// Mutation is one catalog update.
type Mutation struct {
	Type     string           `json:"type"`
	Entities []DeferredEntity `json:"entities"`
}

// NewFullMutation builds a full-replacement mutation grouping every entity
// under locationKey. An empty entity list is valid and clears the key.
func NewFullMutation(locationKey string, entities []Entity) *Mutation {
	deferred := make([]DeferredEntity, 0, len(entities))
	for _, entity := range entities {
		deferred = append(deferred, DeferredEntity{
			Entity:      entity,
			LocationKey: locationKey,
		})
	}

	return &Mutation{
		Type:     MutationTypeFull,
		Entities: deferred,
	}
}
