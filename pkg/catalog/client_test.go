package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFullMutation(t *testing.T) {
	entities := []Entity{
		{Metadata: EntityMeta{Name: "cluster-a"}},
		{Metadata: EntityMeta{Name: "cluster-b"}},
	}

	mutation := NewFullMutation("CAPIClusterProvider:default", entities)

	assert.Equal(t, MutationTypeFull, mutation.Type)
	require.Len(t, mutation.Entities, 2)
	for i, deferred := range mutation.Entities {
		assert.Equal(t, entities[i], deferred.Entity)
		assert.Equal(t, "CAPIClusterProvider:default", deferred.LocationKey)
	}
}

func TestNewFullMutationEmpty(t *testing.T) {
	mutation := NewFullMutation("CAPIClusterProvider:default", nil)

	assert.Equal(t, MutationTypeFull, mutation.Type)
	assert.NotNil(t, mutation.Entities)
	assert.Empty(t, mutation.Entities)
}

func TestHTTPConnectionApplyMutation(t *testing.T) {
	var received Mutation
	var contentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	connection := NewHTTPConnection(srv.URL, zap.NewNop().Sugar())
	mutation := NewFullMutation("CAPIClusterProvider:default", []Entity{
		{
			APIVersion: EntityAPIVersion,
			Kind:       KindResource,
			Metadata:   EntityMeta{Name: "cluster-a"},
			Spec:       ResourceSpec{Type: ResourceTypeKubernetesCluster, Owner: DefaultOwner},
		},
	})

	require.NoError(t, connection.ApplyMutation(context.Background(), mutation))

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, MutationTypeFull, received.Type)
	require.Len(t, received.Entities, 1)
	assert.Equal(t, "cluster-a", received.Entities[0].Entity.Metadata.Name)
	assert.Equal(t, "CAPIClusterProvider:default", received.Entities[0].LocationKey)
}

func TestHTTPConnectionApplyMutationRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "malformed entity", http.StatusBadRequest)
	}))
	defer srv.Close()

	connection := NewHTTPConnection(srv.URL, zap.NewNop().Sugar())

	err := connection.ApplyMutation(context.Background(), NewFullMutation("CAPIClusterProvider:default", nil))

	assert.ErrorContains(t, err, "catalog rejected mutation")
	assert.ErrorContains(t, err, "malformed entity")
}

func TestEntitySerializationOmitsUnsetFields(t *testing.T) {
	entity := Entity{
		APIVersion: EntityAPIVersion,
		Kind:       KindResource,
		Metadata:   EntityMeta{Name: "cluster-a"},
		Spec:       ResourceSpec{Type: ResourceTypeKubernetesCluster, Owner: DefaultOwner},
	}

	out, err := json.Marshal(entity)
	require.NoError(t, err)

	// Unset lifecycle/system/description/tags must not appear on the wire,
	// since consumers treat absence differently from empty values.
	assert.NotContains(t, string(out), "lifecycle")
	assert.NotContains(t, string(out), "system")
	assert.NotContains(t, string(out), "description")
	assert.NotContains(t, string(out), "tags")
}
