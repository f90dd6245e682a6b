package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bigkevmcd/capi-catalog-provider/pkg/provider"
)

type staticReporter struct {
	statuses []provider.ClusterStatus
}

func (r *staticReporter) ClusterStatuses() []provider.ClusterStatus {
	return r.statuses
}

func TestHandlerAggregatesReporters(t *testing.T) {
	handler := NewHandler(zap.NewNop().Sugar(),
		&staticReporter{statuses: []provider.ClusterStatus{
			{
				Name:                "cluster-a",
				Namespace:           "team-a",
				Cluster:             "prod-hub",
				Phase:               "Provisioned",
				ControlPlaneReady:   true,
				InfrastructureReady: true,
			},
		}},
		&staticReporter{statuses: []provider.ClusterStatus{
			{Name: "cluster-b", Namespace: "team-b", Cluster: "staging-hub", Phase: "Provisioning"},
		}},
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var statuses []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statuses))
	require.Len(t, statuses, 2)

	assert.Equal(t, map[string]interface{}{
		"name":                "cluster-a",
		"namespace":           "team-a",
		"cluster":             "prod-hub",
		"phase":               "Provisioned",
		"controlPlaneReady":   true,
		"infrastructureReady": true,
	}, statuses[0])
	assert.Equal(t, "cluster-b", statuses[1]["name"])
}

func TestHandlerEmpty(t *testing.T) {
	handler := NewHandler(zap.NewNop().Sugar())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandlerRejectsOtherPaths(t *testing.T) {
	handler := NewHandler(zap.NewNop().Sugar())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
