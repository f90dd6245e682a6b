// Package status exposes the per-cluster phase snapshots recorded by the
// providers over HTTP.
package status

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/bigkevmcd/capi-catalog-provider/pkg/provider"
)

// Reporter exposes the cluster status snapshot of one provider.
type Reporter interface {
	ClusterStatuses() []provider.ClusterStatus
}

// NewHandler returns an HTTP handler serving GET /status with the aggregated
// snapshots of every reporter, in registration order.
func NewHandler(logger *zap.SugaredLogger, reporters ...Reporter) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		statuses := make([]provider.ClusterStatus, 0)
		for _, reporter := range reporters {
			statuses = append(statuses, reporter.ClusterStatuses()...)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(statuses); err != nil {
			logger.Errorw("failed to write status response", "error", err)
		}
	})

	return mux
}
