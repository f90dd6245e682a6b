// Package provider implements the CAPI cluster catalog provider: the
// reconciliation loop that discovers CAPI Cluster resources on a hub cluster
// and projects them into the catalog as full-replacement entity sets.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/bigkevmcd/capi-catalog-provider/internal/k8s"
	"github.com/bigkevmcd/capi-catalog-provider/pkg/catalog"
	"github.com/bigkevmcd/capi-catalog-provider/pkg/cluster"
	"github.com/bigkevmcd/capi-catalog-provider/pkg/config"
	"github.com/bigkevmcd/capi-catalog-provider/pkg/kubeconfig"
	"github.com/bigkevmcd/capi-catalog-provider/pkg/scheduler"
)

// ErrNotInitialized is returned when Refresh is invoked before Connect has
// bound a catalog connection.
var ErrNotInitialized = errors.New("provider is not initialized: Connect must be called before Refresh")

// ClusterStatus is the per-cluster snapshot recorded on each successful
// fetch, consumed by the status read-path.
type ClusterStatus struct {
	Name                string `json:"name"`
	Namespace           string `json:"namespace"`
	Cluster             string `json:"cluster"`
	Phase               string `json:"phase"`
	ControlPlaneReady   bool   `json:"controlPlaneReady"`
	InfrastructureReady bool   `json:"infrastructureReady"`
}

// CAPIClusterProvider projects the CAPI clusters of one hub into the
// catalog. It is constructed disconnected; Connect binds the catalog
// connection and registers the recurring refresh task. There is no
// disconnect: a connected provider lives for the process lifetime.
type CAPIClusterProvider struct {
	id             string
	hubClusterName string
	schedule       config.Schedule
	defaults       config.Defaults
	clients        *k8s.Clients
	logger         *zap.SugaredLogger

	mu         sync.RWMutex
	connection catalog.Connection
	statuses   []ClusterStatus
}

// New constructs a disconnected provider. The refresh schedule comes from
// the provider configuration when present, otherwise from defaultSchedule;
// having neither is a configuration error.
func New(cfg config.ProviderConfig, clients *k8s.Clients, defaultSchedule *config.Schedule, logger *zap.SugaredLogger) (*CAPIClusterProvider, error) {
	schedule := cfg.Schedule
	if schedule == nil {
		schedule = defaultSchedule
	}
	if schedule == nil {
		return nil, &config.ConfigError{
			Provider: cfg.ID,
			Field:    "schedule",
			Reason:   "no schedule configured and no default schedule supplied",
		}
	}

	return &CAPIClusterProvider{
		id:             cfg.ID,
		hubClusterName: cfg.HubClusterName,
		schedule:       *schedule,
		defaults:       cfg.Defaults,
		clients:        clients,
		logger:         logger.With("provider", fmt.Sprintf("CAPIClusterProvider:%s", cfg.ID)),
	}, nil
}

// Name returns the provider's identity string, used as the location key of
// its mutations and as the origin/location annotation of every entity it
// emits.
func (p *CAPIClusterProvider) Name() string {
	return fmt.Sprintf("CAPIClusterProvider:%s", p.id)
}

// Connect binds the catalog connection and registers the recurring refresh
// task with the runner. It may be called once.
func (p *CAPIClusterProvider) Connect(connection catalog.Connection, runner scheduler.Interface) error {
	p.mu.Lock()
	if p.connection != nil {
		p.mu.Unlock()
		return fmt.Errorf("provider %s is already connected", p.Name())
	}
	p.connection = connection
	p.mu.Unlock()

	return runner.ScheduleTask(scheduler.Task{
		ID:           fmt.Sprintf("%s:refresh", p.Name()),
		Frequency:    p.schedule.Frequency,
		Timeout:      p.schedule.Timeout,
		InitialDelay: p.schedule.InitialDelay,
		Fn:           p.Refresh,
	})
}

// Refresh runs one full cycle: fetch every CAPI cluster from the hub,
// resolve credentials concurrently, map each cluster to an entity and submit
// the complete set as one full-replacement mutation.
//
// A fetch failure aborts the cycle with nothing submitted, leaving the
// catalog's previous state for this provider untouched. Individual
// credential failures degrade only their own entity.
func (p *CAPIClusterProvider) Refresh(ctx context.Context) error {
	p.mu.RLock()
	connection := p.connection
	p.mu.RUnlock()

	if connection == nil {
		return ErrNotInitialized
	}

	entities, clusters, err := p.collectEntities(ctx)
	if err != nil {
		return err
	}

	if err := connection.ApplyMutation(ctx, catalog.NewFullMutation(p.Name(), entities)); err != nil {
		return fmt.Errorf("failed to apply catalog mutation: %w", err)
	}

	p.recordStatuses(clusters)
	p.logger.Infow("refresh cycle complete", "clusters", len(clusters))

	return nil
}

// Preview maps one cycle's entities without submitting anything. It does not
// require a bound connection.
func (p *CAPIClusterProvider) Preview(ctx context.Context) ([]catalog.Entity, error) {
	entities, _, err := p.collectEntities(ctx)
	return entities, err
}

func (p *CAPIClusterProvider) collectEntities(ctx context.Context) ([]catalog.Entity, []*cluster.Cluster, error) {
	clusters, err := cluster.List(ctx, p.clients.Dynamic)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch clusters from hub %q: %w", p.hubClusterName, err)
	}

	credentials := p.resolveCredentials(ctx, clusters)

	entities := make([]catalog.Entity, 0, len(clusters))
	for _, c := range clusters {
		entities = append(entities, MapEntity(p.Name(), p.defaults, c, credentials[clusterKey(c)]))
	}

	return entities, clusters, nil
}

// resolveCredentials fans out one kubeconfig lookup per cluster and joins
// the keyed results. Lookups are independent; a failed lookup leaves its key
// with absent credentials and never blocks its siblings.
func (p *CAPIClusterProvider) resolveCredentials(ctx context.Context, clusters []*cluster.Cluster) map[string]*kubeconfig.Credentials {
	type keyed struct {
		key         string
		credentials *kubeconfig.Credentials
	}

	results := make(chan keyed, len(clusters))

	var wg sync.WaitGroup
	for _, c := range clusters {
		wg.Add(1)
		go func(c *cluster.Cluster) {
			defer wg.Done()
			results <- keyed{
				key:         clusterKey(c),
				credentials: kubeconfig.Resolve(ctx, p.clients.Core, p.logger, c.Namespace, c.Name),
			}
		}(c)
	}
	wg.Wait()
	close(results)

	credentials := make(map[string]*kubeconfig.Credentials, len(clusters))
	for r := range results {
		credentials[r.key] = r.credentials
	}

	return credentials
}

func (p *CAPIClusterProvider) recordStatuses(clusters []*cluster.Cluster) {
	statuses := make([]ClusterStatus, 0, len(clusters))
	for _, c := range clusters {
		statuses = append(statuses, ClusterStatus{
			Name:                c.Name,
			Namespace:           c.Namespace,
			Cluster:             p.hubClusterName,
			Phase:               c.Status.Phase,
			ControlPlaneReady:   c.Status.ControlPlaneReady,
			InfrastructureReady: c.Status.InfrastructureReady,
		})
	}

	p.mu.Lock()
	p.statuses = statuses
	p.mu.Unlock()
}

// ClusterStatuses returns the snapshot recorded by the most recent
// successful cycle.
func (p *CAPIClusterProvider) ClusterStatuses() []ClusterStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return append([]ClusterStatus(nil), p.statuses...)
}

func clusterKey(c *cluster.Cluster) string {
	return fmt.Sprintf("%s/%s", c.Namespace, c.Name)
}
