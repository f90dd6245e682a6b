package config

import (
	"fmt"
	"time"
)

// ProviderConfig describes one hub-cluster-to-catalog projection pipeline.
// It is parsed once at startup and is immutable afterwards.
type ProviderConfig struct {
	// ID identifies the provider within a run. Defaults to "default" when
	// only a single provider is configured.
	ID string

	// HubClusterName names an entry in the cluster locator registry.
	HubClusterName string

	// Schedule describes the refresh cadence. Optional; when nil a
	// process-wide schedule must be supplied at construction time.
	Schedule *Schedule

	// Defaults supplies fallback entity fields for clusters that carry no
	// overriding annotations.
	Defaults Defaults
}

// Schedule describes the recurrence of the refresh task.
type Schedule struct {
	Frequency    time.Duration
	Timeout      time.Duration
	InitialDelay time.Duration
}

// Defaults holds the provider-level fallback values applied during entity
// mapping when a cluster annotation is absent.
type Defaults struct {
	ClusterOwner string
	System       string
	Lifecycle    string
	Tags         []string
}

// ClusterLocator is the registry used to resolve a hub cluster name into
// connection parameters.
type ClusterLocator struct {
	Methods []ClusterLocatorMethod
}

// ClusterLocatorMethod is one entry of the locator registry, carrying a list
// of named clusters.
type ClusterLocatorMethod struct {
	Type     string       `mapstructure:"type"`
	Clusters []HubCluster `mapstructure:"clusters"`
}

// HubCluster holds the connection parameters for a single hub cluster.
type HubCluster struct {
	Name                string `mapstructure:"name"`
	URL                 string `mapstructure:"url"`
	ServiceAccountToken string `mapstructure:"serviceAccountToken"`
	CAData              string `mapstructure:"caData"`
	SkipTLSVerify       bool   `mapstructure:"skipTLSVerify"`
}

// ConfigError indicates an invalid or incomplete provider configuration. It
// is raised synchronously at startup, never during a refresh cycle.
type ConfigError struct {
	Provider string
	Field    string
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("capi provider %q: field %q: %s", e.Provider, e.Field, e.Reason)
}
