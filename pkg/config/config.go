package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

const (
	// providersKey is the configuration node holding the CAPI provider
	// definitions, either a single provider object or a map of named
	// provider objects.
	providersKey = "catalog.providers.capi"

	// locatorKey is the configuration node holding the cluster locator
	// registry.
	locatorKey = "kubernetes.clusterLocatorMethods"

	// DefaultProviderID is used when the configuration contains exactly one
	// unnamed provider.
	DefaultProviderID = "default"
)

// Load reads the configuration file at path into a Viper instance, with
// CAPI_-prefixed environment variables taking precedence.
func Load(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("CAPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return v, nil
}

// ResolveProviders parses the catalog.providers.capi node into provider
// descriptors.
//
// An absent node yields an empty list. A node carrying hubClusterName
// directly is treated as a single provider with id "default"; otherwise every
// child key is parsed as an independent provider named after its key.
func ResolveProviders(v *viper.Viper) ([]ProviderConfig, error) {
	if !v.IsSet(providersKey) {
		return nil, nil
	}

	node := v.Sub(providersKey)
	if node == nil {
		return nil, nil
	}

	if node.IsSet("hubClusterName") {
		provider, err := parseProvider(DefaultProviderID, node)
		if err != nil {
			return nil, err
		}
		return []ProviderConfig{provider}, nil
	}

	ids := make([]string, 0, len(v.GetStringMap(providersKey)))
	for id := range v.GetStringMap(providersKey) {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	providers := make([]ProviderConfig, 0, len(ids))
	for _, id := range ids {
		child := node.Sub(id)
		if child == nil {
			child = viper.New()
		}

		provider, err := parseProvider(id, child)
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}

	return providers, nil
}

func parseProvider(id string, node *viper.Viper) (ProviderConfig, error) {
	hubClusterName := node.GetString("hubClusterName")
	if hubClusterName == "" {
		return ProviderConfig{}, &ConfigError{
			Provider: id,
			Field:    "hubClusterName",
			Reason:   "missing required field",
		}
	}

	provider := ProviderConfig{
		ID:             id,
		HubClusterName: hubClusterName,
	}

	if node.IsSet("schedule") {
		schedule, err := parseSchedule(id, node)
		if err != nil {
			return ProviderConfig{}, err
		}
		provider.Schedule = schedule
	}

	if node.IsSet("defaults") {
		provider.Defaults = Defaults{
			ClusterOwner: node.GetString("defaults.clusterOwner"),
			System:       node.GetString("defaults.system"),
			Lifecycle:    node.GetString("defaults.lifecycle"),
			Tags:         node.GetStringSlice("defaults.tags"),
		}
	}

	return provider, nil
}

func parseSchedule(id string, node *viper.Viper) (*Schedule, error) {
	frequency := node.GetDuration("schedule.frequency")
	if frequency <= 0 {
		return nil, &ConfigError{
			Provider: id,
			Field:    "schedule.frequency",
			Reason:   "must be a positive duration",
		}
	}

	timeout := node.GetDuration("schedule.timeout")
	if timeout <= 0 {
		return nil, &ConfigError{
			Provider: id,
			Field:    "schedule.timeout",
			Reason:   "must be a positive duration",
		}
	}

	return &Schedule{
		Frequency:    frequency,
		Timeout:      timeout,
		InitialDelay: node.GetDuration("schedule.initialDelay"),
	}, nil
}

// ResolveLocator parses the kubernetes.clusterLocatorMethods node into the
// cluster locator registry. An absent node yields an empty registry; lookup
// failures surface later, when a provider asks for its hub cluster.
func ResolveLocator(v *viper.Viper) (ClusterLocator, error) {
	var methods []ClusterLocatorMethod
	if err := v.UnmarshalKey(locatorKey, &methods); err != nil {
		return ClusterLocator{}, fmt.Errorf("failed to parse cluster locator methods: %w", err)
	}

	return ClusterLocator{Methods: methods}, nil
}

// Lookup returns the hub cluster entry matching name, searching every
// locator method in order.
func (l ClusterLocator) Lookup(name string) (HubCluster, bool) {
	for _, method := range l.Methods {
		for _, cluster := range method.Clusters {
			if cluster.Name == name {
				return cluster, true
			}
		}
	}

	return HubCluster{}, false
}
