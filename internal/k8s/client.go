package k8s

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/bigkevmcd/capi-catalog-provider/pkg/config"
)

// ClusterNotFoundError indicates that a hub cluster name has no entry in the
// cluster locator registry.
type ClusterNotFoundError struct {
	Name string
}

func (e *ClusterNotFoundError) Error() string {
	return fmt.Sprintf("cluster %q not found in any clusterLocatorMethods entry", e.Name)
}

// Clients bundles the two capability-scoped clients derived from one resolved
// hub connection: a dynamic client for custom-resource queries and a typed
// clientset for core resources.
type Clients struct {
	Dynamic dynamic.Interface
	Core    kubernetes.Interface
}

// BuildClients resolves hubClusterName against the locator registry and
// constructs both clients from the same connection parameters. No network
// call is made here; connection errors surface on first use.
func BuildClients(hubClusterName string, locator config.ClusterLocator) (*Clients, error) {
	entry, ok := locator.Lookup(hubClusterName)
	if !ok {
		return nil, &ClusterNotFoundError{Name: hubClusterName}
	}

	restConfig, err := restConfigFor(entry)
	if err != nil {
		return nil, err
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	coreClient, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return &Clients{
		Dynamic: dynamicClient,
		Core:    coreClient,
	}, nil
}

// restConfigFor builds the connection parameters for a locator entry. An
// entry carrying a service account token yields an explicit bearer-token
// config; otherwise ambient credentials are used.
func restConfigFor(entry config.HubCluster) (*rest.Config, error) {
	if entry.ServiceAccountToken == "" {
		return ambientConfig()
	}

	if entry.URL == "" {
		return nil, fmt.Errorf("cluster %q carries a serviceAccountToken but no url", entry.Name)
	}

	restConfig := &rest.Config{
		Host:        entry.URL,
		BearerToken: entry.ServiceAccountToken,
	}

	if entry.SkipTLSVerify {
		restConfig.TLSClientConfig.Insecure = true
	} else if entry.CAData != "" {
		caData, err := base64.StdEncoding.DecodeString(entry.CAData)
		if err != nil {
			return nil, fmt.Errorf("failed to decode caData for cluster %q: %w", entry.Name, err)
		}
		restConfig.TLSClientConfig.CAData = caData
	}

	return restConfig, nil
}

// ambientConfig returns the default credentials for the environment the
// process runs in: in-cluster config first, then the local kubeconfig.
func ambientConfig() (*rest.Config, error) {
	if restConfig, err := rest.InClusterConfig(); err == nil {
		return restConfig, nil
	}

	configLoadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	configLoadingRules.ExplicitPath = kubeconfigPath()

	kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		configLoadingRules,
		&clientcmd.ConfigOverrides{},
	)

	restConfig, err := kubeConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig: %w", err)
	}

	return restConfig, nil
}

// kubeconfigPath returns the path to the kubeconfig file.
func kubeconfigPath() string {
	// Check KUBECONFIG env var first
	if kubeconfig := os.Getenv("KUBECONFIG"); kubeconfig != "" {
		return kubeconfig
	}

	// Default to ~/.kube/config
	if home := homedir.HomeDir(); home != "" {
		return filepath.Join(home, ".kube", "config")
	}

	return ""
}
