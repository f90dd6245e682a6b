// Package kubeconfig resolves the companion credentials secret of a CAPI
// cluster into API-server connection details.
//
// Resolution is best effort: a missing secret, a wrong secret type, or a
// malformed payload all degrade to absent credentials rather than failing the
// refresh cycle.
package kubeconfig

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

const (
	// SecretType is the fixed type marker carried by CAPI kubeconfig
	// secrets.
	SecretType corev1.SecretType = "cluster.x-k8s.io/secret"

	// secretKey is the data key holding the embedded kubeconfig document.
	secretKey = "value"

	// DefaultNamespace is used when a cluster object carries no namespace.
	DefaultNamespace = "default"
)

// Credentials holds the API-server connection details extracted from a
// cluster's kubeconfig secret.
type Credentials struct {
	Server string
	CAData []byte
}

// SecretName returns the conventional name of a cluster's kubeconfig secret.
func SecretName(clusterName string) string {
	return fmt.Sprintf("%s-kubeconfig", clusterName)
}

// Resolve fetches and decodes the kubeconfig secret for the named cluster.
// It returns nil when the secret is missing, carries the wrong type, or
// cannot be decoded; absence is a normal outcome and never an error.
func Resolve(ctx context.Context, client kubernetes.Interface, logger *zap.SugaredLogger, namespace, clusterName string) *Credentials {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	secretName := SecretName(clusterName)
	logger = logger.With("secret", secretName, "namespace", namespace)

	secret, err := client.CoreV1().Secrets(namespace).Get(ctx, secretName, metav1.GetOptions{})
	if err != nil {
		logger.Infow("no kubeconfig secret for cluster", "cluster", clusterName, "error", err)
		return nil
	}

	if secret.Type != SecretType {
		logger.Infow("kubeconfig secret has unexpected type", "type", secret.Type)
		return nil
	}

	payload, ok := secret.Data[secretKey]
	if !ok {
		logger.Infow("kubeconfig secret is missing the value key")
		return nil
	}

	clientConfig, err := clientcmd.Load(payload)
	if err != nil {
		logger.Infow("failed to decode kubeconfig payload", "error", err)
		return nil
	}

	kubeContext, ok := clientConfig.Contexts[clientConfig.CurrentContext]
	if !ok {
		logger.Infow("kubeconfig has no usable current context", "context", clientConfig.CurrentContext)
		return nil
	}

	clusterEntry, ok := clientConfig.Clusters[kubeContext.Cluster]
	if !ok {
		logger.Infow("kubeconfig references an unknown cluster", "cluster", kubeContext.Cluster)
		return nil
	}

	return &Credentials{
		Server: clusterEntry.Server,
		CAData: clusterEntry.CertificateAuthorityData,
	}
}
