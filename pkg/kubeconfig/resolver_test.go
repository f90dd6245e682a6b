package kubeconfig

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

const testKubeConfig = `apiVersion: v1
kind: Config
clusters:
- name: test-cluster
  cluster:
    server: https://cluster.example.com:6443
    certificate-authority-data: Y2EtZGF0YQ==
contexts:
- name: test-context
  context:
    cluster: test-cluster
    user: test-user
current-context: test-context
users:
- name: test-user
  user:
    token: test-token
`

func newKubeConfigSecret(name, namespace string, secretType corev1.SecretType, data map[string][]byte) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Type: secretType,
		Data: data,
	}
}

func TestResolve(t *testing.T) {
	client := fake.NewSimpleClientset(newKubeConfigSecret(
		"test-cluster-kubeconfig", "clusters", SecretType,
		map[string][]byte{"value": []byte(testKubeConfig)},
	))

	credentials := Resolve(context.Background(), client, zap.NewNop().Sugar(), "clusters", "test-cluster")

	require.NotNil(t, credentials)
	assert.Equal(t, "https://cluster.example.com:6443", credentials.Server)
	assert.Equal(t, []byte("ca-data"), credentials.CAData)
}

func TestResolveDefaultNamespace(t *testing.T) {
	client := fake.NewSimpleClientset(newKubeConfigSecret(
		"test-cluster-kubeconfig", "default", SecretType,
		map[string][]byte{"value": []byte(testKubeConfig)},
	))

	credentials := Resolve(context.Background(), client, zap.NewNop().Sugar(), "", "test-cluster")

	require.NotNil(t, credentials)
	assert.Equal(t, "https://cluster.example.com:6443", credentials.Server)
}

func TestResolveAbsent(t *testing.T) {
	tests := []struct {
		name   string
		secret *corev1.Secret
	}{
		{
			name:   "secret missing",
			secret: nil,
		},
		{
			name: "wrong secret type",
			secret: newKubeConfigSecret(
				"test-cluster-kubeconfig", "clusters", corev1.SecretTypeOpaque,
				map[string][]byte{"value": []byte(testKubeConfig)},
			),
		},
		{
			name: "missing value key",
			secret: newKubeConfigSecret(
				"test-cluster-kubeconfig", "clusters", SecretType,
				map[string][]byte{"kubeconfig": []byte(testKubeConfig)},
			),
		},
		{
			name: "malformed payload",
			secret: newKubeConfigSecret(
				"test-cluster-kubeconfig", "clusters", SecretType,
				map[string][]byte{"value": []byte("not: [valid")},
			),
		},
		{
			name: "kubeconfig without current context",
			secret: newKubeConfigSecret(
				"test-cluster-kubeconfig", "clusters", SecretType,
				map[string][]byte{"value": []byte("apiVersion: v1\nkind: Config\n")},
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := fake.NewSimpleClientset()
			if tt.secret != nil {
				client = fake.NewSimpleClientset(tt.secret)
			}

			credentials := Resolve(context.Background(), client, zap.NewNop().Sugar(), "clusters", "test-cluster")

			assert.Nil(t, credentials)
		})
	}
}

func TestSecretName(t *testing.T) {
	assert.Equal(t, "prod-cluster-kubeconfig", SecretName("prod-cluster"))
}
