package k8s

import (
	"context"
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
)

var secretGVR = schema.GroupVersionResource{
	Group:    "",
	Version:  "v1",
	Resource: "secrets",
}

// ErrSecretNotFound is returned when the requested Secret does not exist.
var ErrSecretNotFound = errors.New("secret not found")

// SecretManager reads and writes opaque Secrets.
type SecretManager interface {
	GetSecret(ctx context.Context, namespace, name string) (map[string][]byte, error)
	ApplySecret(ctx context.Context, namespace, name string, data map[string][]byte) error
}

// Manager implements SecretManager using the Kubernetes dynamic client.
type Manager struct {
	dynamic dynamic.Interface
}

// NewManager creates a SecretManager from the existing Client.
func (c *Client) NewManager() *Manager {
	return &Manager{dynamic: c.dynamic}
}

// NewManagerForDynamic creates a Manager over any dynamic client.
func NewManagerForDynamic(dyn dynamic.Interface) *Manager {
	return &Manager{dynamic: dyn}
}

// GetSecret reads a Kubernetes Secret and returns its data.
func (m *Manager) GetSecret(ctx context.Context, namespace, name string) (map[string][]byte, error) {
	obj, err := m.dynamic.Resource(secretGVR).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if k8serrors.IsNotFound(err) {
			return nil, ErrSecretNotFound
		}
		return nil, fmt.Errorf("getting secret %s/%s: %w", namespace, name, err)
	}

	var secret corev1.Secret
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(obj.Object, &secret); err != nil {
		return nil, fmt.Errorf("converting secret %s/%s: %w", namespace, name, err)
	}

	if secret.Data == nil {
		secret.Data = map[string][]byte{}
	}
	return secret.Data, nil
}

// ApplySecret creates or replaces an Opaque Secret holding data.
func (m *Manager) ApplySecret(ctx context.Context, namespace, name string, data map[string][]byte) error {
	secret := &corev1.Secret{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    map[string]string{"app.kubernetes.io/managed-by": "questadmin"},
		},
		Type: corev1.SecretTypeOpaque,
		Data: data,
	}

	raw, err := runtime.DefaultUnstructuredConverter.ToUnstructured(secret)
	if err != nil {
		return fmt.Errorf("converting secret %s/%s: %w", namespace, name, err)
	}

	return m.apply(ctx, secretGVR, &unstructured.Unstructured{Object: raw})
}

// apply creates a resource; if it already exists, it updates it.
func (m *Manager) apply(ctx context.Context, gvr schema.GroupVersionResource, obj *unstructured.Unstructured) error {
	namespace := obj.GetNamespace()
	name := obj.GetName()

	resource := m.dynamic.Resource(gvr).Namespace(namespace)

	_, err := resource.Create(ctx, obj, metav1.CreateOptions{})
	if err == nil {
		return nil
	}

	if !k8serrors.IsAlreadyExists(err) {
		return fmt.Errorf("creating %s %s/%s: %w", gvr.Resource, namespace, name, err)
	}

	existing, err := resource.Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("getting existing %s %s/%s: %w", gvr.Resource, namespace, name, err)
	}

	obj.SetResourceVersion(existing.GetResourceVersion())
	_, err = resource.Update(ctx, obj, metav1.UpdateOptions{})
	if err != nil {
		return fmt.Errorf("updating %s %s/%s: %w", gvr.Resource, namespace, name, err)
	}

	return nil
}
