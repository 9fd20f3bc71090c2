package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/daap14/questadmin/internal/k8s"
)

// SecretStore keeps values as data keys of a single Kubernetes Secret. Each
// write is a read-modify-apply of the whole Secret.
type SecretStore struct {
	mgr       k8s.SecretManager
	namespace string
	name      string

	mu sync.Mutex
}

// NewSecretStore creates a SecretStore for namespace/name.
func NewSecretStore(mgr k8s.SecretManager, namespace, name string) *SecretStore {
	return &SecretStore{mgr: mgr, namespace: namespace, name: name}
}

func (s *SecretStore) Get(ctx context.Context, key string) (string, error) {
	data, err := s.mgr.GetSecret(ctx, s.namespace, s.name)
	if err != nil {
		if errors.Is(err, k8s.ErrSecretNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	v, ok := data[key]
	if !ok {
		return "", ErrNotFound
	}
	return string(v), nil
}

func (s *SecretStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.current(ctx)
	if err != nil {
		return err
	}
	data[key] = []byte(value)
	if err := s.mgr.ApplySecret(ctx, s.namespace, s.name, data); err != nil {
		return fmt.Errorf("storing %s: %w", key, err)
	}
	return nil
}

func (s *SecretStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.current(ctx)
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	if err := s.mgr.ApplySecret(ctx, s.namespace, s.name, data); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

func (s *SecretStore) current(ctx context.Context) (map[string][]byte, error) {
	data, err := s.mgr.GetSecret(ctx, s.namespace, s.name)
	if errors.Is(err, k8s.ErrSecretNotFound) {
		return map[string][]byte{}, nil
	}
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string][]byte{}
	}
	return data, nil
}
