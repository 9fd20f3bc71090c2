// Package storage persists the client's durable session values (the bearer
// token and the signup-flow email) outside any view's lifetime.
package storage

import (
	"context"
	"errors"
)

// Fixed keys for the values the client keeps between runs.
const (
	TokenKey = "token"
	EmailKey = "email"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("storage key not found")

// Store is a small durable key/value store. Delete of a missing key is not an
// error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Lookup returns the value under key, or "" when it is absent.
func Lookup(ctx context.Context, s Store, key string) (string, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}
