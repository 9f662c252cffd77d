// Package storage defines the persistent key-value contract the tracker
// records its cadence markers against, plus an in-memory implementation for
// tests and hosts that opt out of persistence.
package storage

import (
	"context"
	"sync"

	"golang.org/x/xerrors"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
// Callers may treat it as "no cached value". Any other error means the read
// itself failed and must not be interpreted as absence.
var ErrNotFound = xerrors.New("storage: key not found")

// Store is an app-scoped persistent key-value store. Implementations must
// serialize operations on a single key; no ordering across keys is assumed.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Memory is a Store backed by a plain map.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
