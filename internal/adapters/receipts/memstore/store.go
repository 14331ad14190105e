// Package memstore guarda recibos en memoria (dev y tests).
package memstore

import (
	"context"
	"slices"
	"sync"

	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/ports/receipts"
)

type Store struct {
	mu    sync.RWMutex
	files map[string][]byte
}

var _ receipts.Store = (*Store)(nil)

func New() *Store {
	return &Store{files: map[string][]byte{}}
}

func (s *Store) Put(ctx context.Context, key string, contentType string, body []byte) (string, error) {
	if key == "" {
		return "", apperr.Invalid("key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = slices.Clone(body)
	return "mem://" + key, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.files[key]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return slices.Clone(b), nil
}
