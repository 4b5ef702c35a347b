// Package memory stores blobs in-memory for development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// BlobStore keeps blobs in a map, so the pipeline can run end to end
// without external credentials.
type BlobStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewBlobStore creates an empty in-memory store.
func NewBlobStore() *BlobStore {
	return &BlobStore{data: make(map[string][]byte)}
}

// Exists reports whether the key holds a blob.
func (s *BlobStore) Exists(_ context.Context, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok
}

// Put stores a copy of data under key.
func (s *BlobStore) Put(_ context.Context, key string, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), data...)
	return true
}

// Get returns a copy of the blob at key.
func (s *BlobStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// List returns all keys under prefix, sorted.
func (s *BlobStore) List(_ context.Context, prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0)
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Delete removes the blob at key.
func (s *BlobStore) Delete(_ context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return false
	}
	delete(s.data, key)
	return true
}
