// Package gcs provides a blob store backed by Google Cloud Storage.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

// Config captures the parameters required to connect to GCS.
type Config struct {
	Bucket string `mapstructure:"bucket" yaml:"bucket"`
}

// BlobStore reads and writes artifacts in a configured GCS bucket.
// Operations are best-effort: failures are logged and reported through
// the return value rather than propagated.
type BlobStore struct {
	client *storage.Client
	bucket string
	logger *zap.Logger
}

// New creates a GCS-backed blob store.
func New(client *storage.Client, cfg Config, logger *zap.Logger) (*BlobStore, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlobStore{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// Exists reports whether an object exists at key.
func (s *BlobStore) Exists(ctx context.Context, key string) bool {
	_, err := s.client.Bucket(s.bucket).Object(key).Attrs(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotExist) {
			s.logger.Warn("failed to stat object", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return true
}

// Put uploads data to the configured bucket.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte) bool {
	if strings.TrimSpace(key) == "" {
		s.logger.Warn("empty object key")
		return false
	}
	writer := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		s.logger.Warn("failed to write object", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := writer.Close(); err != nil {
		s.logger.Warn("failed to close object writer", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Get downloads the object stored at key.
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, bool) {
	reader, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotExist) {
			s.logger.Warn("failed to open object", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	defer func() { _ = reader.Close() }()
	data, err := io.ReadAll(reader)
	if err != nil {
		s.logger.Warn("failed to read object", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, true
}

// List returns all object keys under prefix, sorted.
func (s *BlobStore) List(ctx context.Context, prefix string) []string {
	keys := make([]string, 0)
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			s.logger.Warn("failed to list objects", zap.String("prefix", prefix), zap.Error(err))
			break
		}
		keys = append(keys, attrs.Name)
	}
	sort.Strings(keys)
	return keys
}

// Delete removes the object stored at key.
func (s *BlobStore) Delete(ctx context.Context, key string) bool {
	if err := s.client.Bucket(s.bucket).Object(key).Delete(ctx); err != nil {
		if !errors.Is(err, storage.ErrObjectNotExist) {
			s.logger.Warn("failed to delete object", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return true
}
