// Package local implements a local filesystem blob store.
package local

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Config captures the parameters for the local filesystem blob store.
type Config struct {
	// BaseDir is the root directory where blobs will be stored.
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`
}

// BlobStore writes artifacts to the local filesystem. Keys map to file
// paths under the base directory, so callers can use "/"-separated keys
// on any platform.
type BlobStore struct {
	baseDir string
	logger  *zap.Logger
}

// New creates a new local filesystem-backed blob store.
func New(cfg Config, logger *zap.Logger) (*BlobStore, error) {
	if strings.TrimSpace(cfg.BaseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(cfg.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			if mkErr := os.MkdirAll(cfg.BaseDir, 0o750); mkErr != nil {
				return nil, fmt.Errorf("failed to create base directory: %w", mkErr)
			}
		} else {
			return nil, fmt.Errorf("failed to stat base directory: %w", err)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("base directory path is not a directory")
	}

	return &BlobStore{baseDir: cfg.BaseDir, logger: logger}, nil
}

// resolve maps a key to a filesystem path under baseDir and rejects
// keys that would escape it.
func (s *BlobStore) resolve(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("key is required")
	}
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	cleanBase := filepath.Clean(s.baseDir)
	if !strings.HasPrefix(filepath.Clean(fullPath), cleanBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected")
	}
	return fullPath, nil
}

// Exists reports whether a regular file exists for key.
func (s *BlobStore) Exists(_ context.Context, key string) bool {
	path, err := s.resolve(key)
	if err != nil {
		s.logger.Warn("invalid blob key", zap.String("key", key), zap.Error(err))
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Put writes data to a file under the base directory, creating parent
// directories as needed.
func (s *BlobStore) Put(_ context.Context, key string, data []byte) bool {
	path, err := s.resolve(key)
	if err != nil {
		s.logger.Warn("invalid blob key", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		s.logger.Warn("failed to create parent directories",
			zap.String("key", key), zap.Error(err))
		return false
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		s.logger.Warn("failed to write blob", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Get reads the file stored for key.
func (s *BlobStore) Get(_ context.Context, key string) ([]byte, bool) {
	path, err := s.resolve(key)
	if err != nil {
		s.logger.Warn("invalid blob key", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read blob", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

// List walks the base directory and returns all keys under prefix, sorted.
func (s *BlobStore) List(_ context.Context, prefix string) []string {
	keys := make([]string, 0)
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, relErr := filepath.Rel(s.baseDir, path)
		if relErr != nil {
			return relErr
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to list blobs", zap.String("prefix", prefix), zap.Error(err))
	}
	sort.Strings(keys)
	return keys
}

// Delete removes the file stored for key.
func (s *BlobStore) Delete(_ context.Context, key string) bool {
	path, err := s.resolve(key)
	if err != nil {
		s.logger.Warn("invalid blob key", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to delete blob", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return true
}
