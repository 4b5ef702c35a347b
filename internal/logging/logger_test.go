package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDevelopment(t *testing.T) {
	t.Parallel()

	logger, err := New(Config{Development: true})
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Debug("visible in development mode")
}

func TestNewProduction(t *testing.T) {
	t.Parallel()

	logger, err := New(Config{Development: false})
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestNewWithFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scraping.log")
	logger, err := New(Config{Development: true, FilePath: path})
	require.NoError(t, err)

	logger.Info("hello from the file core")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the file core")
}

func TestNewWithBadFilePath(t *testing.T) {
	t.Parallel()

	_, err := New(Config{FilePath: filepath.Join(t.TempDir(), "missing-dir", "x", "scraping.log")})
	assert.Error(t, err)
}
