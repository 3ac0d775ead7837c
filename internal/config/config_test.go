package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorehash/boorudex/internal/config"
)

func TestLoad_MissingFileFallsBackToDefault(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_OverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boorudex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("redis_url: redis://example:6380/1\nexclude_tags: [\"loli\"]\n"), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis://example:6380/1", cfg.RedisURL)
	assert.Equal(t, []string{"loli"}, cfg.ExcludeTags)
}
