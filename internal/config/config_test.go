package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigMatchesPipelineDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	opts := cfg.Options()
	assert.Equal(t, 10000, opts.MaxFiles)
	assert.True(t, opts.EnableLayer2)
	assert.Equal(t, 10*time.Second, opts.FileTimeout)
	assert.Equal(t, 10, opts.TopN)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".scopemap.yaml")
	content := `analysis:
  exclude_paths:
    - "generated/**"
  max_files: 500
  enable_layer2: false
  workers: 4
  file_timeout_seconds: 3
  top_functions: 5
output:
  format: json
  max_entries: 20
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"generated/**"}, cfg.Analysis.ExcludePaths)
	assert.Equal(t, 500, cfg.Analysis.MaxFiles)
	assert.False(t, cfg.Analysis.EnableLayer2)
	assert.Equal(t, "json", cfg.Output.Format)

	opts := cfg.Options()
	assert.Equal(t, 4, opts.Workers)
	assert.Equal(t, 3*time.Second, opts.FileTimeout)
	assert.Equal(t, 5, opts.TopN)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".scopemap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: xml\n"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", ".scopemap.yaml")
	cfg := DefaultConfig()
	cfg.Analysis.MaxFiles = 123

	require.NoError(t, SaveConfig(cfg, path))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 123, loaded.Analysis.MaxFiles)
}
