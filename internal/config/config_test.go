package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, "vertical", cfg.Exhibitor.TargetSelectionStrategy)
	assert.Greater(t, cfg.Bus.QueueDepth, 0)
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := Defaults()
	cfg.Logging.Level = "LOUD"
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsBadStrategy(t *testing.T) {
	cfg := Defaults()
	cfg.Exhibitor.TargetSelectionStrategy = "diagonal"
	assert.Error(t, Validate(cfg))
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	cfg := Defaults()
	cfg.Logging.Level = "DEBUG"
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = 9999

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", loaded.Logging.Level)
	assert.True(t, loaded.Metrics.Enabled)
	assert.Equal(t, 9999, loaded.Metrics.Port)
}

func TestJSONSchemaDescribesConfig(t *testing.T) {
	schema := JSONSchema()
	require.NotNil(t, schema)
	_, ok := schema.Properties.Get("logging")
	assert.True(t, ok)
}
