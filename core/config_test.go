package core

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.True(t, cfg.Authorized)
	assert.True(t, cfg.Detectors.Ptrace)
	assert.True(t, cfg.Detectors.EbpfCompare)
	assert.Equal(t, 16, cfg.Thresholds.Int3ClusterMin)
	assert.Equal(t, 20, cfg.Thresholds.Int3ScatteredMax)
	assert.Equal(t, int64(16*1024*1024), cfg.Thresholds.Int3RegionCapBytes)
	assert.Equal(t, 0.5, cfg.Thresholds.TimingHighCV)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.True(t, cfg.Authorized)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "probe_test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	testConfig := &Config{
		Authorized: true,
		Detectors: DetectorToggles{
			Ptrace: true,
			Timing: false,
		},
	}

	data, err := yaml.Marshal(testConfig)
	require.NoError(t, err)

	err = os.WriteFile(tmpFile.Name(), data, 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile.Name())

	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.True(t, cfg.Detectors.Ptrace)
	assert.False(t, cfg.Detectors.Timing)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "probe_test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	err = os.WriteFile(tmpFile.Name(), []byte("authorized: [this is not a bool"), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile.Name())

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_Unauthorized(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "probe_test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	err = os.WriteFile(tmpFile.Name(), []byte("authorized: false\n"), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile.Name())

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "not authorized")
}

func TestSaveConfig(t *testing.T) {
	cfg := DefaultConfig()
	tmpFile, err := os.CreateTemp("", "probe_test_save_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	err = SaveConfig(cfg, tmpFile.Name())
	require.NoError(t, err)

	info, err := os.Stat(tmpFile.Name())
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	loaded, err := LoadConfig(tmpFile.Name())
	require.NoError(t, err)
	assert.Equal(t, cfg.Thresholds.Int3ClusterMin, loaded.Thresholds.Int3ClusterMin)
}

func TestSaveConfig_InvalidPath(t *testing.T) {
	cfg := DefaultConfig()
	err := SaveConfig(cfg, "/invalid/path/config.yaml")

	assert.Error(t, err)
}

func TestConfig_ThresholdsRoundTrip(t *testing.T) {
	cfg1 := DefaultConfig()

	data, err := yaml.Marshal(cfg1)
	require.NoError(t, err)

	var cfg2 Config
	err = yaml.Unmarshal(data, &cfg2)
	require.NoError(t, err)

	assert.Equal(t, cfg1.Thresholds, cfg2.Thresholds)
	assert.Equal(t, cfg1.Detectors, cfg2.Detectors)
}
