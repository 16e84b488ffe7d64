package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the probe's configuration.
type Config struct {
	// Authorized must be true before the probe will run. An operator
	// running this in CI or a sandbox sets this explicitly in the
	// config file to acknowledge the probe inspects its own process
	// state (tracer status, debug registers).
	Authorized bool `yaml:"authorized"`

	Detectors  DetectorToggles `yaml:"detectors"`
	Thresholds Thresholds      `yaml:"thresholds"`
	Logging    LoggingConfig   `yaml:"logging"`
	Report     ReportConfig    `yaml:"report"`
}

// DetectorToggles lets an operator disable individual detectors without
// touching code.
type DetectorToggles struct {
	Ptrace       bool `yaml:"ptrace"`
	Timing       bool `yaml:"timing"`
	Int3         bool `yaml:"int3"`
	TrapFlag     bool `yaml:"trap_flag"`
	HardwareBp   bool `yaml:"hardware_bp"`
	Jitter       bool `yaml:"jitter"`
	RecordReplay bool `yaml:"record_replay"`
	EbpfCompare  bool `yaml:"ebpf_compare"`
}

// Thresholds exposes the empirically-tuned constants from the detector
// protocols as configuration, per the clustering-thresholds open
// question.
type Thresholds struct {
	Int3ClusterMin      int     `yaml:"int3_cluster_min"`
	Int3ScatteredMax    int     `yaml:"int3_scattered_max"`
	Int3SeparationBytes int     `yaml:"int3_separation_bytes"`
	Int3RegionCapBytes  int64   `yaml:"int3_region_cap_bytes"`
	TimingElevatedMean  float64 `yaml:"timing_elevated_mean_cycles"`
	TimingHighMean      float64 `yaml:"timing_high_mean_cycles"`
	TimingHighCV        float64 `yaml:"timing_high_cv"`
	JitterNopMeanFloor  float64 `yaml:"jitter_nop_mean_floor_cycles"`
	JitterVarianceRatio float64 `yaml:"jitter_variance_ratio"`
}

// LoggingConfig controls the probe's logger.
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	File  string `yaml:"file"`
}

// ReportConfig controls the run-history archive.
type ReportConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns the configuration used when no config file is
// supplied, with every detector enabled and the spec's literal
// threshold values.
func DefaultConfig() *Config {
	return &Config{
		Authorized: true,
		Detectors: DetectorToggles{
			Ptrace:       true,
			Timing:       true,
			Int3:         true,
			TrapFlag:     true,
			HardwareBp:   true,
			Jitter:       true,
			RecordReplay: true,
			EbpfCompare:  true,
		},
		Thresholds: Thresholds{
			Int3ClusterMin:      16,
			Int3ScatteredMax:    20,
			Int3SeparationBytes: 64,
			Int3RegionCapBytes:  16 * 1024 * 1024,
			TimingElevatedMean:  2000,
			TimingHighMean:      10000,
			TimingHighCV:        0.5,
			JitterNopMeanFloor:  200,
			JitterVarianceRatio: 5.0,
		},
		Logging: LoggingConfig{
			Debug: false,
		},
		Report: ReportConfig{
			Enabled: true,
			Path:    "",
		},
	}
}

// LoadConfig loads configuration from a YAML file. An empty path
// returns the default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if !cfg.Authorized {
		return nil, fmt.Errorf("configuration not authorized for use")
	}

	return cfg, nil
}

// SaveConfig writes configuration to a YAML file.
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
