// Package config provides configuration loading and management for
// parecon3d. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Recording parameters describe the input boundary recording.
	Recording struct {
		// SoundSpeed is the homogeneous medium sound speed in m/s.
		SoundSpeed float64 `yaml:"soundSpeed"`

		// Dt is the temporal sampling interval in seconds.
		Dt float64 `yaml:"dt"`

		// Spacing1 and Spacing2 are the sensor spacings in meters.
		Spacing1 float64 `yaml:"spacing1"`
		Spacing2 float64 `yaml:"spacing2"`

		// AxisOrder names the axis layout of the input array
		// (dim1-dim2-time, dim2-dim1-time or time-dim1-dim2).
		AxisOrder string `yaml:"axisOrder"`
	} `yaml:"recording"`

	// Reconstruction parameters control the k-space engine.
	Reconstruction struct {
		// Interpolation selects the dispersion remapping kernel
		// (linear, nearest or cubic).
		Interpolation string `yaml:"interpolation"`

		// Positivity clamps negative output voxels to zero.
		Positivity bool `yaml:"positivity"`

		// NumWorkers bounds the parallelism of the transform stages.
		NumWorkers int `yaml:"numWorkers"`

		// EmitProgress prints per-stage timings.
		EmitProgress bool `yaml:"emitProgress"`

		// EvanescentWarnFraction is the discarded-sample fraction
		// above which a degraded-result warning is issued.
		EvanescentWarnFraction float64 `yaml:"evanescentWarnFraction"`
	} `yaml:"reconstruction"`

	// Output parameters.
	Output struct {
		// SaveSlices exports JPEG slice sequences of the result.
		SaveSlices bool `yaml:"saveSlices"`

		// SlicesDir is where slice sequences are written.
		SlicesDir string `yaml:"slicesDir"`

		// Verbose controls the level of logging output.
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values: water-like
// sound speed, 25 MHz sampling, 100 micron sensor pitch.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Recording.SoundSpeed = 1500.0
	cfg.Recording.Dt = 40e-9
	cfg.Recording.Spacing1 = 1e-4
	cfg.Recording.Spacing2 = 1e-4
	cfg.Recording.AxisOrder = "dim1-dim2-time"

	cfg.Reconstruction.Interpolation = "linear"
	cfg.Reconstruction.Positivity = false
	cfg.Reconstruction.NumWorkers = runtime.NumCPU()
	cfg.Reconstruction.EmitProgress = false
	cfg.Reconstruction.EvanescentWarnFraction = 0.5

	cfg.Output.SaveSlices = false
	cfg.Output.SlicesDir = "reconstructed_slices"
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file. If the file doesn't
// exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
