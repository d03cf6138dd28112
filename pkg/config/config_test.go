package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Recording.SoundSpeed != 1500.0 {
		t.Errorf("Expected default sound speed 1500, got %v", cfg.Recording.SoundSpeed)
	}
	if cfg.Recording.AxisOrder != "dim1-dim2-time" {
		t.Errorf("Expected canonical default axis order, got %q", cfg.Recording.AxisOrder)
	}
	if cfg.Reconstruction.Interpolation != "linear" {
		t.Errorf("Expected default interpolation linear, got %q", cfg.Reconstruction.Interpolation)
	}
	if cfg.Reconstruction.Positivity {
		t.Error("Positivity must default to off")
	}
	if cfg.Reconstruction.EvanescentWarnFraction != 0.5 {
		t.Errorf("Expected default warn fraction 0.5, got %v", cfg.Reconstruction.EvanescentWarnFraction)
	}
	if cfg.Reconstruction.NumWorkers < 1 {
		t.Errorf("Expected at least one worker, got %d", cfg.Reconstruction.NumWorkers)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig on a missing file should fall back to defaults, got %v", err)
	}
	if cfg.Recording.SoundSpeed != DefaultConfig().Recording.SoundSpeed {
		t.Error("Missing config file should yield default values")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Recording.SoundSpeed = 1480
	cfg.Reconstruction.Interpolation = "cubic"
	cfg.Reconstruction.Positivity = true
	cfg.Output.SaveSlices = true

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Recording.SoundSpeed != 1480 {
		t.Errorf("Expected sound speed 1480, got %v", loaded.Recording.SoundSpeed)
	}
	if loaded.Reconstruction.Interpolation != "cubic" {
		t.Errorf("Expected interpolation cubic, got %q", loaded.Reconstruction.Interpolation)
	}
	if !loaded.Reconstruction.Positivity || !loaded.Output.SaveSlices {
		t.Error("Boolean options were not preserved")
	}
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "reconstruction:\n  interpolation: nearest\n"
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Reconstruction.Interpolation != "nearest" {
		t.Errorf("Expected override to nearest, got %q", cfg.Reconstruction.Interpolation)
	}
	// Untouched sections keep their defaults.
	if cfg.Recording.SoundSpeed != 1500.0 {
		t.Errorf("Expected default sound speed to survive, got %v", cfg.Recording.SoundSpeed)
	}
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Config file was not created: %v", err)
	}
}
