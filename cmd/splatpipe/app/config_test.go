package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()

	if c.Matching.Mode != "exhaustive" {
		t.Errorf("matching mode = %s, want exhaustive", c.Matching.Mode)
	}
	if c.Matching.MaxNeighbors != 40 || c.Matching.MaxDistance != 12.0 {
		t.Errorf("spatial tuning = %d/%v, want 40/12", c.Matching.MaxNeighbors, c.Matching.MaxDistance)
	}
	if c.Training.Iterations != 2000 {
		t.Errorf("iterations = %d, want 2000", c.Training.Iterations)
	}
	if !c.Priors.Enabled {
		t.Error("priors must be enabled by default")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
settings:
  logLevel: debug
  useGPU: true
paths:
  images: /data/flight1
  output: /data/out
tools:
  colmap: /opt/colmap/bin/colmap
matching:
  mode: spatial
  maxDistance: 25.5
training:
  iterations: 7000
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if !c.Settings.UseGPU {
		t.Error("useGPU not loaded")
	}
	if c.Paths.Images != "/data/flight1" || c.Paths.Output != "/data/out" {
		t.Errorf("paths = %+v", c.Paths)
	}
	if c.Tools.Colmap != "/opt/colmap/bin/colmap" {
		t.Errorf("colmap path = %s", c.Tools.Colmap)
	}
	if c.Matching.Mode != "spatial" || c.Matching.MaxDistance != 25.5 {
		t.Errorf("matching = %+v", c.Matching)
	}
	// Values absent from the file keep their defaults.
	if c.Matching.MaxNeighbors != 40 {
		t.Errorf("maxNeighbors = %d, want default 40", c.Matching.MaxNeighbors)
	}
	if c.Training.Iterations != 7000 {
		t.Errorf("iterations = %d, want 7000", c.Training.Iterations)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	c := NewConfig()
	if err := c.Validate(); err == nil {
		t.Error("expected error without paths")
	}

	c.Paths.Images = "/data/img"
	if err := c.Validate(); err == nil {
		t.Error("expected error without output path")
	}

	c.Paths.Output = "/data/out"
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	c.Matching.Mode = "fuzzy"
	if err := c.Validate(); err == nil {
		t.Error("expected error for invalid matching mode")
	}
}

func TestSettingsLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := (Settings{LogLevel: tt.in}).Level(); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
