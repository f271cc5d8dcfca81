package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aerialworks/dronesplat/internal/pipeline"
)

// Config is the main application configuration. Every field has a usable
// default except the image and output paths.
type Config struct {
	Settings Settings       `yaml:"settings"`
	Paths    PathsConfig    `yaml:"paths"`
	Tools    ToolsConfig    `yaml:"tools"`
	Matching MatchingConfig `yaml:"matching"`
	Training TrainingConfig `yaml:"training"`
	Priors   PriorsConfig   `yaml:"priors"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
	UseGPU   bool   `yaml:"useGPU"`
}

// PathsConfig holds the run input and output locations
type PathsConfig struct {
	Images string `yaml:"images"`
	Output string `yaml:"output"`
}

// ToolsConfig holds external executable locations. Empty values resolve via
// the execution environment's PATH; non-empty values must exist on disk.
type ToolsConfig struct {
	Colmap     string `yaml:"colmap"`
	Trainer    string `yaml:"trainer"`
	Python     string `yaml:"python"`
	MaskScript string `yaml:"maskScript"`
}

// MatchingConfig selects and tunes the feature matcher
type MatchingConfig struct {
	Mode         string  `yaml:"mode"` // exhaustive or spatial
	MaxNeighbors int     `yaml:"maxNeighbors"`
	MaxDistance  float64 `yaml:"maxDistance"`
}

// TrainingConfig tunes the optional splat training stage
type TrainingConfig struct {
	Iterations int `yaml:"iterations"`
}

// PriorsConfig controls initialization-prior generation
type PriorsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Settings: Settings{LogLevel: "info"},
		Matching: MatchingConfig{
			Mode:         string(pipeline.MatchExhaustive),
			MaxNeighbors: 40,
			MaxDistance:  12.0,
		},
		Training: TrainingConfig{Iterations: 2000},
		Priors:   PriorsConfig{Enabled: true},
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (*Config, error) {
	config := NewConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}
	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing configuration file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.Paths.Images == "" {
		return fmt.Errorf("image path is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("output path is required")
	}

	switch pipeline.MatchingMode(c.Matching.Mode) {
	case pipeline.MatchExhaustive, pipeline.MatchSpatial:
	default:
		return fmt.Errorf("invalid matching mode '%s'", c.Matching.Mode)
	}

	return nil
}

// Level maps the configured log level name onto a slog level.
func (s Settings) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
