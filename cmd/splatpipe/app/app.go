package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aerialworks/dronesplat/internal/camera"
	"github.com/aerialworks/dronesplat/internal/pipeline"
	"github.com/aerialworks/dronesplat/internal/pose"
	"github.com/aerialworks/dronesplat/internal/prior"
	"github.com/aerialworks/dronesplat/internal/telemetry"
)

const priorsDir = "priors"

// Run prepares camera priors from sidecar telemetry and drives the external
// reconstruction pipeline against them.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	imagePath, err := filepath.Abs(config.Paths.Images)
	if err != nil {
		return fmt.Errorf("resolving image path: %w", err)
	}
	outputPath, err := filepath.Abs(config.Paths.Output)
	if err != nil {
		return fmt.Errorf("resolving output path: %w", err)
	}
	if err = os.MkdirAll(outputPath, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	priorDir, err := writePriors(config, imagePath, outputPath, logger)
	if err != nil {
		return err
	}

	tools, err := resolveTools(&config.Tools, logger)
	if err != nil {
		return err
	}

	seq := pipeline.New(*tools, pipeline.Options{
		ImagePath:       imagePath,
		OutputPath:      outputPath,
		PriorDir:        priorDir,
		UseGPU:          config.Settings.UseGPU,
		Matching:        pipeline.MatchingMode(config.Matching.Mode),
		MaxNeighbors:    config.Matching.MaxNeighbors,
		MaxDistance:     config.Matching.MaxDistance,
		TrainIterations: config.Training.Iterations,
	}, logger)

	return seq.Run(ctx)
}

// writePriors converts sidecar telemetry into initialization files and
// returns the prior directory, or "" when the run proceeds unseeded. A
// malformed sidecar is fatal; a complete absence of telemetry is not.
func writePriors(config *Config, imagePath, outputPath string, logger *slog.Logger) (string, error) {
	if !config.Priors.Enabled {
		logger.Info("priors disabled, mapping starts cold")
		return "", nil
	}

	records, err := telemetry.Records(imagePath)
	if err != nil {
		return "", fmt.Errorf("reading telemetry: %w", err)
	}
	if len(records) == 0 {
		logger.Info("no telemetry found, mapping starts cold")
		return "", nil
	}

	model := camera.Resolve(records[0].Sidecar)
	estimates := pose.Approximate(records, pose.Identity{})

	dir := filepath.Join(outputPath, priorsDir)
	if err = prior.Write(dir, model, estimates, imagePath); err != nil {
		return "", fmt.Errorf("writing priors: %w", err)
	}

	logger.Info("wrote initialization priors",
		slog.String("path", dir),
		slog.Int("images", len(estimates)),
		slog.Group("camera",
			slog.Int("width", model.Width),
			slog.Int("height", model.Height),
			slog.Float64("focal", model.FocalLength),
		))
	return dir, nil
}

// resolveTools locates external executables up front, so a missing required
// tool fails before any stage writes anything. The trainer and mask helper
// are optional and degrade to skipped stages.
func resolveTools(config *ToolsConfig, logger *slog.Logger) (*pipeline.Tools, error) {
	var tools pipeline.Tools
	var err error

	if tools.Colmap, err = pipeline.ResolveTool("colmap", config.Colmap, "colmap"); err != nil {
		return nil, err
	}

	var missing *pipeline.MissingExecutableError
	if tools.Trainer, err = pipeline.ResolveTool("trainer", config.Trainer, "opensplat"); err != nil {
		if !errors.As(err, &missing) {
			return nil, err
		}
		logger.Info("splat trainer not available, training will be skipped")
		tools.Trainer = ""
	}

	if config.MaskScript != "" {
		tools.MaskScript = config.MaskScript
		if tools.Python, err = pipeline.ResolveTool("python", config.Python, "python3"); err != nil {
			if !errors.As(err, &missing) {
				return nil, err
			}
			logger.Warn("python not available, mask generation will be skipped")
			tools.MaskScript, tools.Python = "", ""
		}
	}

	return &tools, nil
}
