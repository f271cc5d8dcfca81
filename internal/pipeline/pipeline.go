// Package pipeline sequences the external reconstruction stages: feature
// extraction, matching, sparse mapping, image staging and splat training.
// Every stage is a blocking subprocess invocation; stages run strictly in
// order because each consumes files the previous one produced.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/aerialworks/dronesplat/internal/colmapdb"
	"github.com/aerialworks/dronesplat/internal/prior"
)

// CommandFunc executes one external command to completion. The default
// implementation shells out via os/exec; tests substitute a recorder.
type CommandFunc func(ctx context.Context, name string, args ...string) error

// Tools holds resolved executable locations. Colmap is required; the rest
// degrade to skipped stages when empty.
type Tools struct {
	Colmap     string
	Trainer    string
	Python     string
	MaskScript string
}

// ResolveTool locates an executable: an explicitly configured path must
// exist on disk, otherwise the name is looked up on PATH. Executable
// locations are injected configuration, never literals baked into stages.
func ResolveTool(tool, configured, name string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", &MissingExecutableError{Tool: tool, Path: configured}
		}
		return configured, nil
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", &MissingExecutableError{Tool: tool}
	}
	return path, nil
}

// MatchingMode selects the matcher subcommand.
type MatchingMode string

const (
	MatchExhaustive MatchingMode = "exhaustive"
	MatchSpatial    MatchingMode = "spatial"
)

// Options configures a single pipeline run against one output directory.
// Concurrent runs against the same directory are undefined; callers
// serialize per output path.
type Options struct {
	ImagePath  string
	OutputPath string

	// PriorDir holds initialization files written by the prior writer.
	// When the full set exists, sparse mapping seeds from it instead of
	// starting cold.
	PriorDir string

	// UseGPU flips the SIFT extraction/matching GPU flags. Same stages,
	// different flag values.
	UseGPU bool

	Matching        MatchingMode
	MaxNeighbors    int
	MaxDistance     float64
	TrainIterations int
}

// Sequencer drives the ordered stage list with a uniform failure policy:
// a required stage exiting non-zero aborts the run, an optional stage
// failing or missing its tool is logged and skipped.
type Sequencer struct {
	tools  Tools
	opts   Options
	logger *slog.Logger

	// Exec runs external commands; replaceable for tests.
	Exec CommandFunc
}

// New creates a Sequencer. The caller must have resolved required tools
// beforehand; see ResolveTool.
func New(tools Tools, opts Options, logger *slog.Logger) *Sequencer {
	s := Sequencer{
		tools:  tools,
		opts:   opts,
		logger: logger,
	}
	s.Exec = s.execCommand
	return &s
}

// Run executes the stage table in order. It returns nil only when every
// required stage exited zero; the terminal state is reachable whether or not
// the optional training stage runs.
func (s *Sequencer) Run(ctx context.Context) error {
	stages := []struct {
		name     string
		required bool
		run      func(context.Context) error
	}{
		{"feature_extraction", true, s.runFeatureExtraction},
		{"matching", true, s.runMatching},
		{"sparse_mapping", true, s.runMapping},
		{"image_copy", true, s.copyImages},
		{"mask_generation", false, s.generateMasks},
		{"splat_training", false, s.trainSplats},
		{"viewer_scaffold", false, s.writeViewer},
	}

	for _, stage := range stages {
		s.logger.Info("starting stage", slog.String("stage", stage.name))

		if err := stage.run(ctx); err != nil {
			if stage.required {
				return err
			}
			s.logger.Warn("optional stage failed, continuing",
				slog.String("stage", stage.name),
				slog.String("error", err.Error()))
		}
	}

	return nil
}

// execStage runs one external command on behalf of a named stage and maps a
// non-zero exit to a StageError naming the exact command line.
func (s *Sequencer) execStage(ctx context.Context, stage, name string, args ...string) error {
	command := strings.Join(append([]string{name}, args...), " ")
	s.logger.Info("running", slog.String("command", command))

	if err := s.Exec(ctx, name, args...); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			return &StageError{Stage: stage, Command: command, ExitCode: exitErr.ExitCode()}
		}
		return fmt.Errorf("stage %s: running '%s': %w", stage, command, err)
	}

	return nil
}

func (s *Sequencer) execCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// seeded reports whether a complete prior set exists for this run.
func (s *Sequencer) seeded() bool {
	return s.opts.PriorDir != "" && prior.Exists(s.opts.PriorDir)
}

// logDatabaseStats reports engine database counters between stages.
// Informational only: a stats failure never fails the run.
func (s *Sequencer) logDatabaseStats(ctx context.Context) {
	stats, err := colmapdb.ReadStats(ctx, s.databasePath())
	if err != nil {
		s.logger.Warn("reading engine database stats", slog.String("error", err.Error()))
		return
	}

	s.logger.Info("engine database",
		slog.Group("stats",
			slog.Int64("cameras", stats.NumCameras),
			slog.Int64("images", stats.NumImages),
			slog.Int64("keypoints", stats.NumKeypoints),
			slog.Int64("matches", stats.NumMatches),
		))
}
