package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/aerialworks/dronesplat/internal/viewer"
)

func (s *Sequencer) databasePath() string {
	return filepath.Join(s.opts.OutputPath, "database.db")
}

func (s *Sequencer) sparsePath() string {
	return filepath.Join(s.opts.OutputPath, "sparse")
}

func (s *Sequencer) imagesDest() string {
	return filepath.Join(s.opts.OutputPath, "images")
}

func (s *Sequencer) splatPath() string {
	return filepath.Join(s.opts.OutputPath, "splat.ply")
}

func gpuFlag(useGPU bool) string {
	if useGPU {
		return "1"
	}
	return "0"
}

func (s *Sequencer) runFeatureExtraction(ctx context.Context) error {
	args := []string{
		"feature_extractor",
		"--database_path", s.databasePath(),
		"--image_path", s.opts.ImagePath,
		"--ImageReader.single_camera", "1",
		"--ImageReader.camera_model", "SIMPLE_RADIAL",
		"--SiftExtraction.use_gpu", gpuFlag(s.opts.UseGPU),
	}
	if err := s.execStage(ctx, "feature_extraction", s.tools.Colmap, args...); err != nil {
		return err
	}

	s.logDatabaseStats(ctx)
	return nil
}

func (s *Sequencer) runMatching(ctx context.Context) error {
	var args []string
	switch s.opts.Matching {
	case MatchSpatial:
		args = []string{
			"spatial_matcher",
			"--database_path", s.databasePath(),
			"--SpatialMatching.max_num_neighbors", strconv.Itoa(s.opts.MaxNeighbors),
			"--SpatialMatching.max_distance", strconv.FormatFloat(s.opts.MaxDistance, 'f', -1, 64),
			"--SiftMatching.use_gpu", gpuFlag(s.opts.UseGPU),
		}

	default:
		args = []string{
			"exhaustive_matcher",
			"--database_path", s.databasePath(),
			"--SiftMatching.use_gpu", gpuFlag(s.opts.UseGPU),
		}
	}

	if err := s.execStage(ctx, "matching", s.tools.Colmap, args...); err != nil {
		return err
	}

	s.logDatabaseStats(ctx)
	return nil
}

func (s *Sequencer) runMapping(ctx context.Context) error {
	if err := os.MkdirAll(s.sparsePath(), 0o755); err != nil {
		return fmt.Errorf("stage sparse_mapping: creating output directory: %w", err)
	}

	args := []string{
		"mapper",
		"--database_path", s.databasePath(),
		"--image_path", s.opts.ImagePath,
		"--output_path", s.sparsePath(),
	}
	if s.seeded() {
		// Seed from the prior model instead of starting cold.
		args = append(args, "--input_path", s.opts.PriorDir)
		s.logger.Info("seeding mapper from prior initialization",
			slog.String("priors", s.opts.PriorDir))
	}

	return s.execStage(ctx, "sparse_mapping", s.tools.Colmap, args...)
}

// copyImages stages the source images into the output tree for the trainer.
// An existing destination means a previous run already staged them; never
// overwrite, report success.
func (s *Sequencer) copyImages(_ context.Context) error {
	dest := s.imagesDest()
	if _, err := os.Stat(dest); err == nil {
		s.logger.Info("images already staged, skipping copy", slog.String("path", dest))
		return nil
	}

	total, err := copyTree(s.opts.ImagePath, dest)
	if err != nil {
		return fmt.Errorf("stage image_copy: %w", err)
	}

	s.logger.Info("staged images",
		slog.String("path", dest),
		slog.String("size", humanize.Bytes(uint64(total))))
	return nil
}

// generateMasks runs the instance-segmentation helper over the staged
// images. Best effort: scenes without moving clutter train fine unmasked.
func (s *Sequencer) generateMasks(ctx context.Context) error {
	if s.tools.MaskScript == "" || s.tools.Python == "" {
		s.logger.Info("mask generation not configured, skipping")
		return nil
	}

	return s.execStage(ctx, "mask_generation", s.tools.Python,
		s.tools.MaskScript, "--image_dir", s.imagesDest())
}

func (s *Sequencer) trainSplats(ctx context.Context) error {
	if s.tools.Trainer == "" {
		s.logger.Info("splat trainer not found, skipping training",
			slog.String("hint", fmt.Sprintf("run the trainer manually against %s", s.opts.OutputPath)))
		return nil
	}

	return s.execStage(ctx, "splat_training", s.tools.Trainer,
		s.opts.OutputPath,
		"-n", strconv.Itoa(s.opts.TrainIterations),
		"-o", s.splatPath())
}

func (s *Sequencer) writeViewer(_ context.Context) error {
	dir := filepath.Join(s.opts.OutputPath, "viewer")
	if err := viewer.Write(dir, "../splat.ply"); err != nil {
		return fmt.Errorf("stage viewer_scaffold: %w", err)
	}

	s.logger.Info("viewer scaffold written", slog.String("path", filepath.Join(dir, "index.html")))
	return nil
}

// copyTree copies the regular files of src into dst (flat tree, images only
// live at the top level) and returns the byte total.
func copyTree(src, dst string) (int64, error) {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return 0, fmt.Errorf("creating destination: %w", err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, fmt.Errorf("reading source: %w", err)
	}

	var total int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		n, err := copyFile(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name()))
		if err != nil {
			return total, err
		}
		total += n
	}

	return total, nil
}

func copyFile(src, dst string) (n int64, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("opening '%s': %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("creating '%s': %w", dst, err)
	}
	defer closeWithError(out, &err)

	return io.Copy(out, in)
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
