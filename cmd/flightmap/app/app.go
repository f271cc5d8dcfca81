package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"

	"github.com/aerialworks/dronesplat/internal/pose"
	"github.com/aerialworks/dronesplat/internal/telemetry"
)

// Run renders a top-down overview of the flight path recorded in the sidecar
// telemetry of an image set.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	records, err := telemetry.Records(config.ImagesDir)
	if err != nil {
		return fmt.Errorf("reading telemetry: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no telemetry found in '%s'", config.ImagesDir)
	}

	estimates := pose.Approximate(records, pose.Identity{})

	logger.Info("rendering flight path",
		slog.Int("captures", len(estimates)),
		slog.String("destination", config.OutputFile),
		slog.String("format", string(config.Format)))

	renderer, err := NewPathRenderer(config.Size)
	if err != nil {
		return fmt.Errorf("creating path renderer: %w", err)
	}

	img, err := renderer.Render(estimates)
	if err != nil {
		return fmt.Errorf("rendering flight path: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}
