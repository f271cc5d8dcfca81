package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aerialworks/dronesplat/cmd/splatpipe/app"
)

func main() {
	var logLevel slog.LevelVar
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &logLevel}))

	var configPath, imagePath, outputPath string
	var useGPU, noPriors bool
	flag.StringVar(&configPath, "c", "", "Path to the configuration file")
	flag.StringVar(&imagePath, "images", "", "Path to the input images folder")
	flag.StringVar(&outputPath, "output", "", "Output directory (will be created if not exists)")
	flag.BoolVar(&useGPU, "gpu", false, "Use GPU for feature extraction and matching")
	flag.BoolVar(&noPriors, "no-priors", false, "Skip telemetry priors and map from scratch")
	flag.Parse()

	config := app.NewConfig()
	if configPath != "" {
		var err error
		if config, err = app.LoadConfig(configPath); err != nil {
			logger.Error(fmt.Sprintf("failed to load configuration file: %s", err.Error()), slog.String("path", configPath))
			os.Exit(1)
		}
	}

	// Flags override file values
	if imagePath != "" {
		config.Paths.Images = imagePath
	}
	if outputPath != "" {
		config.Paths.Output = outputPath
	}
	if useGPU {
		config.Settings.UseGPU = true
	}
	if noPriors {
		config.Priors.Enabled = false
	}

	if err := config.Validate(); err != nil {
		logger.Error(err.Error())
		flag.Usage()
		os.Exit(1)
	}

	logLevel.Set(config.Settings.Level())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, config, logger); err != nil {
		logger.Error(err.Error())

		cancel()
		os.Exit(1)
	}
}
