package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/spotrec/internal/shared"
	"github.com/urfave/cli/v3"
)

const configEnv = "SPOTREC_CONFIG"

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv(configEnv)
	if configPath == "" {
		configPath = "config.toml"
	}

	config, err := shared.ResolveConfig(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		config = shared.DefaultConfig()
	}

	if err := shared.SetLogLevel(logger, config.Log.Level); err != nil {
		logger.Warn("ignoring log level", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "spotrec",
		Usage:    "Search Spotify, build seeded recommendations and publish playlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err = app.Run(context.Background(), os.Args)
	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to close database", "error", cerr)
	}

	if err != nil {
		if errors.Is(err, shared.ErrPartialPublish) {
			logger.Warn("publish incomplete", "error", err)
		} else {
			logger.Error("application error", "error", err)
		}
		if hint := errorHint(err); hint != "" {
			logger.Info(hint)
		}
		os.Exit(1)
	}
}
