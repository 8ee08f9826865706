package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotrec/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the config template to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", configPath)

	if err := r.writePlain("%s\n", r.palette.OK("Config written to %s", configPath)); err != nil {
		return err
	}
	if err := r.writePlainln("Next steps:"); err != nil {
		return err
	}
	return r.writeLines(
		"1. Set credentials.spotify.client_id and client_secret (or export CLIENT_ID and CLIENT_SECRET)",
		"2. Run 'spotrec search artist \"Radiohead\"' to test authentication",
	)
}

// SetupDatabase creates the publish ledger and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config, err := shared.ResolveConfig(configPath)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}

	if cmd.Bool("rollback") {
		return r.rollbackDatabase(config.Database)
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenLedger(config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writeLines(r.palette.OK("Publish ledger ready at %s", config.Database.Path))
}

func (r *Runner) rollbackDatabase(cfg shared.DatabaseConfig) error {
	r.logger.Info("rolling back latest migration", "path", cfg.Path)

	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return err
	}
	return r.writeLines(r.palette.OK("Rolled back latest migration on %s", cfg.Path))
}
