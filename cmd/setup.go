package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mspforge/contactsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a config.toml template for the operator to fill in.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Warn("config file already exists", "path", configPath)
		r.writePlain("Config file already exists at %s, leaving it untouched\n", configPath)
		return nil
	}

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.logger.Info("config file created", "path", configPath)

	r.writePlain("✓ Created %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.itglue.api_key to your IT Glue API key\n")
	r.writePlain("2. Set the credentials.autotask username, secret and integration_code\n")
	r.writePlain("3. Run 'contactsync sync plan' for a dry run\n")

	return nil
}

// loadConfig swaps the runner config for the file at --config when present.
func (r *Runner) loadConfig(cmd *cli.Command) {
	configPath := cmd.String("config")
	if configPath == "" {
		return
	}
	if _, err := os.Stat(configPath); err != nil {
		return
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		r.logger.Warn("failed to load config, keeping current settings", "path", configPath, "error", err)
		return
	}
	r.config = config
}
