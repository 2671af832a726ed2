package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/dsx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the bundled config template to --config and validates it.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	r.logger.Info("creating config file from template", "path", configPath)
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	if err := config.Validate(); err != nil {
		return err
	}

	r.writePlain("✓ Config written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set portal.base_url (currently %s)\n", config.Portal.BaseURL)
	r.writePlain("2. Set auth.username, or export %s / %s\n", shared.EnvUsername, shared.EnvPassword)
	r.writePlain("3. Run 'dsx auth status' to check the connection\n")
	return nil
}
