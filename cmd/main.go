package main

import (
	"context"
	"net/http"
	"os"

	"github.com/desertthunder/dsx/internal/services"
	"github.com/desertthunder/dsx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx := context.Background()
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}
	if err := shared.ApplyEnv(config, ".env"); err != nil {
		logger.Warn("ignoring .env", "error", err)
	}

	base := &http.Client{Timeout: config.Timeout()}
	httpClient, err := services.NewHTTPClient(ctx, services.FromConfig(config), base)
	if err != nil {
		logger.Warn("portal login failed, continuing unauthenticated", "error", err)
		httpClient = base
	}

	apiService := services.NewAPIService(config.Portal.BaseURL, httpClient)
	portalService := services.NewPortalService(apiService, logger)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Portal:     portalService,
		API:        apiService,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "dsx",
		Usage:    "Upload, tag & browse datasets on a dataset portal",
		Version:  "0.3.0",
		Flags:    []cli.Flag{debugFlag()},
		Before:   runner.before,
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
