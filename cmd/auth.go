package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/dsx/internal/services"
	"github.com/desertthunder/dsx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the password grant against the portal's token endpoint and prints the token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	creds := services.FromConfig(r.config)
	creds.Token = ""
	if u := cmd.String("username"); u != "" {
		creds.Username = u
	}
	if p := cmd.String("password"); p != "" {
		creds.Password = p
	}

	r.logger.Info("requesting token", "url", creds.TokenURL, "username", creds.Username)

	tok, err := services.PasswordToken(ctx, creds, r.httpClient)
	if err != nil {
		return err
	}

	r.logger.Info("authentication successful")

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"access_token": tok.AccessToken,
			"token_type":   tok.Type(),
		}, true)
	}

	r.writePlain("✓ Authentication successful\n")
	r.writePlain("Token: %s\n", tok.AccessToken)
	r.writePlainln("Export it to skip the password grant on later runs:")
	return r.writePlain("  export %s=%s\n", shared.EnvToken, tok.AccessToken)
}

// AuthStatus checks current authentication state by calling the /health endpoint.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.api == nil {
		return fmt.Errorf("%w: API service not initialized", shared.ErrServiceUnavailable)
	}
	r.logger.Info("checking auth status")

	resp, err := r.api.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("%w: service unavailable: %v", shared.ErrServiceUnavailable, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	healthData, ok := resp.JSONData.(map[string]any)
	if !ok {
		return r.writePlain("✓ Service is healthy\nStatus: %s\n", string(resp.Body))
	}

	status, ok := healthData["status"].(string)
	if !ok {
		status = "unknown"
	}
	authenticated, _ := healthData["authenticated"].(bool)

	r.writePlain("✓ Service is healthy\n")
	r.writePlain("Status: %s\n", status)
	if authenticated {
		r.writePlain("Authentication: ✓ Authenticated\n")
	} else {
		r.writePlain("Authentication: ✗ Not authenticated\n")
	}
	return nil
}
