package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/dsx/internal/shared"
	"golang.org/x/oauth2"
)

// Credentials selects how requests to the portal are authenticated.
type Credentials struct {
	Token    string // pre-issued bearer token, wins when set
	Username string // password grant
	Password string
	TokenURL string
}

// FromConfig builds [Credentials] from the auth section of the config.
func FromConfig(c *shared.Config) Credentials {
	return Credentials{
		Token:    c.Auth.Token,
		Username: c.Auth.Username,
		Password: c.Auth.Password,
		TokenURL: c.TokenURL(),
	}
}

// PasswordToken exchanges username and password at the token endpoint.
func PasswordToken(ctx context.Context, creds Credentials, base *http.Client) (*oauth2.Token, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", shared.ErrMissingCredentials)
	}
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}

	tok, err := passwordConfig(creds).PasswordCredentialsToken(ctx, creds.Username, creds.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return tok, nil
}

// NewHTTPClient returns a client that attaches a bearer token to every request.
//
// Without a token or username the base client is returned unchanged, for portals that do not require auth.
func NewHTTPClient(ctx context.Context, creds Credentials, base *http.Client) (*http.Client, error) {
	if base == nil {
		base = http.DefaultClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	switch {
	case creds.Token != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token, TokenType: "Bearer"})
		return withTimeout(oauth2.NewClient(ctx, ts), base), nil
	case creds.Username != "":
		tok, err := PasswordToken(ctx, creds, base)
		if err != nil {
			return nil, err
		}
		return withTimeout(passwordConfig(creds).Client(ctx, tok), base), nil
	default:
		return base, nil
	}
}

func passwordConfig(creds Credentials) *oauth2.Config {
	return &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  creds.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func withTimeout(c, base *http.Client) *http.Client {
	c.Timeout = base.Timeout
	return c
}
