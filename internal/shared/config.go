package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values from the TOML file.
const (
	EnvBaseURL  = "DSX_BASE_URL"
	EnvToken    = "DSX_TOKEN"
	EnvUsername = "DSX_USERNAME"
	EnvPassword = "DSX_PASSWORD"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Portal PortalConfig `toml:"portal"`
	Auth   AuthConfig   `toml:"auth"`
	Upload UploadConfig `toml:"upload"`
	UI     UIConfig     `toml:"ui"`
}

// PortalConfig locates the dataset portal.
type PortalConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// AuthConfig contains portal credentials.
type AuthConfig struct {
	Token     string `toml:"token"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	TokenPath string `toml:"token_path"`
}

// UploadConfig holds metadata defaults sent with every upload.
type UploadConfig struct {
	DatasetType string `toml:"dataset_type"`
	ShareLevel  string `toml:"share_level"`
	Version     string `toml:"version"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	LogPath       string `toml:"log_path"`
	DownloadDir   string `toml:"download_dir"`
	StatusSeconds int    `toml:"status_seconds"`
}

// Timeout returns the per-request timeout for portal calls.
func (c *Config) Timeout() time.Duration {
	if c.Portal.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Portal.TimeoutSeconds) * time.Second
}

// StatusDuration is how long a status message stays on screen.
func (c *Config) StatusDuration() time.Duration {
	if c.UI.StatusSeconds <= 0 {
		return 4 * time.Second
	}
	return time.Duration(c.UI.StatusSeconds) * time.Second
}

// TokenURL returns the absolute URL of the password-grant endpoint.
func (c *Config) TokenURL() string {
	path := c.Auth.TokenPath
	if path == "" {
		path = "/token"
	}
	return strings.TrimRight(c.Portal.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Validate checks the fields every command depends on.
func (c *Config) Validate() error {
	if c.Portal.BaseURL == "" {
		return fmt.Errorf("%w: portal.base_url is empty", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.Portal.BaseURL, "http://") && !strings.HasPrefix(c.Portal.BaseURL, "https://") {
		return fmt.Errorf("%w: portal.base_url must be an http(s) URL, got %q", ErrInvalidConfig, c.Portal.BaseURL)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv loads dotenv files (missing files are skipped) and overlays DSX_* variables onto the config.
//
// Variables already present in the process environment win over dotenv values.
func ApplyEnv(c *Config, dotenvFiles ...string) error {
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("%w: failed to load %s: %v", ErrInvalidConfig, f, err)
		}
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Portal.BaseURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Auth.Token = v
	}
	if v := os.Getenv(EnvUsername); v != "" {
		c.Auth.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		c.Auth.Password = v
	}
	return nil
}
