package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// URLEnvVar holds the server root; DefaultServerURL when unset
	URLEnvVar = "HA_URL"
	// TokenEnvVar holds the long-lived access token
	TokenEnvVar = "HA_TOKEN"

	// DefaultServerURL is the local Home Assistant default
	DefaultServerURL = "http://127.0.0.1:8123"

	// DefaultEnvFile is read from the working directory when present
	DefaultEnvFile = ".env"
)

// ServerConfig identifies the Home Assistant server. It is never written to the
// dashboard file.
type ServerConfig struct {
	URL   string
	Token string
}

// LoadServerConfig reads HA_URL and HA_TOKEN. Variables from envFile are loaded
// first without overriding the real environment; a missing envFile is ignored.
func LoadServerConfig(envFile string) (ServerConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return ServerConfig{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := ServerConfig{
		URL:   strings.TrimRight(strings.TrimSpace(os.Getenv(URLEnvVar)), "/"),
		Token: strings.TrimSpace(os.Getenv(TokenEnvVar)),
	}
	if cfg.URL == "" {
		cfg.URL = DefaultServerURL
	}
	if cfg.Token == "" {
		return cfg, ErrMissingToken
	}
	return cfg, nil
}
