package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	envServerURL = "ET_SERVER_URL"
	envAPIKey    = "ET_API_KEY"
)

// CLIConfig is the YAML file at ~/.config/et/config.yaml.
type CLIConfig struct {
	ServerURL string `yaml:"server_url,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`
	DBPath    string `yaml:"db_path,omitempty"`
}

func configPath() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(dir, ".config", "et", "config.yaml"), nil
}

// loadConfig returns the zero config when no file has been written yet.
func loadConfig() (CLIConfig, error) {
	var cfg CLIConfig

	path, err := configPath()
	if err != nil {
		return cfg, err
	}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return CLIConfig{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// saveConfig writes cfg readable only by the current user; it holds the
// API key.
func saveConfig(cfg CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, raw, 0o600)
}

// setting picks the first non-empty of an explicit value, an environment
// variable and a config file field. A config file that cannot be read
// contributes nothing.
func setting(explicit, env string, field func(CLIConfig) string) string {
	if explicit != "" {
		return explicit
	}
	if env != "" {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	cfg, err := loadConfig()
	if err != nil {
		return ""
	}
	return field(cfg)
}

// getServerURL is empty when commands should use the local database.
func getServerURL() string {
	return setting(flagServer, envServerURL, func(c CLIConfig) string { return c.ServerURL })
}

func getAPIKey() string {
	return setting("", envAPIKey, func(c CLIConfig) string { return c.APIKey })
}
