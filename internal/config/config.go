package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/eventspot/config.yaml"

// Environment variables that override the file.
const (
	EnvAPIKey   = "TICKETMASTER_API_KEY"
	EnvLogLevel = "EVENTSPOT_LOG_LEVEL"
	EnvRedisURL = "REDIS_URL"
)

// Config holds all eventspot configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url" validate:"required,url"`
	APIKey         string `yaml:"api_key"`
	PageSize       int    `yaml:"page_size" validate:"min=1,max=200"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"min=1,max=300"`
	RetryAttempts  int    `yaml:"retry_attempts" validate:"min=1,max=10"`
	StaleSeconds   int    `yaml:"stale_seconds" validate:"min=0"`
}

type StorageConfig struct {
	Backend    string `yaml:"backend" validate:"oneof=sqlite redis"`
	Path       string `yaml:"path" validate:"required_if=Backend sqlite"`
	SQLiteFile string `yaml:"sqlite_file" validate:"required_if=Backend sqlite"`
	RedisURL   string `yaml:"redis_url" validate:"required_if=Backend redis"`
	KeyPrefix  string `yaml:"key_prefix"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error off disabled"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

type DefaultsConfig struct {
	Region string `yaml:"region" validate:"iso3166_1_alpha2,region"`
	Sort   string `yaml:"sort" validate:"sort"`
}

// Timeout is the per-request HTTP timeout.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StaleWindow is how long a cached result is served without refetching.
func (c APIConfig) StaleWindow() time.Duration {
	return time.Duration(c.StaleSeconds) * time.Second
}

// DatabasePath returns the expanded SQLite file path.
func (c StorageConfig) DatabasePath() (string, error) {
	dir, err := expandPath(c.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.SQLiteFile), nil
}

// Load reads a YAML config file at path, merges it with defaults and
// applies environment overrides.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// ApplyEnv overrides file values with the environment variables that are set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.API.APIKey = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvRedisURL); ok && v != "" {
		c.Storage.RedisURL = v
	}
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. With no paths it reads ./.env.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := expandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
// Environment overrides are applied but never written to the file.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0600); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		cfg.ApplyEnv(os.LookupEnv)
		return cfg, nil
	}

	return Load(path)
}
