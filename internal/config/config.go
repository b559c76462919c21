// Package config handles the global pulse configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/pulse/config.yml.
// Environment variables (PULSE_API_URL, PULSE_API_KEY, PULSE_USER_ID)
// override file values at resolution time.
type Config struct {
	APIURL       string `yaml:"api_url,omitempty"`
	APIKey       string `yaml:"api_key,omitempty"`
	UserID       string `yaml:"user_id,omitempty"`
	ExploreLimit int    `yaml:"explore_limit,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "pulse"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// CacheFile is the snapshot cache file name under XDG_CACHE_HOME.
	CacheFile = "snapshot.db"
)

// cache holds the loaded config for the life of the process.
var cache *Config

// Path returns the path to the config file. Respects XDG_CONFIG_HOME,
// defaults to ~/.config/pulse/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// CachePath returns the path to the local snapshot cache database.
// Respects XDG_CACHE_HOME, defaults to ~/.cache/pulse/snapshot.db.
func CachePath() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, ConfigDir, CacheFile)
}

// Load reads the config file. Returns an empty config (not an error) if
// the file doesn't exist.
func Load() (*Config, error) {
	if cache != nil {
		return cache, nil
	}

	path := Path()
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cache = &Config{}
			return cache, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cache = &cfg
	return &cfg, nil
}

// ResetCache clears the cached config. Useful for testing.
func ResetCache() {
	cache = nil
}

// Save writes the config file, creating the directory as needed.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	cache = c
	return nil
}

// Resolved is the effective configuration after environment overrides.
type Resolved struct {
	APIURL       string `json:"api_url"`
	APIKey       string `json:"api_key,omitempty"`
	UserID       string `json:"user_id,omitempty"`
	ExploreLimit int    `json:"explore_limit,omitempty"`
	ConfigPath   string `json:"config_path"`
	CachePath    string `json:"cache_path"`
}

// Resolve merges the config file with environment overrides. Load
// failures degrade to env-only resolution; a broken config file never
// blocks a command that can run without it.
func Resolve() Resolved {
	cfg, err := Load()
	if err != nil {
		cfg = &Config{}
	}

	r := Resolved{
		APIURL:       cfg.APIURL,
		APIKey:       cfg.APIKey,
		UserID:       cfg.UserID,
		ExploreLimit: cfg.ExploreLimit,
		ConfigPath:   Path(),
		CachePath:    CachePath(),
	}
	if u := os.Getenv("PULSE_API_URL"); u != "" {
		r.APIURL = u
	}
	if k := os.Getenv("PULSE_API_KEY"); k != "" {
		r.APIKey = k
	}
	if id := os.Getenv("PULSE_USER_ID"); id != "" {
		r.UserID = id
	}
	return r
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
