// Package config handles the manparse global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/manparse/config.yml.
type GlobalConfig struct {
	CounterPath       string             `yaml:"counter_path,omitempty"`
	LookupDB          string             `yaml:"lookup_db,omitempty"`
	OutputFile        string             `yaml:"output_file,omitempty"`
	BibcodeServiceURL string             `yaml:"bibcode_service_url,omitempty"`
	BibcodeRateLimit  float64            `yaml:"bibcode_rate_limit,omitempty"`
	LogLevel          string             `yaml:"log_level,omitempty"`
	SuppressedTitles  []string           `yaml:"suppressed_titles,omitempty"`
	Journals          map[string]string  `yaml:"journals,omitempty"`
	Bibstems          map[string]Bibstem `yaml:"bibstems,omitempty"`
	Harvest           Harvest            `yaml:"harvest,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "manparse"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// DefaultOutputFile is where tagged records go when nothing is configured.
	DefaultOutputFile = "./manparse.tag"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/manparse/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	cfg, err := LoadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}

	globalConfigCache = cfg
	return cfg, nil
}

// LoadFile reads and validates a config file at an explicit path.
func LoadFile(path string) (*GlobalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.CounterPath = ExpandPath(cfg.CounterPath)
	cfg.LookupDB = ExpandPath(cfg.LookupDB)
	cfg.OutputFile = ExpandPath(cfg.OutputFile)
	cfg.Harvest.BaseDir = ExpandPath(cfg.Harvest.BaseDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// Save writes the config as YAML to path, creating parent directories.
func (c *GlobalConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// HelpfulConfigMessage explains how to create a config file when a required
// setting is missing.
func HelpfulConfigMessage(key string) string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`%s is not configured.

Tip: set it in %s:
  mkdir -p %s
  echo '%s: /path/to/value' >> %s`,
		key,
		configPath,
		filepath.Dir(configPath),
		key,
		configPath)
}
