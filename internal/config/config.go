package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Bibstem holds per-bibstem translation defaults.
type Bibstem struct {
	// Volume overrides the bibcode volume.
	Volume string `yaml:"volume,omitempty"`
	// SyntheticPage allocates a first page from the counter for records
	// that have none.
	SyntheticPage bool `yaml:"synthetic_page,omitempty"`
	// RecordFilename adds the FILE property.
	RecordFilename bool `yaml:"record_filename,omitempty"`
	// EIDFromDOI derives an electronic id from the DOI for records without
	// pages.
	EIDFromDOI bool `yaml:"eid_from_doi,omitempty"`
}

// Harvest points at an OAI-PMH harvest tree.
type Harvest struct {
	BaseDir string `yaml:"base_dir,omitempty"`
	LogDir  string `yaml:"log_dir,omitempty"`
	MaxAge  int    `yaml:"max_age,omitempty"`
}

// Config errors.
var (
	ErrCounterPathNotConfigured = errors.New("counter_path not configured")
	ErrInvalidLogLevel          = errors.New("invalid log_level")
)

// Validate checks values that would otherwise fail deep inside a run.
func (c *GlobalConfig) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.BibcodeRateLimit < 0 {
		return fmt.Errorf("bibcode_rate_limit must not be negative: %v", c.BibcodeRateLimit)
	}
	if c.Harvest.MaxAge < 0 {
		return fmt.Errorf("harvest.max_age must not be negative: %d", c.Harvest.MaxAge)
	}
	for _, p := range c.SuppressedTitles {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("suppressed_titles: %q: %w", p, err)
		}
	}
	return nil
}

// BibstemDefaults returns the configured defaults for bibstem (zero value if
// none).
func (c *GlobalConfig) BibstemDefaults(bibstem string) Bibstem {
	if c.Bibstems == nil {
		return Bibstem{}
	}
	return c.Bibstems[bibstem]
}

// Output returns the configured tag file, or DefaultOutputFile.
func (c *GlobalConfig) Output() string {
	if c.OutputFile != "" {
		return c.OutputFile
	}
	return DefaultOutputFile
}

// ValidateCounterPath returns the counter path after checking that its
// directory exists.
func (c *GlobalConfig) ValidateCounterPath() (string, error) {
	if c.CounterPath == "" {
		return "", ErrCounterPathNotConfigured
	}
	dir := filepath.Dir(c.CounterPath)
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("counter directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("counter directory is not a directory: %s", dir)
	}
	return c.CounterPath, nil
}

// ParseLogLevel maps a config or flag value to a slog level. Empty means info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q (valid: debug, info, warn, error)", ErrInvalidLogLevel, s)
	}
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
