// Package main provides the manparse CLI entry point.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/adsabs/adsmanparse/internal/config"
	"github.com/adsabs/adsmanparse/internal/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	logLevel    string
	configPath  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "manparse",
	Short: "Translate ingest records into classic tagged records",
	Long: `manparse translates ingest data model records (JSON or JSONL, as written
by the JATS, Crossref and DataCite parsers) into the classic tagged format
and appends them to a tag file.

Core features:
  - Field-by-field translation with per-field skip reporting
  - Bibcode generation, locally, through a bibcode service, or from a DOI table
  - Synthetic page allocation for unpaginated bibstems
  - Input discovery from OAI-PMH harvest logs

All commands output JSON by default.
Use --human flag for human-readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config, else info)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/manparse/config.yml)")
	rootCmd.Version = Version
}

// mustLoadConfig loads the config named by --config, or the global config.
// Exits with ExitConfigError on failure.
func mustLoadConfig() *config.GlobalConfig {
	var (
		cfg *config.GlobalConfig
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.LoadGlobalConfig()
	}
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// newLogger builds the run logger. The flag wins over the config value.
func newLogger(cfg *config.GlobalConfig) (*slog.Logger, string) {
	levelName := cfg.LogLevel
	if logLevel != "" {
		levelName = logLevel
	}
	level, err := config.ParseLogLevel(levelName)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return logging.New(os.Stderr, level)
}
