package main

import (
	"github.com/spf13/cobra"

	"github.com/adsabs/adsmanparse/internal/config"
)

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the manparse configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the global config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.GlobalConfigPath()
		if configPath != "" {
			path = configPath
		}
		if humanOutput {
			outputHuman("%s\n", path)
			return nil
		}
		return outputJSON(ConfigPathResponse{Path: path})
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		if humanOutput {
			outputHuman("counter_path: %s\n", cfg.CounterPath)
			outputHuman("lookup_db:    %s\n", cfg.LookupDB)
			outputHuman("output_file:  %s\n", cfg.Output())
			outputHuman("bibcodes:     %s\n", bibcodeSource(cfg))
			outputHuman("bibstems:     %d configured\n", len(cfg.Bibstems))
			return nil
		}
		return outputJSON(cfg)
	},
}

// ConfigPathResponse is the response for config path.
type ConfigPathResponse struct {
	Path string `json:"path"`
}

func bibcodeSource(cfg *config.GlobalConfig) string {
	if cfg.BibcodeServiceURL != "" {
		return cfg.BibcodeServiceURL
	}
	return "local"
}
