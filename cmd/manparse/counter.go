package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adsabs/adsmanparse/internal/config"
	"github.com/adsabs/adsmanparse/internal/counter"
)

var counterFile string

func init() {
	counterCmd.PersistentFlags().StringVar(&counterFile, "file", "", "Counter file (default counter_path from config)")
	counterCmd.AddCommand(counterPageCmd)
	counterCmd.AddCommand(counterShowCmd)
	rootCmd.AddCommand(counterCmd)
}

var counterCmd = &cobra.Command{
	Use:   "counter",
	Short: "Synthetic page counter commands",
	Long: `Commands for the synthetic page counter.

Bibstems without real pagination (circulars, data sets) get increasing page
numbers per bibstem and year from a JSON counter file.`,
}

var counterPageCmd = &cobra.Command{
	Use:   "page <bibstem> <year>",
	Short: "Allocate the next page for a bibstem and year",
	Args:  cobra.ExactArgs(2),
	RunE:  runCounterPage,
}

var counterShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the last page allocated per bibstem and year",
	Args:  cobra.NoArgs,
	RunE:  runCounterShow,
}

// CounterPageResult is the response for counter page.
type CounterPageResult struct {
	Bibstem string `json:"bibstem"`
	Year    string `json:"year"`
	Page    int    `json:"page"`
}

// mustCounterPath resolves the counter file from --file or the config.
func mustCounterPath() string {
	if counterFile != "" {
		return counterFile
	}
	path, err := mustLoadConfig().ValidateCounterPath()
	if err != nil {
		if errors.Is(err, config.ErrCounterPathNotConfigured) {
			exitWithError(ExitConfigError, "%s", config.HelpfulConfigMessage("counter_path"))
		}
		exitWithError(ExitConfigError, "%v", err)
	}
	return path
}

func runCounterPage(cmd *cobra.Command, args []string) error {
	path := mustCounterPath()

	page, err := counter.GetPage(args[0], args[1], path)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		outputHuman("%d\n", page)
		return nil
	}
	return outputJSON(CounterPageResult{Bibstem: args[0], Year: args[1], Page: page})
}

func runCounterShow(cmd *cobra.Command, args []string) error {
	path := mustCounterPath()

	state, err := counter.Load(path)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	entries := state.Entries()

	if !humanOutput {
		if entries == nil {
			entries = []counter.Entry{}
		}
		return outputJSON(entries)
	}

	if len(entries) == 0 {
		outputHuman("No pages allocated in %s\n", path)
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Bibstem, e.Year, fmt.Sprint(e.Page)})
	}
	renderTable(os.Stdout, []string{"Bibstem", "Year", "Last Page"}, rows)
	return nil
}
