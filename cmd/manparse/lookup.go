package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/adsabs/adsmanparse/internal/lookup"
)

var lookupDB string

func init() {
	lookupCmd.PersistentFlags().StringVar(&lookupDB, "db", "", "Lookup database (default lookup_db from config)")
	lookupCmd.AddCommand(lookupImportCmd)
	lookupCmd.AddCommand(lookupGetCmd)
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "DOI to bibcode lookup table commands",
	Long: `Commands for the DOI to bibcode lookup table.

When a lookup database is configured, translate takes bibcodes for known
DOIs from it, so reprocessed records keep their bibcodes.`,
}

var lookupImportCmd = &cobra.Command{
	Use:   "import <file.tsv>",
	Short: "Import bibcode<TAB>doi lines into the lookup table",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookupImport,
}

var lookupGetCmd = &cobra.Command{
	Use:   "get <doi>",
	Short: "Show the bibcode recorded for a DOI",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookupGet,
}

// LookupImportResult is the response for lookup import.
type LookupImportResult struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}

// LookupGetResult is the response for lookup get.
type LookupGetResult struct {
	DOI     string `json:"doi"`
	Bibcode string `json:"bibcode"`
}

func mustOpenLookup() *lookup.Table {
	path := lookupDB
	if path == "" {
		path = mustLoadConfig().LookupDB
	}
	if path == "" {
		exitWithError(ExitConfigError, "no lookup database (set lookup_db in config or pass --db)")
	}
	table, err := lookup.Open(path)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return table
}

func runLookupImport(cmd *cobra.Command, args []string) error {
	table := mustOpenLookup()
	defer table.Close()

	f, err := os.Open(args[0])
	if err != nil {
		exitWithError(ExitError, "opening import file: %v", err)
	}
	defer f.Close()

	n, err := table.ImportTSV(f)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	total, err := table.Count()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Imported %d DOIs (%d in table)\n", n, total)
		return nil
	}
	return outputJSON(LookupImportResult{Imported: n, Total: total})
}

func runLookupGet(cmd *cobra.Command, args []string) error {
	table := mustOpenLookup()
	defer table.Close()

	bibcode, err := table.Get(args[0])
	if err != nil {
		if errors.Is(err, lookup.ErrNotFound) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("%s\n", bibcode)
		return nil
	}
	return outputJSON(LookupGetResult{DOI: lookup.NormalizeDOI(args[0]), Bibcode: bibcode})
}
