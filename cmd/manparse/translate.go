package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/adsabs/adsmanparse/internal/bibcode"
	"github.com/adsabs/adsmanparse/internal/classic"
	"github.com/adsabs/adsmanparse/internal/config"
	"github.com/adsabs/adsmanparse/internal/harvest"
	"github.com/adsabs/adsmanparse/internal/lookup"
	"github.com/adsabs/adsmanparse/internal/translator"
)

var (
	translateBibstem        string
	translateVolume         string
	translateRecordFilename bool
	translateOutput         string
	translateAge            int
	translateRecent         bool
	translateHarvestDir     string
	translateStdout         bool
)

func init() {
	// Load .env file if present (for BIBCODE_API_TOKEN)
	_ = godotenv.Load()

	translateCmd.Flags().StringVarP(&translateBibstem, "bibstem", "b", "", "Bibstem for special handling and bibcodes")
	translateCmd.Flags().StringVar(&translateVolume, "volume", "", "Volume override for bibcodes")
	translateCmd.Flags().BoolVar(&translateRecordFilename, "record-filename", false, "Add the input file path as the FILE property")
	translateCmd.Flags().StringVarP(&translateOutput, "output", "o", "", "Tag file to append to (default from config)")
	translateCmd.Flags().IntVar(&translateAge, "age", 0, "Only process input files modified in the last N days (0 = all)")
	translateCmd.Flags().BoolVar(&translateRecent, "recent", false, "Add files listed in recent harvest logs")
	translateCmd.Flags().StringVar(&translateHarvestDir, "harvest-dir", "", "Harvest base directory for --recent (default from config)")
	translateCmd.Flags().BoolVar(&translateStdout, "stdout", false, "Write tagged records to stdout instead of the tag file")
	rootCmd.AddCommand(translateCmd)
}

var translateCmd = &cobra.Command{
	Use:   "translate [files, directories or globs...]",
	Short: "Translate ingest records and append them to a tag file",
	Long: `Translate ingest records and append them to a tag file.

Usage:
  manparse translate --bibstem ApJ parsed/*.json
  manparse translate --bibstem MPEC --age 7 parsed/
  manparse translate --recent --harvest-dir /proj/sources/CrossRef/

Input files hold one ingest record, a JSON array of records, or one record
per line (.jsonl). Per-bibstem defaults (volume, synthetic pages, FILE
property, electronic ids from DOIs) come from the config file.`,
	RunE: runTranslate,
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger, runID := newLogger(cfg)

	files := mustCollectInputs(cfg, args)
	if translateAge > 0 {
		files = harvest.FilterByAge(files, time.Duration(translateAge)*24*time.Hour, time.Now())
	}

	titles, err := harvest.NewTitleFilter(cfg.SuppressedTitles)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	defaults := cfg.BibstemDefaults(translateBibstem)
	opts := translator.Options{
		Bibstem:        translateBibstem,
		Volume:         defaults.Volume,
		RecordFilename: defaults.RecordFilename || translateRecordFilename,
	}
	if translateVolume != "" {
		opts.Volume = translateVolume
	}

	var counterPath string
	if defaults.SyntheticPage {
		counterPath, err = cfg.ValidateCounterPath()
		if err != nil {
			if errors.Is(err, config.ErrCounterPathNotConfigured) {
				exitWithError(ExitConfigError, "%s", config.HelpfulConfigMessage("counter_path"))
			}
			exitWithError(ExitConfigError, "%v", err)
		}
	}

	gen := bibcodeGenerator(cfg)
	if cfg.LookupDB != "" {
		table, err := lookup.Open(cfg.LookupDB)
		if err != nil {
			exitWithError(ExitConfigError, "opening lookup table: %v", err)
		}
		defer table.Close()
		gen = lookup.Generator(table, gen)
	}

	p := &pipeline{
		translator:  translator.New(gen, translator.WithLogger(logger)),
		titles:      titles,
		options:     opts,
		defaults:    defaults,
		counterPath: counterPath,
		logger:      logger,
	}

	summary, recs, runErr := p.run(context.Background(), files)
	summary.RunID = runID

	// Records translated before a counter failure are still written so that
	// their allocated pages are not lost.
	if err := writeRecords(cfg, recs, summary); err != nil {
		exitWithError(ExitError, "writing tagged records: %v", err)
	}
	if runErr != nil {
		exitWithError(exitCodeFor(runErr), "%v", runErr)
	}

	if translateStdout {
		return nil
	}
	if humanOutput {
		printTranslateSummaryHuman(summary)
		return nil
	}
	return outputJSON(summary)
}

// mustCollectInputs expands arguments and, with --recent, adds the files
// named in recent harvest logs.
func mustCollectInputs(cfg *config.GlobalConfig, args []string) []string {
	var files []string
	if len(args) > 0 {
		expanded, err := harvest.Expand(args)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		files = expanded
	}

	if translateRecent {
		baseDir := cfg.Harvest.BaseDir
		if translateHarvestDir != "" {
			baseDir = translateHarvestDir
		}
		maxAge := cfg.Harvest.MaxAge
		if translateAge > 0 {
			maxAge = translateAge
		}
		recent, err := harvest.Recent(harvest.RecentOptions{
			BaseDir: baseDir,
			LogDir:  cfg.Harvest.LogDir,
			MaxAge:  maxAge,
		})
		if err != nil {
			exitWithError(ExitConfigError, "scanning harvest logs: %v", err)
		}
		files = append(files, recent...)
	}

	if len(files) == 0 {
		exitWithError(ExitError, "no input files (give paths or use --recent)")
	}
	return files
}

// bibcodeGenerator returns the remote client when a service is configured,
// otherwise the local generator.
func bibcodeGenerator(cfg *config.GlobalConfig) bibcode.Generator {
	if cfg.BibcodeServiceURL == "" {
		return bibcode.NewLocal(cfg.Journals)
	}
	opts := []bibcode.ClientOption{}
	if cfg.BibcodeRateLimit > 0 {
		opts = append(opts, bibcode.WithRateLimit(cfg.BibcodeRateLimit))
	}
	return bibcode.NewClient(cfg.BibcodeServiceURL, opts...)
}

func writeRecords(cfg *config.GlobalConfig, recs []*classic.Record, summary *TranslateSummary) error {
	if len(recs) == 0 {
		return nil
	}
	s := classic.NewSerializer()
	if translateStdout {
		for _, rec := range recs {
			if err := s.Write(os.Stdout, rec); err != nil {
				return err
			}
		}
		return nil
	}

	path := cfg.Output()
	if translateOutput != "" {
		path = translateOutput
	}
	summary.Output = path
	return s.AppendFile(path, recs)
}

func printTranslateSummaryHuman(s *TranslateSummary) {
	outputHuman("Run %s\n", s.RunID)
	outputHuman("Translated %d of %d records from %d files", s.Written, s.Records, s.Files)
	if s.Output != "" {
		outputHuman(" into %s", s.Output)
	}
	outputHuman("\n")
	if s.Suppressed > 0 {
		outputHuman("Suppressed %d records by title\n", s.Suppressed)
	}
	if s.Pages > 0 {
		outputHuman("Allocated %d synthetic pages\n", s.Pages)
	}
	for _, fe := range s.FileErrors {
		warnHuman("%s: %s", fe.Path, fe.Error)
	}
	if len(s.Skipped) > 0 {
		outputHuman("\nFields skipped on failure:\n")
		renderTable(os.Stdout, []string{"Field", "Records"}, skippedRows(s.Skipped))
	}
}
