package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/adsabs/adsmanparse/internal/classic"
	"github.com/adsabs/adsmanparse/internal/config"
	"github.com/adsabs/adsmanparse/internal/counter"
	"github.com/adsabs/adsmanparse/internal/harvest"
	"github.com/adsabs/adsmanparse/internal/ingest"
	"github.com/adsabs/adsmanparse/internal/lookup"
	"github.com/adsabs/adsmanparse/internal/translator"
)

// pipeline runs input files through overrides, translation and collection.
type pipeline struct {
	translator  *translator.Translator
	titles      *harvest.TitleFilter
	options     translator.Options
	defaults    config.Bibstem
	counterPath string
	logger      *slog.Logger
}

// TranslateSummary is the JSON report of a translate run.
type TranslateSummary struct {
	RunID      string         `json:"run_id"`
	Output     string         `json:"output,omitempty"`
	Files      int            `json:"files"`
	Records    int            `json:"records"`
	Written    int            `json:"written"`
	Suppressed int            `json:"suppressed"`
	Pages      int            `json:"synthetic_pages"`
	Skipped    map[string]int `json:"skipped_fields,omitempty"`
	FileErrors []FileError    `json:"file_errors,omitempty"`
}

// FileError reports an input file that could not be read.
type FileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// run translates every record in files. Unreadable files are reported and
// skipped; counter failures abort the run.
func (p *pipeline) run(ctx context.Context, files []string) (*TranslateSummary, []*classic.Record, error) {
	summary := &TranslateSummary{Files: len(files), Skipped: map[string]int{}}
	var out []*classic.Record

	for _, path := range files {
		recs, err := ingest.ReadFile(path)
		if err != nil {
			p.logger.Warn("skipping input file", "path", path, "error", err)
			summary.FileErrors = append(summary.FileErrors, FileError{Path: path, Error: err.Error()})
			continue
		}

		for i := range recs {
			summary.Records++
			rec := &recs[i]

			if p.titles.Suppress(rec) {
				p.logger.Info("suppressed title", "path", path, "title", rec.Title.English)
				summary.Suppressed++
				continue
			}

			rec, paged, err := p.override(rec)
			if err != nil {
				return summary, out, fmt.Errorf("%s: %w", path, err)
			}
			if paged {
				summary.Pages++
			}

			res, err := p.translator.Translate(ctx, rec, p.options)
			if err != nil {
				return summary, out, fmt.Errorf("%s: %w", path, err)
			}
			for _, o := range res.Skipped() {
				if o.Failed() {
					summary.Skipped[o.Step]++
				}
				p.logger.Debug("field left out", "path", path, "outcome", o)
			}
			out = append(out, res.Record)
		}
	}

	summary.Written = len(out)
	return summary, out, nil
}

// override applies the bibstem's pre-translation policies. It reports whether
// a synthetic page was allocated.
func (p *pipeline) override(rec *ingest.Record) (*ingest.Record, bool, error) {
	if p.defaults.EIDFromDOI {
		rec = lookup.ElectronicIDFromDOI(rec)
	}
	if !p.defaults.SyntheticPage || !lookup.NeedsPage(rec) {
		return rec, false, nil
	}
	// Circulars take their page from the title.
	if translator.Classify(p.options.Bibstem) == translator.KindMPEC {
		return rec, false, nil
	}

	year := rec.Year()
	if year == "" {
		p.logger.Warn("no year for synthetic page", "bibstem", p.options.Bibstem)
		return rec, false, nil
	}
	page, err := counter.GetPage(p.options.Bibstem, year, p.counterPath)
	if err != nil {
		return rec, false, err
	}
	return lookup.WithFirstPage(rec, fmt.Sprint(page)), true, nil
}

// skippedRows renders skip counts sorted by field for human output.
func skippedRows(skipped map[string]int) [][]string {
	fields := make([]string, 0, len(skipped))
	for f := range skipped {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f, fmt.Sprint(skipped[f])})
	}
	return rows
}
