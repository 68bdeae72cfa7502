// Package harvest finds the ingest files to translate: files named on the
// command line, files recently reported by the OAI-PMH harvester logs, and
// files new enough to process.
package harvest

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/adsabs/adsmanparse/internal/ingest"
)

// DefaultLogDir is the harvester log subdirectory under the base directory.
const DefaultLogDir = "UpdateAgent"

// ErrNoBaseDir is returned by Recent when no base directory is given.
var ErrNoBaseDir = errors.New("harvest base directory is required")

// RecentOptions configures a harvest log scan.
type RecentOptions struct {
	BaseDir string
	// LogDir is relative to BaseDir. Defaults to DefaultLogDir.
	LogDir string
	// MaxAge is the number of days before Now to include, in addition to Now.
	MaxAge int
	// Dates replaces the MaxAge window with explicit YYYY-MM-DD dates.
	Dates []string
	// Now defaults to time.Now.
	Now time.Time
}

// dates returns the YYYY-MM-DD strings to scan, newest first.
func (o RecentOptions) dates() []string {
	if len(o.Dates) > 0 {
		return o.Dates
	}
	now := o.Now
	if now.IsZero() {
		now = time.Now()
	}
	out := []string{now.Format(time.DateOnly)}
	for i := 1; i <= o.MaxAge; i++ {
		out = append(out, now.AddDate(0, 0, -i).Format(time.DateOnly))
	}
	return out
}

// Recent returns the files the harvester reported in its logs
// (<base>/<logdir>/*.out.YYYY-MM-DD) for the requested dates. Each log line's
// first tab-separated field is a path relative to the base directory.
func Recent(opts RecentOptions) ([]string, error) {
	if opts.BaseDir == "" {
		return nil, ErrNoBaseDir
	}
	logDir := opts.LogDir
	if logDir == "" {
		logDir = DefaultLogDir
	}

	var logs []string
	for _, d := range opts.dates() {
		matches, err := filepath.Glob(filepath.Join(opts.BaseDir, logDir, "*.out."+d))
		if err != nil {
			return nil, fmt.Errorf("finding harvest logs: %w", err)
		}
		logs = append(logs, matches...)
	}
	sort.Strings(logs)

	var files []string
	for _, log := range logs {
		entries, err := readLog(log)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			files = append(files, filepath.Join(opts.BaseDir, e))
		}
	}
	return files, nil
}

func readLog(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening harvest log: %w", err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		first, _, _ := strings.Cut(line, "\t")
		out = append(out, first)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading harvest log %s: %w", path, err)
	}
	return out, nil
}

// Expand turns each argument into files: directories contribute their
// regular files, glob patterns their matches, and plain paths themselves.
// The result is sorted and free of duplicates.
func Expand(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			entries, err := os.ReadDir(arg)
			if err != nil {
				return nil, fmt.Errorf("reading directory: %w", err)
			}
			for _, e := range entries {
				if e.Type().IsRegular() {
					add(filepath.Join(arg, e.Name()))
				}
			}
		case err == nil:
			add(arg)
		default:
			matches, gerr := filepath.Glob(arg)
			if gerr != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", arg, gerr)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no input matches %s", arg)
			}
			for _, m := range matches {
				add(m)
			}
		}
	}

	sort.Strings(out)
	return out, nil
}

// FilterByAge keeps files modified within maxAge of now. A zero maxAge
// keeps everything. Files that cannot be stat'ed are dropped.
func FilterByAge(files []string, maxAge time.Duration, now time.Time) []string {
	if maxAge <= 0 {
		return files
	}
	cutoff := now.Add(-maxAge)

	var out []string
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			out = append(out, f)
		}
	}
	return out
}

// TitleFilter drops records whose English title matches any of a set of
// case-insensitive patterns (errata notices, retractions, ...).
type TitleFilter struct {
	patterns []*regexp.Regexp
}

// NewTitleFilter compiles the suppressed-title patterns.
func NewTitleFilter(patterns []string) (*TitleFilter, error) {
	f := &TitleFilter{}
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("suppressed title %q: %w", p, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// Suppress reports whether rec's English title matches a pattern.
func (f *TitleFilter) Suppress(rec *ingest.Record) bool {
	if f == nil || rec.Title == nil || rec.Title.English == "" {
		return false
	}
	for _, re := range f.patterns {
		if re.MatchString(rec.Title.English) {
			return true
		}
	}
	return false
}
