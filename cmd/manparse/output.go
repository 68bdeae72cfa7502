package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/adsabs/adsmanparse/internal/config"
	"github.com/adsabs/adsmanparse/internal/counter"
	"github.com/adsabs/adsmanparse/internal/translator"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// warnHuman writes a highlighted warning to stderr in human mode.
func warnHuman(format string, args ...interface{}) {
	if !humanOutput {
		return
	}
	color.New(color.FgYellow).Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitCodeFor maps an error to its exit code tier.
func exitCodeFor(err error) int {
	var syntaxErr *json.SyntaxError
	switch {
	case err == nil:
		return ExitSuccess
	case counter.IsLoadError(err), counter.IsWriteError(err), errors.Is(err, counter.ErrUsage):
		return ExitCounterError
	case errors.Is(err, config.ErrCounterPathNotConfigured):
		return ExitConfigError
	case errors.Is(err, translator.ErrNoData), errors.As(err, &syntaxErr):
		return ExitDataError
	default:
		return ExitError
	}
}

// renderTable writes rows as a borderless, left-aligned table.
func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(header)
	table.Bulk(rows)
	table.Render()
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
