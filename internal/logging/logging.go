// Package logging builds the structured logger shared by a run.
package logging

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// New returns a text logger at level writing to w. Every record carries a
// run_id so lines from one invocation can be grepped out of a shared log.
func New(w io.Writer, level slog.Level) (*slog.Logger, string) {
	runID := uuid.NewString()
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("run_id", runID), runID
}
