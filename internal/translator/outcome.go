package translator

import (
	"errors"
	"fmt"
)

// ErrNoData is returned by Translate when there is no record to translate.
var ErrNoData = errors.New("no ingest data to translate")

// ErrAbsent marks a field whose source substructure is not in the record.
// It is the common case and not a failure.
var ErrAbsent = errors.New("not present in record")

// Outcome reports what happened to one derivation step. A nil Err means the
// step produced its field(s).
type Outcome struct {
	Step string
	Err  error
}

// Skipped reports whether the step left its field(s) out.
func (o Outcome) Skipped() bool {
	return o.Err != nil
}

// Failed reports whether the step was skipped for a reason other than the
// source data being absent.
func (o Outcome) Failed() bool {
	return o.Err != nil && !errors.Is(o.Err, ErrAbsent)
}

func (o Outcome) String() string {
	if o.Err == nil {
		return o.Step + ": ok"
	}
	return fmt.Sprintf("%s: skipped: %v", o.Step, o.Err)
}

// MarshalText renders the outcome for JSON reports.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func absent(what string) error {
	return fmt.Errorf("%s %w", what, ErrAbsent)
}
