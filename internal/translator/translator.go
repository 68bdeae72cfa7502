// Package translator derives canonical classic records from ingest records.
//
// Each derivation step is isolated: a step that fails is logged, reported
// as an Outcome, and its field is left out. Only a missing record is a hard
// error.
package translator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/adsabs/adsmanparse/internal/bibcode"
	"github.com/adsabs/adsmanparse/internal/classic"
	"github.com/adsabs/adsmanparse/internal/ingest"
)

// Step names used in outcomes and logs.
const (
	StepSpecial     = "special"
	StepTitle       = "title"
	StepAbstract    = "abstract"
	StepKeywords    = "keywords"
	StepAuthors     = "authors"
	StepPubDate     = "pubdate"
	StepReferences  = "references"
	StepProperties  = "properties"
	StepPublication = "publication"
	StepBibcode     = "bibcode"
	StepCopyright   = "copyright"
)

// Options are the per-call translation settings.
type Options struct {
	// Bibstem selects special handling and overrides the bibcode bibstem.
	Bibstem string
	// Volume overrides the bibcode volume.
	Volume string
	// RecordFilename adds the record's load location as the FILE property.
	RecordFilename bool
}

// Result is the output of one translation.
type Result struct {
	Record *classic.Record
	// Input is the record the field steps actually read, after any bibstem
	// special handling.
	Input      *ingest.Record
	References []string
	Outcomes   []Outcome
}

// Skipped returns the outcomes of steps that did not produce a field.
func (r *Result) Skipped() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Skipped() {
			out = append(out, o)
		}
	}
	return out
}

// Outcome returns the outcome recorded for step.
func (r *Result) Outcome(step string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Step == step {
			return o, true
		}
	}
	return Outcome{}, false
}

// Translator turns ingest records into classic records. It keeps no state
// between calls and may be reused.
type Translator struct {
	bibcodes bibcode.Generator
	logger   *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger for per-field diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		t.logger = l
	}
}

// New creates a Translator. gen may be nil, in which case records never
// get a bibcode.
func New(gen bibcode.Generator, opts ...Option) *Translator {
	t := &Translator{
		bibcodes: gen,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate derives a classic record from rec. The input is not modified.
func (t *Translator) Translate(ctx context.Context, rec *ingest.Record, opts Options) (*Result, error) {
	if rec == nil {
		return nil, ErrNoData
	}

	out := &classic.Record{}
	res := &Result{Record: out}

	input, publication, err := applySpecial(Classify(opts.Bibstem), rec)
	t.record(res, StepSpecial, err)
	res.Input = input
	if publication != "" {
		out.Publication = publication
	}

	t.record(res, StepTitle, deriveTitle(input, out))
	t.record(res, StepAbstract, deriveAbstract(input, out))
	t.record(res, StepKeywords, deriveKeywords(input, out))
	t.record(res, StepAuthors, deriveAuthors(input, out))
	t.record(res, StepPubDate, derivePubDate(input, out))

	if len(input.References) > 0 {
		res.References = input.References
		t.record(res, StepReferences, nil)
	} else {
		t.record(res, StepReferences, absent("references"))
	}

	t.record(res, StepProperties, deriveProperties(input, out, opts.RecordFilename))
	t.record(res, StepPublication, derivePublication(input, out))
	t.record(res, StepBibcode, t.deriveBibcode(ctx, input, out, opts))
	t.record(res, StepCopyright, deriveCopyright(input, out))

	return res, nil
}

func (t *Translator) record(res *Result, step string, err error) {
	res.Outcomes = append(res.Outcomes, Outcome{Step: step, Err: err})
	switch {
	case err == nil:
	case errors.Is(err, ErrAbsent):
		t.logger.Debug("field absent", "field", step)
	default:
		t.logger.Warn("field skipped", "field", step, "error", err)
	}
}

func (t *Translator) deriveBibcode(ctx context.Context, rec *ingest.Record, out *classic.Record, opts Options) error {
	if t.bibcodes == nil {
		return absent("bibcode generator")
	}
	code, err := t.bibcodes.MakeBibcode(ctx, rec, opts.Bibstem, opts.Volume)
	if err != nil {
		return err
	}
	out.Bibcode = code
	return nil
}
