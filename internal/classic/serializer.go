package classic

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Serializer renders canonical records in the tagged format.
type Serializer struct {
	fields []Field
}

// NewSerializer returns a serializer using the fixed output schema.
func NewSerializer() *Serializer {
	return &Serializer{fields: Schema()}
}

// Output renders rec as tagged text. Absent and empty fields are skipped;
// a record is never rejected.
func (s *Serializer) Output(rec *Record) string {
	if rec == nil {
		return ""
	}

	var b strings.Builder
	for _, f := range s.fields {
		values := f.values(rec)
		if f.labeled {
			values = labelEntries(values)
		}
		value := joinNonEmpty(values, f.Sep)
		if value == "" {
			continue
		}
		fmt.Fprintf(&b, "%%%s %s\n", f.Tag, Clean(value))
	}
	return b.String()
}

// Write renders rec and writes it to w.
func (s *Serializer) Write(w io.Writer, rec *Record) error {
	if _, err := io.WriteString(w, s.Output(rec)); err != nil {
		return fmt.Errorf("writing tagged record: %w", err)
	}
	return nil
}

// AppendFile appends the tagged form of every record to the file at path,
// creating it if needed.
func (s *Serializer) AppendFile(path string, recs []*Record) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening tagged file for append: %w", err)
	}
	defer f.Close()

	for i, rec := range recs {
		if err := s.Write(f, rec); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

func joinNonEmpty(items []string, sep string) string {
	var kept []string
	for _, it := range items {
		if it != "" {
			kept = append(kept, it)
		}
	}
	return strings.Join(kept, sep)
}
