package counter

import (
	"errors"
	"fmt"
)

// ErrUsage is returned when a required argument is missing.
var ErrUsage = errors.New("counter: bibstem, year and counter path are all required")

// LoadError reports a counter file that exists but cannot be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load page counter %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// WriteError reports a failure to persist the counter file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write page counter %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsLoadError returns true if err is a counter load failure.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// IsWriteError returns true if err is a counter write failure.
func IsWriteError(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}

var errNotObject = errors.New("document is not a JSON object")
