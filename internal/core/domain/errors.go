package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent conversion failures.
// These are distinct from infrastructure errors such as file I/O.
var (
	// ErrParse indicates the input is not well-formed for its source format,
	// or a structurally required field is missing.
	ErrParse = errors.New("parse error")

	// ErrValidation indicates a document produced error-severity diagnostics.
	ErrValidation = errors.New("validation failed")

	// ErrMapping indicates a canonical key has no reverse mapping.
	// This points at a gap in the field catalog, not at user data.
	ErrMapping = errors.New("no reverse mapping")

	// ErrDecode indicates the structured text could not be decoded as TOML at all.
	ErrDecode = errors.New("decode failed")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRoundTrip indicates a forward-then-reverse conversion changed the document.
	ErrRoundTrip = errors.New("round trip mismatch")
)

// ParseError reports a fatal problem at a specific path of the input.
type ParseError struct {
	// Path is the dot-separated location of the problem, empty for the document root.
	Path string

	// Err describes what was wrong.
	Err error
}

// NewParseError creates a ParseError with a formatted message.
func NewParseError(path, format string, args ...any) *ParseError {
	return &ParseError{Path: path, Err: fmt.Errorf(format, args...)}
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", ErrParse, e.Err)
	}
	return fmt.Sprintf("%s at %s: %v", ErrParse, e.Path, e.Err)
}

// Unwrap allows errors.Is(err, ErrParse) as well as matching the cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// ValidationError carries the full report of a failed validation.
type ValidationError struct {
	Report *Report
}

func (e *ValidationError) Error() string {
	if e.Report == nil {
		return ErrValidation.Error()
	}
	errs := e.Report.Errors()
	if len(errs) == 1 {
		return fmt.Sprintf("%s: %s", ErrValidation, errs[0])
	}
	return fmt.Sprintf("%s: %d errors", ErrValidation, len(errs))
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// MappingError reports a catalog key that cannot be written back as JSON-LD.
type MappingError struct {
	Section string
	Key     string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s for %s.%s", ErrMapping, e.Section, e.Key)
}

// Unwrap allows errors.Is(err, ErrMapping).
func (e *MappingError) Unwrap() error {
	return ErrMapping
}
