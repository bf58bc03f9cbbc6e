package domain

import "fmt"

// Severity grades a diagnostic.
type Severity string

// Diagnostic severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Check names the validation pass that produced a diagnostic.
type Check string

// Validation passes, in the order they run.
const (
	CheckSchema     Check = "schema"
	CheckFormat     Check = "format"
	CheckVocabulary Check = "vocabulary"
	CheckReference  Check = "reference"
)

// Diagnostic is a single finding from validation.
type Diagnostic struct {
	// Path is the dot-separated canonical path of the offending field.
	Path string

	// Message is the human-readable description.
	Message string

	// Severity is error or warning.
	Severity Severity

	// Check is the pass that reported the finding.
	Check Check
}

// String formats the diagnostic as "severity path: message".
func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Path, d.Message)
}

// Report is the outcome of validating one document.
type Report struct {
	// Valid is true when no error-severity diagnostics were found.
	Valid bool

	// Diagnostics are ordered by pass, then by position in the document.
	Diagnostics []Diagnostic
}

// Errors returns the error-severity diagnostics.
func (r *Report) Errors() []Diagnostic {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity diagnostics.
func (r *Report) Warnings() []Diagnostic {
	return r.filter(SeverityWarning)
}

// HasErrors returns true if any diagnostic is an error.
func (r *Report) HasErrors() bool {
	return len(r.Errors()) > 0
}

// Strict returns a copy of the report where warnings count as errors.
func (r *Report) Strict() *Report {
	out := &Report{Valid: true, Diagnostics: make([]Diagnostic, len(r.Diagnostics))}
	for i, d := range r.Diagnostics {
		d.Severity = SeverityError
		out.Diagnostics[i] = d
		out.Valid = false
	}
	return out
}

func (r *Report) filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}
