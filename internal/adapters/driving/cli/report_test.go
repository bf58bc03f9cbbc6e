package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

func TestFormatDiagnostic(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		diag     domain.Diagnostic
		expected string
	}{
		{
			name:     "error with path",
			file:     "a.toml",
			diag:     domain.Diagnostic{Path: "metadata.name", Message: "required", Severity: domain.SeverityError},
			expected: "a.toml: error metadata.name: required",
		},
		{
			name:     "warning without file",
			diag:     domain.Diagnostic{Path: "metadata.x", Message: "unknown key", Severity: domain.SeverityWarning},
			expected: "warning metadata.x: unknown key",
		},
		{
			name:     "no path",
			file:     "a.toml",
			diag:     domain.Diagnostic{Message: "empty document", Severity: domain.SeverityError},
			expected: "a.toml: error: empty document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDiagnostic(tt.file, tt.diag, false))
		})
	}
}

func TestFormatDiagnostic_StyledKeepsText(t *testing.T) {
	d := domain.Diagnostic{Path: "distribution.d1.sha256", Message: "bad checksum", Severity: domain.SeverityError}

	got := formatDiagnostic("a.toml", d, true)

	assert.Contains(t, got, "error")
	assert.Contains(t, got, "distribution.d1.sha256")
	assert.Contains(t, got, ": bad checksum")
}

func TestVerdict(t *testing.T) {
	warn := domain.Diagnostic{Severity: domain.SeverityWarning}
	fail := domain.Diagnostic{Severity: domain.SeverityError}

	tests := []struct {
		name     string
		report   *domain.Report
		expected string
	}{
		{"clean", &domain.Report{Valid: true}, "a.toml: valid (0 errors, 0 warnings)"},
		{"warning", &domain.Report{Valid: true, Diagnostics: []domain.Diagnostic{warn}}, "a.toml: valid (0 errors, 1 warning)"},
		{"errors", &domain.Report{Diagnostics: []domain.Diagnostic{fail, fail, warn, warn}}, "a.toml: invalid (2 errors, 2 warnings)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, verdict("a.toml", tt.report, false))
		})
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, "a.toml", &domain.Report{Diagnostics: []domain.Diagnostic{
		{Path: "metadata.name", Message: "required", Severity: domain.SeverityError},
		{Path: "metadata.x", Message: "unknown", Severity: domain.SeverityWarning},
	}})

	assert.Equal(t, "a.toml: error metadata.name: required\na.toml: warning metadata.x: unknown\n", buf.String())
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}
