// Package validator checks decoded TOML documents against the field catalog.
//
// Four passes run in order and every finding is collected: schema (structure
// and value types), format (URLs, dates, hashes), vocabulary (enumerated
// values) and reference (source links and identifier uniqueness).
package validator

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/TheLustriVA/Croissant-TOML/internal/catalog"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/ports/driven"
)

// Ensure Validator implements the interface.
var _ driven.Validator = (*Validator)(nil)

// Validator validates TOML trees. It is safe for concurrent use.
type Validator struct {
	cat    *catalog.Catalog
	schema *gojsonschema.Schema
}

// New creates a validator, compiling the catalog's JSON Schema.
func New(cat *catalog.Catalog) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(cat.JSONSchema()))
	if err != nil {
		return nil, fmt.Errorf("failed to compile catalog schema: %w", err)
	}
	return &Validator{cat: cat, schema: schema}, nil
}

// Validate runs every pass over the tree. Findings never stop later passes.
func (v *Validator) Validate(tree *domain.Tree) *domain.Report {
	if tree == nil || tree.Data == nil {
		tree = &domain.Tree{Data: map[string]any{}}
	}

	var diags []domain.Diagnostic
	diags = append(diags, v.checkSchema(tree)...)
	diags = append(diags, v.checkFormats(tree)...)
	diags = append(diags, v.checkVocabulary(tree)...)
	diags = append(diags, v.checkReferences(tree)...)

	report := &domain.Report{Diagnostics: diags}
	report.Valid = !report.HasErrors()
	return report
}

func errorAt(check domain.Check, path, format string, args ...any) domain.Diagnostic {
	return domain.Diagnostic{
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
		Severity: domain.SeverityError,
		Check:    check,
	}
}

func warningAt(check domain.Check, path, format string, args ...any) domain.Diagnostic {
	d := errorAt(check, path, format, args...)
	d.Severity = domain.SeverityWarning
	return d
}

// texts returns the string values of a scalar or list value.
func texts(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
