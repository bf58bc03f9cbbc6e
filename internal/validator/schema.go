package validator

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/TheLustriVA/Croissant-TOML/internal/catalog"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

const (
	rootContext = "(root)"
	contextSep  = "\x00"
)

// checkSchema evaluates the catalog schema, then warns about keys the
// catalog does not know inside known tables.
func (v *Validator) checkSchema(tree *domain.Tree) []domain.Diagnostic {
	var out []domain.Diagnostic

	result, err := v.schema.Validate(gojsonschema.NewGoLoader(tree.Data))
	if err != nil {
		out = append(out, errorAt(domain.CheckSchema, "", "document could not be checked: %v", err))
	} else {
		for _, re := range result.Errors() {
			out = append(out, schemaDiagnostic(tree.Data, re))
		}
		slices.SortStableFunc(out, func(a, b domain.Diagnostic) int {
			return strings.Compare(a.Path, b.Path)
		})
	}

	for _, e := range walk(tree) {
		if e.section == catalog.SectionSchema {
			// Any shared-vocabulary term may appear here.
			continue
		}
		for _, k := range keys(v.cat, e) {
			if _, ok := v.cat.Entry(e.section, k); ok {
				continue
			}
			path := e.path + "." + k
			if entry, ok := v.cat.Resolve(e.section, k); ok {
				out = append(out, warningAt(domain.CheckSchema, path, "unknown key %q is kept as an extension; did you mean %q?", k, entry.Key))
				continue
			}
			out = append(out, warningAt(domain.CheckSchema, path, "unknown key %q is kept as an extension", k))
		}
	}

	return out
}

func schemaDiagnostic(data map[string]any, re gojsonschema.ResultError) domain.Diagnostic {
	segs := strings.Split(re.Context().String(contextSep), contextSep)
	if len(segs) > 0 && segs[0] == rootContext {
		segs = segs[1:]
	}

	prop, _ := re.Details()["property"].(string)
	switch re.Type() {
	case "required":
		segs = append(segs, prop)
		return errorAt(domain.CheckSchema, translate(data, segs), "required field %q is missing", prop)
	case "additional_property_not_allowed":
		segs = append(segs, prop)
		if len(segs) == 1 {
			return errorAt(domain.CheckSchema, translate(data, segs), "unknown top-level table %q", prop)
		}
		return errorAt(domain.CheckSchema, translate(data, segs), "unknown key %q", prop)
	default:
		return errorAt(domain.CheckSchema, translate(data, segs), "%s", re.Description())
	}
}

// translate turns schema context segments into a layout path, addressing
// array members by id where they have one.
func translate(data any, segs []string) string {
	var parts []string
	cur := data
	for _, s := range segs {
		switch c := cur.(type) {
		case map[string]any:
			parts = append(parts, s)
			cur = c[s]
		case []any:
			i, err := strconv.Atoi(s)
			if err != nil || i < 0 || i >= len(c) {
				parts = append(parts, s)
				cur = nil
				continue
			}
			cur = c[i]
			if m, ok := cur.(map[string]any); ok {
				if id, ok := m["id"].(string); ok && id != "" {
					parts = append(parts, id)
					continue
				}
			}
			if n := len(parts); n > 0 {
				parts[n-1] = fmt.Sprintf("%s[%d]", parts[n-1], i)
			} else {
				parts = append(parts, fmt.Sprintf("[%d]", i))
			}
		default:
			parts = append(parts, s)
			cur = nil
		}
	}
	return strings.Join(parts, ".")
}
