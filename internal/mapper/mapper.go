// Package mapper writes intermediate documents back as Croissant JSON-LD.
package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/TheLustriVA/Croissant-TOML/internal/catalog"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/ports/driven"
)

// Ensure Mapper implements the interface.
var _ driven.ReverseMapper = (*Mapper)(nil)

const (
	demographicsTerm = "rai:annotatorDemographics"
	typeKey          = "@type"
)

// Mapper maps intermediate documents to JSON-LD objects.
type Mapper struct {
	cat *catalog.Catalog
}

// New creates a mapper backed by the given catalog.
func New(cat *catalog.Catalog) *Mapper {
	return &Mapper{cat: cat}
}

// Map returns the JSON-LD object for doc. The input is not modified.
func (m *Mapper) Map(doc *domain.Document) (map[string]any, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", domain.ErrInvalidInput)
	}

	out := map[string]any{
		"@context": m.context(doc.Metadata),
		typeKey:    m.cat.DefaultType(catalog.KindDataset),
	}

	if err := m.properties(out, catalog.SectionMetadata, doc.Metadata); err != nil {
		return nil, err
	}

	var shared string
	if p := m.cat.SharedPrefix(); p != "" {
		shared = p + ":"
	}
	for _, k := range doc.Schema.Keys() {
		key := shared + k
		if e, ok := m.cat.Entry(catalog.SectionSchema, k); ok && e.JSONLD != "" {
			key = e.JSONLD
		}
		v, err := jsonValue(doc.Schema[k])
		if err != nil {
			return nil, fmt.Errorf("metadata.schema.%s: %w", k, err)
		}
		out[key] = v
	}

	if len(doc.Distribution) > 0 {
		items := make([]any, 0, len(doc.Distribution))
		for _, d := range doc.Distribution {
			obj := map[string]any{
				typeKey: m.cat.JSONLDValue(catalog.SectionDistribution, "type", d.Type),
				"@id":   d.ID,
			}
			if err := m.properties(obj, catalog.SectionDistribution, d.Properties); err != nil {
				return nil, err
			}
			items = append(items, obj)
		}
		out[m.collection("distribution")] = items
	}

	if len(doc.RecordSets) > 0 {
		items := make([]any, 0, len(doc.RecordSets))
		for _, rs := range doc.RecordSets {
			obj, err := m.recordSet(rs)
			if err != nil {
				return nil, err
			}
			items = append(items, obj)
		}
		out[m.collection("recordsets")] = items
	}

	if doc.RAI != nil {
		if err := m.rai(out, doc.RAI); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// context merges the built-in context with the document's custom entries.
// Remote imports come first, followed by the merged object.
func (m *Mapper) context(meta domain.Values) any {
	ctx := m.cat.Context()
	if custom, ok := meta["context"].(map[string]any); ok {
		for k, v := range custom {
			ctx[k] = domain.CloneValue(v)
		}
	}
	imports, ok := meta["contextImports"].([]any)
	if !ok || len(imports) == 0 {
		return ctx
	}
	out := make([]any, 0, len(imports)+1)
	for _, ref := range imports {
		out = append(out, domain.CloneValue(ref))
	}
	return append(out, ctx)
}

func (m *Mapper) collection(name string) string {
	col, ok := m.cat.CollectionNamed(name)
	if !ok {
		return name
	}
	return col.JSONLD
}

func (m *Mapper) recordSet(rs domain.RecordSet) (map[string]any, error) {
	obj := map[string]any{
		typeKey: m.cat.DefaultType(catalog.KindRecordSet),
		"@id":   rs.ID,
	}
	if err := m.properties(obj, catalog.SectionRecordSet, rs.Properties); err != nil {
		return nil, err
	}
	if rs.Key != nil {
		e, _ := m.cat.Entry(catalog.SectionRecordSet, "key")
		keys := make([]any, 0, len(rs.Key))
		for _, k := range rs.Key {
			keys = append(keys, ref(k))
		}
		obj[e.JSONLD] = keys
	}

	if len(rs.Fields) > 0 {
		fields := make([]any, 0, len(rs.Fields))
		for _, f := range rs.Fields {
			fobj, err := m.field(f)
			if err != nil {
				return nil, err
			}
			fields = append(fields, fobj)
		}
		obj[m.collection("fields")] = fields
	}
	return obj, nil
}

func (m *Mapper) field(f domain.Field) (map[string]any, error) {
	obj := map[string]any{
		typeKey: m.cat.DefaultType(catalog.KindField),
		"@id":   f.ID,
	}
	if err := m.properties(obj, catalog.SectionField, f.Properties); err != nil {
		return nil, err
	}
	if f.Source == nil {
		return obj, nil
	}

	src := map[string]any{}
	switch {
	case f.Source.FileObject != "":
		src["fileObject"] = ref(f.Source.FileObject)
	case f.Source.FileSet != "":
		src["fileSet"] = ref(f.Source.FileSet)
	}
	if len(f.Source.Extract) > 0 {
		extract := map[string]any{}
		if err := m.properties(extract, catalog.SectionExtract, f.Source.Extract); err != nil {
			return nil, err
		}
		src["extract"] = extract
	}
	if err := m.properties(src, catalog.SectionSource, f.Source.Properties); err != nil {
		return nil, err
	}
	obj["source"] = src
	return obj, nil
}

// rai writes catalogued keys as dataset-level rai:* properties. Extensions
// go into a nested rai object, which also marks the metadata as present.
func (m *Mapper) rai(out map[string]any, rai *domain.RAI) error {
	nested := map[string]any{}
	if err := m.split(out, nested, catalog.SectionRAI, rai.Properties); err != nil {
		return err
	}

	if a := rai.Annotation; a != nil {
		ann := map[string]any{}
		if err := m.split(out, ann, catalog.SectionAnnotation, a.Properties); err != nil {
			return err
		}
		nested["annotation"] = ann
		if a.Demographics != nil {
			demo := make(map[string]any, len(a.Demographics))
			for cat, buckets := range a.Demographics {
				counts := make(map[string]any, len(buckets))
				for label, n := range buckets {
					counts[label] = n
				}
				demo[cat] = counts
			}
			out[demographicsTerm] = demo
		}
	}

	out[catalog.SectionRAI] = nested
	return nil
}

// split writes catalogued keys to flat and the rest to ext.
func (m *Mapper) split(flat, ext map[string]any, section string, vals domain.Values) error {
	for _, k := range vals.Keys() {
		if _, ok := m.cat.Entry(section, k); ok {
			if err := m.property(flat, section, k, vals[k]); err != nil {
				return err
			}
			continue
		}
		v, err := jsonValue(vals[k])
		if err != nil {
			return fmt.Errorf("%s.%s: %w", section, k, err)
		}
		ext[k] = v
	}
	return nil
}

// properties writes every value of vals into obj. Catalog keys take their
// JSON-LD spelling; extensions pass through unchanged.
func (m *Mapper) properties(obj map[string]any, section string, vals domain.Values) error {
	for _, k := range vals.Keys() {
		if err := m.property(obj, section, k, vals[k]); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mapper) property(obj map[string]any, section, key string, val any) error {
	e, known := m.cat.Entry(section, key)
	switch {
	case known && e.Derived:
		return nil
	case known && e.Structural():
		return &domain.MappingError{Section: section, Key: key}
	case known:
		if len(e.Enum) > 0 {
			val = m.enum(section, key, val)
		}
		key = e.JSONLD
	}

	v, err := jsonValue(val)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", section, key, err)
	}
	// An extension @type replaces the implied one.
	obj[key] = v
	return nil
}

func (m *Mapper) enum(section, key string, v any) any {
	switch t := v.(type) {
	case string:
		return m.cat.JSONLDValue(section, key, t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = m.enum(section, key, item)
		}
		return out
	default:
		return v
	}
}

func ref(id string) map[string]any {
	return map[string]any{"@id": id}
}

// jsonValue copies a property value, turning floats into numbers that keep
// their fractional form so they decode as floats again.
func jsonValue(v any) (any, error) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("%w: %v cannot be written as JSON", domain.ErrInvalidInput, t)
		}
		s := strconv.FormatFloat(t, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return json.Number(s), nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			c, err := jsonValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			c, err := jsonValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	default:
		return v, nil
	}
}

// Encode serialises a JSON-LD object with the given indent width. Zero
// gives compact output. HTML characters are not escaped.
func (m *Mapper) Encode(obj map[string]any, indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(obj); err != nil {
		return nil, fmt.Errorf("failed to encode JSON-LD: %w", err)
	}
	return buf.Bytes(), nil
}
