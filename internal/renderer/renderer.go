// Package renderer writes intermediate documents as commented TOML.
package renderer

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/TheLustriVA/Croissant-TOML/internal/catalog"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/ports/driven"
	"github.com/TheLustriVA/Croissant-TOML/internal/renderer/comments"
	"github.com/TheLustriVA/Croissant-TOML/internal/textparser"
)

// Ensure Renderer implements the interface.
var _ driven.Renderer = (*Renderer)(nil)

// Top-level table names.
const (
	tableMetadata     = "metadata"
	tableSchema       = "schema"
	tableDistribution = "distribution"
	tableRecordSets   = "recordsets"
	tableFields       = "fields"
	tableSource       = "source"
	tableRAI          = "rai"
	tableAnnotation   = "annotation"
	tableDemographics = "demographics"

	keyExtract = "extract"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithComments toggles the description comment above each catalog key.
func WithComments(on bool) Option {
	return func(r *Renderer) { r.showComments = on }
}

// WithHeader toggles the provenance comment block at the top of the output.
func WithHeader(on bool) Option {
	return func(r *Renderer) { r.showHeader = on }
}

// Renderer produces TOML text from an intermediate document.
// Output depends only on the document and the options: equal documents
// render to identical bytes.
type Renderer struct {
	cat          *catalog.Catalog
	showComments bool
	showHeader   bool
}

// New creates a renderer. Comments and the header are on by default.
func New(cat *catalog.Catalog, opts ...Option) *Renderer {
	r := &Renderer{cat: cat, showComments: true, showHeader: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes doc as TOML. The document is assumed valid; Render does not
// re-check identifiers or references.
func (r *Renderer) Render(doc *domain.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	w := &writer{Renderer: r}

	if r.showHeader {
		w.comment(comments.Title)
		w.comment(comments.Provenance)
		if urls := doc.ConformsTo(); len(urls) > 0 {
			w.comment(comments.ConformsTo(urls[0]))
		}
	}

	if err := w.table(catalog.SectionMetadata, doc.Metadata, tableMetadata); err != nil {
		return nil, err
	}
	if len(doc.Schema) > 0 {
		if err := w.table(catalog.SectionSchema, doc.Schema, tableMetadata, tableSchema); err != nil {
			return nil, err
		}
	}

	for _, d := range doc.Distribution {
		vals := with(d.Properties, "type", d.Type, "id", d.ID)
		if err := w.arrayTable(catalog.SectionDistribution, vals, tableDistribution); err != nil {
			return nil, err
		}
	}

	for _, rs := range doc.RecordSets {
		if err := w.recordSet(rs); err != nil {
			return nil, err
		}
	}

	if doc.RAI != nil {
		if err := w.rai(doc.RAI); err != nil {
			return nil, err
		}
	}

	return w.buf.Bytes(), nil
}

type writer struct {
	*Renderer
	buf bytes.Buffer
}

func (w *writer) recordSet(rs domain.RecordSet) error {
	vals := rs.Properties
	if len(rs.Key) > 0 {
		keys := make([]any, len(rs.Key))
		for i, k := range rs.Key {
			keys[i] = k
		}
		vals = with(vals, "key", keys)
	}
	if err := w.table(catalog.SectionRecordSet, vals, tableRecordSets, rs.ID); err != nil {
		return err
	}

	for _, f := range rs.Fields {
		if err := w.arrayTable(catalog.SectionField, with(f.Properties, "id", f.ID), tableRecordSets, rs.ID, tableFields); err != nil {
			return err
		}
		if f.Source == nil {
			continue
		}
		src := f.Source.Properties
		if f.Source.FileObject != "" {
			src = with(src, "fileObject", f.Source.FileObject)
		}
		if f.Source.FileSet != "" {
			src = with(src, "fileSet", f.Source.FileSet)
		}
		if err := w.table(catalog.SectionSource, src, tableRecordSets, rs.ID, tableFields, tableSource); err != nil {
			return err
		}
		if len(f.Source.Extract) > 0 {
			if err := w.keyValue(catalog.SectionSource, keyExtract, w.inline(catalog.SectionExtract, f.Source.Extract)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *writer) rai(rai *domain.RAI) error {
	w.blank()
	if w.showComments {
		w.comment(comments.RAI)
	}
	if err := w.heading(tableRAI); err != nil {
		return err
	}
	if err := w.values(catalog.SectionRAI, rai.Properties); err != nil {
		return err
	}

	a := rai.Annotation
	if a == nil {
		return nil
	}
	if err := w.table(catalog.SectionAnnotation, a.Properties, tableRAI, tableAnnotation); err != nil {
		return err
	}
	if a.Demographics == nil {
		return nil
	}

	demo := make(domain.Values, len(a.Demographics))
	for category, buckets := range a.Demographics {
		counts := make(map[string]any, len(buckets))
		for label, n := range buckets {
			counts[label] = n
		}
		demo[category] = counts
	}
	return w.table("", demo, tableRAI, tableAnnotation, tableDemographics)
}

// table writes [path] followed by the section's values.
func (w *writer) table(section string, vals domain.Values, path ...string) error {
	w.blank()
	if err := w.heading(path...); err != nil {
		return err
	}
	return w.values(section, vals)
}

// arrayTable writes [[path]] followed by the section's values.
func (w *writer) arrayTable(section string, vals domain.Values, path ...string) error {
	w.blank()
	key, err := dotted(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(&w.buf, "[[%s]]\n", key)
	return w.values(section, vals)
}

func (w *writer) heading(path ...string) error {
	key, err := dotted(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(&w.buf, "[%s]\n", key)
	return nil
}

// values writes keys in catalog order, then the remaining keys sorted.
func (w *writer) values(section string, vals domain.Values) error {
	for _, key := range w.order(section, vals) {
		if err := w.keyValue(section, key, w.literal(section, key, vals[key])); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) order(section string, vals domain.Values) []string {
	keys := make([]string, 0, len(vals))
	known := make(map[string]bool)
	for _, k := range w.cat.Order(section) {
		known[k] = true
		if _, ok := vals[k]; ok {
			keys = append(keys, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(vals)) {
		if !known[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

func (w *writer) keyValue(section, key string, v any) error {
	if w.showComments && section != "" {
		if text := comments.For(w.cat, section, key); text != "" {
			w.comment(text)
		}
	}
	line, err := encode(key, v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	w.buf.Write(line)
	return nil
}

// literal swaps date strings for native TOML dates on date-typed catalog keys.
func (w *writer) literal(section, key string, v any) any {
	e, ok := w.cat.Entry(section, key)
	if !ok || e.Format != catalog.FormatDate {
		return v
	}
	s, ok := v.(string)
	if !ok {
		return v
	}
	if d, ok := textparser.DateLiteral(s); ok {
		return d
	}
	return v
}

// inline converts a nested section to a map with date literals applied.
func (w *writer) inline(section string, vals domain.Values) map[string]any {
	out := make(map[string]any, len(vals))
	for k, v := range vals {
		out[k] = w.literal(section, k, v)
	}
	return out
}

func (w *writer) comment(text string) {
	fmt.Fprintf(&w.buf, "# %s\n", text)
}

func (w *writer) blank() {
	if w.buf.Len() > 0 {
		w.buf.WriteByte('\n')
	}
}

// encode writes one key = value line with go-toml, nested tables inline.
func encode(key string, v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetTablesInline(true)
	if err := enc.Encode(map[string]any{key: v}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// quoteKey returns key as go-toml spells it on the left of '='.
func quoteKey(key string) (string, error) {
	line, err := encode(key, true)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(line), " = true\n"), nil
}

func dotted(path []string) (string, error) {
	parts := make([]string, len(path))
	for i, p := range path {
		q, err := quoteKey(p)
		if err != nil {
			return "", fmt.Errorf("failed to encode table key %q: %w", p, err)
		}
		parts[i] = q
	}
	return strings.Join(parts, "."), nil
}

// with returns a copy of vals with the given key/value pairs added.
func with(vals domain.Values, kv ...any) domain.Values {
	out := make(domain.Values, len(vals)+len(kv)/2)
	maps.Copy(out, vals)
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i].(string)] = kv[i+1]
	}
	return out
}
