// Package jsonld normalises Croissant JSON-LD documents into the
// intermediate form.
//
// Keys are resolved through the document's @context, then by namespace and
// finally through the field catalog. Recognised keys take their canonical
// spelling; anything else is kept verbatim so a forward and reverse
// conversion loses nothing.
package jsonld

import (
	"github.com/TheLustriVA/Croissant-TOML/internal/catalog"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const demographicsTerm = "annotatorDemographics"

// Normaliser converts JSON-LD to the intermediate document.
// It holds no state between calls and is safe for concurrent use.
type Normaliser struct {
	cat *catalog.Catalog
}

// New creates a normaliser backed by the given catalog.
func New(cat *catalog.Catalog) *Normaliser {
	return &Normaliser{cat: cat}
}

// Normalise parses JSON-LD bytes into an intermediate document.
func (n *Normaliser) Normalise(data []byte) (*domain.Document, error) {
	raw, err := decode(data)
	if err != nil {
		return nil, err
	}

	s, err := newScope(n.cat, raw["@context"])
	if err != nil {
		return nil, err
	}

	b := &builder{scope: s}
	return b.dataset(raw)
}

type builder struct {
	*scope

	rai        *target
	annotation *target
	demo       map[string]map[string]int64
	demoKey    string
}

func (b *builder) dataset(raw map[string]any) (*domain.Document, error) {
	meta := newTarget()
	schema := newTarget()

	var (
		dists     []map[string]any
		distPath  string
		sets      []map[string]any
		setsPath  string
		collected = make(map[string]string)
	)

	for _, key := range sortedKeys(raw) {
		val := raw[key]

		switch key {
		case "@context":
			continue
		case "@type":
			if b.isDefaultType(val, catalog.KindDataset) {
				continue
			}
		}

		if col, ok := b.collection(key, "distribution", "recordsets"); ok {
			if prev, dup := collected[col.Name]; dup {
				return nil, domain.NewParseError(key, "collection %s is also given as %q; mixed spellings are ambiguous", col.Name, prev)
			}
			collected[col.Name] = key
			items, err := objects(key, val)
			if err != nil {
				return nil, err
			}
			if col.Name == "distribution" {
				dists, distPath = items, key
			} else {
				sets, setsPath = items, key
			}
			continue
		}

		if b.is(key, "", catalog.SectionRAI) {
			obj, ok := val.(map[string]any)
			if !ok {
				return nil, domain.NewParseError(key, "expected an object, got %s", kind(val))
			}
			if err := b.raiObject(key, obj); err != nil {
				return nil, err
			}
			continue
		}

		if e, ok := b.resolve(catalog.SectionMetadata, key); ok {
			if err := meta.put(key, e.Key, key, b.value(e, val)); err != nil {
				return nil, err
			}
			continue
		}

		t := b.term(key)
		if t.ns == b.namespace("rai") {
			if err := b.raiKey(key, t.local, val); err != nil {
				return nil, err
			}
			continue
		}

		if t.ns == b.cat.SharedVocabulary() || (!t.qualified && b.knownSchemaTerm(t.local)) {
			if err := schema.put(key, t.local, key, val); err != nil {
				return nil, err
			}
			continue
		}

		if err := b.extension(meta, catalog.SectionMetadata, key, val); err != nil {
			return nil, err
		}
	}

	if len(b.custom) > 0 {
		meta.values["context"] = map[string]any(b.custom)
	}
	if len(b.imports) > 0 {
		meta.values["contextImports"] = b.imports
	}

	if _, ok := meta.values["conformsTo"]; !ok {
		return nil, domain.NewParseError("conformsTo", "conformsTo is required")
	}

	doc := &domain.Document{Metadata: meta.values, Schema: schema.values}

	types := make(map[string]string, len(dists))
	for i, raw := range dists {
		d, err := b.distribution(index(distPath, i), raw)
		if err != nil {
			return nil, err
		}
		if d.ID != "" {
			types[d.ID] = d.Type
		}
		doc.Distribution = append(doc.Distribution, d)
	}

	ids := make(map[string]bool, len(sets))
	for i, raw := range sets {
		path := index(setsPath, i)
		rs, err := b.recordSet(path, raw, types)
		if err != nil {
			return nil, err
		}
		if ids[rs.ID] {
			return nil, domain.NewParseError(path, "duplicate record set id %q", rs.ID)
		}
		ids[rs.ID] = true
		doc.RecordSets = append(doc.RecordSets, rs)
	}

	if b.rai != nil || b.annotation != nil || b.demo != nil {
		doc.RAI = &domain.RAI{Properties: domain.Values{}}
		if b.rai != nil {
			doc.RAI.Properties = b.rai.values
		}
		if b.annotation != nil || b.demo != nil {
			doc.RAI.Annotation = &domain.Annotation{Properties: domain.Values{}, Demographics: b.demo}
			if b.annotation != nil {
				doc.RAI.Annotation.Properties = b.annotation.values
			}
		}
	}

	return doc, nil
}

func (b *builder) knownSchemaTerm(key string) bool {
	_, ok := b.cat.Resolve(catalog.SectionSchema, key)
	return ok
}

// value applies catalog conversions: enumerated spellings are canonicalised
// and a scalar given for a list field becomes a one-element list.
func (b *builder) value(e catalog.Entry, v any) any {
	if len(e.Enum) > 0 {
		v = b.canonicalEnum(e.Section, e.Key, v)
	}
	if e.IsArray() {
		if _, ok := v.([]any); !ok {
			v = []any{v}
		}
	}
	return v
}

// extension keeps an unrecognised key verbatim. Keys that would be read back
// as catalog or structural keys are rejected.
func (b *builder) extension(t *target, section, key string, val any) error {
	if _, ok := b.cat.Entry(section, key); ok || b.cat.IsNested(section, key) {
		return domain.NewParseError(key, "key %q is reserved in %s", key, section)
	}
	return t.put(key, key, key, val)
}

func (b *builder) distribution(path string, raw map[string]any) (domain.Distribution, error) {
	t := newTarget()
	var d domain.Distribution

	for _, key := range sortedKeys(raw) {
		val := raw[key]
		kpath := join(path, key)

		canonical := ""
		switch key {
		case "@id":
			canonical = "id"
		case "@type":
			canonical = "type"
		default:
			if e, ok := b.resolve(catalog.SectionDistribution, key); ok {
				canonical = e.Key
			}
		}

		switch canonical {
		case "id":
			if err := t.claim(kpath, "id", key); err != nil {
				return d, err
			}
			id, ok := val.(string)
			if !ok {
				return d, domain.NewParseError(kpath, "distribution id must be a string")
			}
			d.ID = id
		case "type":
			if err := t.claim(kpath, "type", key); err != nil {
				return d, err
			}
			typ, ok := val.(string)
			if !ok {
				return d, domain.NewParseError(kpath, "distribution type must be a string")
			}
			d.Type = b.canonicalEnum(catalog.SectionDistribution, "type", typ).(string)
		case "":
			if err := b.extension(t, catalog.SectionDistribution, key, val); err != nil {
				return d, withPath(err, path)
			}
		default:
			e, _ := b.cat.Entry(catalog.SectionDistribution, canonical)
			if err := t.put(kpath, canonical, key, b.value(e, val)); err != nil {
				return d, err
			}
		}
	}

	if d.Type == "" {
		return d, domain.NewParseError(path, "distribution needs an @type of %s or %s", domain.FileObject, domain.FileSet)
	}
	d.Properties = t.values
	return d, nil
}

func (b *builder) recordSet(path string, raw map[string]any, types map[string]string) (domain.RecordSet, error) {
	t := newTarget()
	var rs domain.RecordSet
	var fieldsKey string

	for _, key := range sortedKeys(raw) {
		val := raw[key]
		kpath := join(path, key)

		switch key {
		case "@id":
			if err := t.claim(kpath, "id", key); err != nil {
				return rs, err
			}
			id, ok := val.(string)
			if !ok {
				return rs, domain.NewParseError(kpath, "record set id must be a string")
			}
			rs.ID = id
			continue
		case "@type":
			if b.isDefaultType(val, catalog.KindRecordSet) {
				continue
			}
			if err := t.put(kpath, key, key, val); err != nil {
				return rs, err
			}
			continue
		}

		if _, ok := b.collection(key, "fields"); ok {
			if fieldsKey != "" {
				return rs, domain.NewParseError(kpath, "fields are also given as %q; mixed spellings are ambiguous", fieldsKey)
			}
			fieldsKey = key
			items, err := objects(kpath, val)
			if err != nil {
				return rs, err
			}
			ids := make(map[string]bool, len(items))
			for i, item := range items {
				f, err := b.field(index(kpath, i), item, types)
				if err != nil {
					return rs, err
				}
				if f.ID != "" && ids[f.ID] {
					return rs, domain.NewParseError(index(kpath, i), "duplicate field id %q", f.ID)
				}
				ids[f.ID] = true
				rs.Fields = append(rs.Fields, f)
			}
			continue
		}

		e, ok := b.resolve(catalog.SectionRecordSet, key)
		switch {
		case !ok:
			if err := b.extension(t, catalog.SectionRecordSet, key, val); err != nil {
				return rs, withPath(err, path)
			}
		case e.Key == "id":
			if err := t.claim(kpath, "id", key); err != nil {
				return rs, err
			}
			id, ok := val.(string)
			if !ok {
				return rs, domain.NewParseError(kpath, "record set id must be a string")
			}
			rs.ID = id
		case e.Key == "key":
			if err := t.claim(kpath, "key", key); err != nil {
				return rs, err
			}
			keys, err := references(kpath, val)
			if err != nil {
				return rs, err
			}
			rs.Key = keys
		default:
			if err := t.put(kpath, e.Key, key, b.value(e, val)); err != nil {
				return rs, err
			}
		}
	}

	if rs.ID == "" {
		return rs, domain.NewParseError(path, "record set needs a non-empty @id")
	}
	rs.Properties = t.values
	return rs, nil
}

func (b *builder) field(path string, raw map[string]any, types map[string]string) (domain.Field, error) {
	t := newTarget()
	var f domain.Field
	cr := b.namespace("cr")

	for _, key := range sortedKeys(raw) {
		val := raw[key]
		kpath := join(path, key)

		switch key {
		case "@id":
			if err := t.claim(kpath, "id", key); err != nil {
				return f, err
			}
			id, ok := val.(string)
			if !ok {
				return f, domain.NewParseError(kpath, "field id must be a string")
			}
			f.ID = id
			continue
		case "@type":
			if b.isDefaultType(val, catalog.KindField) {
				continue
			}
			if err := t.put(kpath, key, key, val); err != nil {
				return f, err
			}
			continue
		}

		if b.is(key, cr, catalog.SectionSource) {
			if err := t.claim(kpath, catalog.SectionSource, key); err != nil {
				return f, err
			}
			src, err := b.source(kpath, val, types)
			if err != nil {
				return f, err
			}
			f.Source = src
			continue
		}

		e, ok := b.resolve(catalog.SectionField, key)
		switch {
		case !ok:
			if err := b.extension(t, catalog.SectionField, key, val); err != nil {
				return f, withPath(err, path)
			}
		case e.Key == "id":
			if err := t.claim(kpath, "id", key); err != nil {
				return f, err
			}
			id, ok := val.(string)
			if !ok {
				return f, domain.NewParseError(kpath, "field id must be a string")
			}
			f.ID = id
		default:
			if err := t.put(kpath, e.Key, key, b.value(e, val)); err != nil {
				return f, err
			}
		}
	}

	f.Properties = t.values
	return f, nil
}

func (b *builder) source(path string, val any, types map[string]string) (*domain.Source, error) {
	if ref, err := reference(path, val); err == nil {
		return b.sourceRef(ref, types), nil
	}

	raw, ok := val.(map[string]any)
	if !ok {
		return nil, domain.NewParseError(path, "source must be a reference or an object, got %s", kind(val))
	}

	t := newTarget()
	src := &domain.Source{Extract: domain.Values{}}
	cr := b.namespace("cr")

	for _, key := range sortedKeys(raw) {
		v := raw[key]
		kpath := join(path, key)

		if b.is(key, cr, catalog.SectionExtract) {
			if err := t.claim(kpath, catalog.SectionExtract, key); err != nil {
				return nil, err
			}
			extract, err := b.extract(kpath, v)
			if err != nil {
				return nil, err
			}
			src.Extract = extract
			continue
		}

		if b.is(key, "", "distribution") {
			if err := t.claim(kpath, "fileObject", key); err != nil {
				return nil, err
			}
			ref, err := reference(kpath, v)
			if err != nil {
				return nil, err
			}
			resolved := b.sourceRef(ref, types)
			src.FileObject, src.FileSet = resolved.FileObject, resolved.FileSet
			continue
		}

		e, ok := b.resolve(catalog.SectionSource, key)
		switch {
		case !ok:
			if err := b.extension(t, catalog.SectionSource, key, v); err != nil {
				return nil, withPath(err, path)
			}
		case e.Key == "fileObject" || e.Key == "fileSet":
			// Both kinds claim the same slot: a source names one distribution.
			if err := t.claim(kpath, "fileObject", key); err != nil {
				return nil, err
			}
			ref, err := reference(kpath, v)
			if err != nil {
				return nil, err
			}
			if e.Key == "fileObject" {
				src.FileObject = ref
			} else {
				src.FileSet = ref
			}
		default:
			if err := t.put(kpath, e.Key, key, b.value(e, v)); err != nil {
				return nil, err
			}
		}
	}

	src.Properties = t.values
	return src, nil
}

// sourceRef resolves a bare distribution reference by the referenced
// distribution's type. Unknown references are kept as file objects so the
// validator can report them.
func (b *builder) sourceRef(ref string, types map[string]string) *domain.Source {
	src := &domain.Source{Extract: domain.Values{}, Properties: domain.Values{}}
	if types[ref] == domain.FileSet {
		src.FileSet = ref
	} else {
		src.FileObject = ref
	}
	return src
}

func (b *builder) extract(path string, val any) (domain.Values, error) {
	raw, ok := val.(map[string]any)
	if !ok {
		return nil, domain.NewParseError(path, "extract must be an object, got %s", kind(val))
	}
	t := newTarget()
	for _, key := range sortedKeys(raw) {
		v := raw[key]
		if e, ok := b.resolve(catalog.SectionExtract, key); ok {
			if err := t.put(join(path, key), e.Key, key, b.value(e, v)); err != nil {
				return nil, err
			}
			continue
		}
		if err := b.extension(t, catalog.SectionExtract, key, v); err != nil {
			return nil, withPath(err, path)
		}
	}
	return t.values, nil
}

// raiKey handles a dataset-level rai:* key.
func (b *builder) raiKey(key, local string, val any) error {
	if catalog.Fold(local) == catalog.Fold(demographicsTerm) {
		return b.demographics(key, val)
	}
	ns := b.namespace("rai")
	if e, ok := b.cat.ResolveIRI(catalog.SectionRAI, ns, local); ok {
		return b.raiTarget().put(key, e.Key, key, b.value(e, val))
	}
	if e, ok := b.cat.ResolveIRI(catalog.SectionAnnotation, ns, local); ok {
		return b.annotationTarget().put(key, e.Key, key, b.value(e, val))
	}
	return b.raiTarget().put(key, key, key, val)
}

// raiObject handles a nested "rai" object.
func (b *builder) raiObject(path string, obj map[string]any) error {
	ns := b.namespace("rai")
	rai := b.raiTarget()

	for _, key := range sortedKeys(obj) {
		val := obj[key]
		kpath := join(path, key)

		switch {
		case b.is(key, "", catalog.SectionAnnotation):
			ann, ok := val.(map[string]any)
			if !ok {
				return domain.NewParseError(kpath, "expected an object, got %s", kind(val))
			}
			if err := b.annotationObject(kpath, ann); err != nil {
				return err
			}
			continue
		case b.is(key, ns, demographicsTerm), b.is(key, "", "demographics"):
			if err := b.demographics(kpath, val); err != nil {
				return err
			}
			continue
		}

		if e, ok := b.resolve(catalog.SectionRAI, key); ok {
			if err := rai.put(kpath, e.Key, key, b.value(e, val)); err != nil {
				return err
			}
			continue
		}
		if e, ok := b.resolve(catalog.SectionAnnotation, key); ok {
			if err := b.annotationTarget().put(kpath, e.Key, key, b.value(e, val)); err != nil {
				return err
			}
			continue
		}
		if err := b.extension(rai, catalog.SectionRAI, key, val); err != nil {
			return withPath(err, path)
		}
	}
	return nil
}

func (b *builder) annotationObject(path string, obj map[string]any) error {
	ns := b.namespace("rai")
	ann := b.annotationTarget()

	for _, key := range sortedKeys(obj) {
		val := obj[key]
		kpath := join(path, key)

		if b.is(key, ns, demographicsTerm) || b.is(key, "", "demographics") {
			if err := b.demographics(kpath, val); err != nil {
				return err
			}
			continue
		}
		if e, ok := b.resolve(catalog.SectionAnnotation, key); ok {
			if err := ann.put(kpath, e.Key, key, b.value(e, val)); err != nil {
				return err
			}
			continue
		}
		if err := b.extension(ann, catalog.SectionAnnotation, key, val); err != nil {
			return withPath(err, path)
		}
	}
	return nil
}

// demographics reads category -> bucket label -> count.
func (b *builder) demographics(path string, val any) error {
	if b.demo != nil {
		return domain.NewParseError(path, "demographics are also given as %q", b.demoKey)
	}
	raw, ok := val.(map[string]any)
	if !ok {
		return domain.NewParseError(path, "demographics must map categories to bucket counts, got %s", kind(val))
	}
	out := make(map[string]map[string]int64, len(raw))
	for _, cat := range sortedKeys(raw) {
		buckets, ok := raw[cat].(map[string]any)
		if !ok {
			return domain.NewParseError(join(path, cat), "expected bucket counts, got %s", kind(raw[cat]))
		}
		counts := make(map[string]int64, len(buckets))
		for _, label := range sortedKeys(buckets) {
			n, ok := buckets[label].(int64)
			if !ok {
				return domain.NewParseError(join(join(path, cat), label), "count must be an integer, got %s", kind(buckets[label]))
			}
			counts[label] = n
		}
		out[cat] = counts
	}
	b.demo = out
	b.demoKey = path
	return nil
}

func (b *builder) raiTarget() *target {
	if b.rai == nil {
		b.rai = newTarget()
	}
	return b.rai
}

func (b *builder) annotationTarget() *target {
	if b.annotation == nil {
		b.annotation = newTarget()
	}
	return b.annotation
}

// withPath prefixes the path of a ParseError raised for a nested key.
func withPath(err error, path string) error {
	pe, ok := err.(*domain.ParseError)
	if !ok || path == "" {
		return err
	}
	return &domain.ParseError{Path: join(path, pe.Path), Err: pe.Err}
}
