package domain

import (
	"maps"
	"slices"
)

// Values maps keys to property values.
//
// Keys the field catalog recognises use their canonical spelling. Keys it does
// not recognise are kept verbatim, which makes every Values map its entity's
// extension area. Values are string, int64, float64, bool, []any or
// map[string]any; dates are kept as strings.
type Values map[string]any

// Clone returns a deep copy of v.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = CloneValue(val)
	}
	return out
}

// Keys returns the keys of v in sorted order.
func (v Values) Keys() []string {
	return slices.Sorted(maps.Keys(v))
}

// CloneValue deep-copies a property value.
func CloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Document is the canonical intermediate form of a Croissant dataset description.
// It is produced by the JSON-LD normaliser or the TOML reader and consumed
// read-only by the renderer, validator and reverse mapper.
type Document struct {
	// Metadata holds dataset-level properties such as conformsTo, name and version.
	Metadata Values

	// Schema holds shared-vocabulary properties. Keys keep their declared case.
	Schema Values

	// Distribution lists the file objects and file sets in document order.
	Distribution []Distribution

	// RecordSets lists the record sets in document order.
	RecordSets []RecordSet

	// RAI holds Responsible-AI metadata, nil when absent.
	RAI *RAI
}

// Distribution types.
const (
	FileObject = "FileObject"
	FileSet    = "FileSet"
)

// Distribution references one physical file or set of files.
type Distribution struct {
	// Type is FileObject or FileSet.
	Type string

	// ID identifies the distribution and is referenced by field sources.
	ID string

	// Properties holds name, contentUrl, encodingFormat, hashes and extensions.
	Properties Values
}

// RecordSet is a logical table of fields.
type RecordSet struct {
	// ID is unique within the document.
	ID string

	// Key lists the field ids forming the record set's primary key.
	Key []string

	// Properties holds name, description and extensions.
	Properties Values

	// Fields are kept in document order.
	Fields []Field
}

// Field describes one column of a record set.
type Field struct {
	// ID is unique within the record set.
	ID string

	// Properties holds name, description, dataType and extensions.
	Properties Values

	// Source describes where the field's values come from, nil when absent.
	Source *Source
}

// Source points a field at a distribution and says how to extract its values.
type Source struct {
	// FileObject references a FileObject distribution by id.
	FileObject string

	// FileSet references a FileSet distribution by id.
	FileSet string

	// Extract holds the extraction rule (column, jsonPath, fileProperty, regex).
	Extract Values

	// Properties holds transform, format and extensions.
	Properties Values
}

// Ref returns the referenced distribution id, whichever kind it is.
func (s *Source) Ref() string {
	if s.FileObject != "" {
		return s.FileObject
	}
	return s.FileSet
}

// RAI holds Responsible-AI metadata.
type RAI struct {
	Properties Values
	Annotation *Annotation
}

// Annotation describes the annotation process of a dataset.
type Annotation struct {
	Properties Values

	// Demographics maps a category to bucket label counts.
	Demographics map[string]map[string]int64
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Metadata: d.Metadata.Clone(),
		Schema:   d.Schema.Clone(),
	}
	for _, dist := range d.Distribution {
		out.Distribution = append(out.Distribution, Distribution{
			Type:       dist.Type,
			ID:         dist.ID,
			Properties: dist.Properties.Clone(),
		})
	}
	for _, rs := range d.RecordSets {
		clone := RecordSet{
			ID:         rs.ID,
			Key:        slices.Clone(rs.Key),
			Properties: rs.Properties.Clone(),
		}
		for _, f := range rs.Fields {
			fc := Field{ID: f.ID, Properties: f.Properties.Clone()}
			if f.Source != nil {
				fc.Source = &Source{
					FileObject: f.Source.FileObject,
					FileSet:    f.Source.FileSet,
					Extract:    f.Source.Extract.Clone(),
					Properties: f.Source.Properties.Clone(),
				}
			}
			clone.Fields = append(clone.Fields, fc)
		}
		out.RecordSets = append(out.RecordSets, clone)
	}
	if d.RAI != nil {
		out.RAI = &RAI{Properties: d.RAI.Properties.Clone()}
		if a := d.RAI.Annotation; a != nil {
			ac := &Annotation{Properties: a.Properties.Clone()}
			if a.Demographics != nil {
				ac.Demographics = make(map[string]map[string]int64, len(a.Demographics))
				for cat, buckets := range a.Demographics {
					ac.Demographics[cat] = maps.Clone(buckets)
				}
			}
			out.RAI.Annotation = ac
		}
	}
	return out
}

// ConformsTo returns the conformance URLs declared in the metadata.
func (d *Document) ConformsTo() []string {
	raw, ok := d.Metadata["conformsTo"].([]any)
	if !ok {
		return nil
	}
	urls := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			urls = append(urls, s)
		}
	}
	return urls
}

// DistributionByID returns the distribution with the given id.
func (d *Document) DistributionByID(id string) (*Distribution, bool) {
	for i := range d.Distribution {
		if d.Distribution[i].ID == id {
			return &d.Distribution[i], true
		}
	}
	return nil, false
}

// Tree is a TOML document decoded into generic values: string, int64,
// float64, bool, []any and map[string]any, with dates as strings.
type Tree struct {
	Data map[string]any

	// RecordSetOrder lists the recordsets.<id> tables in the order they
	// appear in the text.
	RecordSetOrder []string
}

// RoundTrip is the outcome of converting a JSON-LD document to TOML and back.
type RoundTrip struct {
	TOML   []byte
	JSONLD []byte

	// Difference is the first path at which the re-normalised documents
	// differ, empty when they are equal.
	Difference string
}

// Equal reports whether the round trip preserved the document.
func (r *RoundTrip) Equal() bool {
	return r.Difference == ""
}
