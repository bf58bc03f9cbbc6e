package textparser

import (
	"fmt"
	"maps"
	"slices"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

// Build converts a decoded tree into an intermediate document. Table keys
// are taken as canonical; keys the layout does not reserve are kept as
// extensions. Structural problems fail with a *domain.ParseError.
func (p *Parser) Build(tree *domain.Tree) (*domain.Document, error) {
	if tree == nil {
		return nil, fmt.Errorf("%w: nil tree", domain.ErrInvalidInput)
	}

	for _, k := range slices.Sorted(maps.Keys(tree.Data)) {
		switch k {
		case TableMetadata, TableDistribution, TableRecordSets, TableRAI:
		default:
			return nil, domain.NewParseError(k, "unknown top-level table")
		}
	}

	doc := &domain.Document{Metadata: domain.Values{}, Schema: domain.Values{}}

	if raw, ok := tree.Data[TableMetadata]; ok {
		meta, err := table(TableMetadata, raw)
		if err != nil {
			return nil, err
		}
		if schema, ok := meta[TableSchema]; ok {
			s, err := table(join(TableMetadata, TableSchema), schema)
			if err != nil {
				return nil, err
			}
			doc.Schema = values(s)
			delete(meta, TableSchema)
		}
		doc.Metadata = values(meta)
	}

	if raw, ok := tree.Data[TableDistribution]; ok {
		items, err := tables(TableDistribution, raw)
		if err != nil {
			return nil, err
		}
		for i, item := range items {
			path := index(TableDistribution, i)
			typ, err := str(join(path, keyType), item[keyType])
			if err != nil {
				return nil, err
			}
			id, err := str(join(path, keyID), item[keyID])
			if err != nil {
				return nil, err
			}
			delete(item, keyType)
			delete(item, keyID)
			doc.Distribution = append(doc.Distribution, domain.Distribution{
				Type:       typ,
				ID:         id,
				Properties: values(item),
			})
		}
	}

	if raw, ok := tree.Data[TableRecordSets]; ok {
		sets, err := table(TableRecordSets, raw)
		if err != nil {
			return nil, err
		}
		for _, id := range order(tree.RecordSetOrder, sets) {
			rs, err := recordSet(id, sets[id])
			if err != nil {
				return nil, err
			}
			doc.RecordSets = append(doc.RecordSets, rs)
		}
	}

	if raw, ok := tree.Data[TableRAI]; ok {
		rai, err := buildRAI(raw)
		if err != nil {
			return nil, err
		}
		doc.RAI = rai
	}

	return doc, nil
}

// order returns the ids of sets following the recorded text order; ids the
// order does not name are appended sorted.
func order(recorded []string, sets map[string]any) []string {
	out := make([]string, 0, len(sets))
	seen := make(map[string]bool, len(sets))
	for _, id := range recorded {
		if _, ok := sets[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(sets)) {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

func recordSet(id string, raw any) (domain.RecordSet, error) {
	path := join(TableRecordSets, id)
	rs := domain.RecordSet{ID: id}

	props, err := table(path, raw)
	if err != nil {
		return rs, err
	}

	if v, ok := props[keyID]; ok {
		inner, err := str(join(path, keyID), v)
		if err != nil {
			return rs, err
		}
		if inner != id {
			return rs, domain.NewParseError(join(path, keyID), "id %q does not match table key %q", inner, id)
		}
		delete(props, keyID)
	}

	if v, ok := props[keyKey]; ok {
		keys, err := strs(join(path, keyKey), v)
		if err != nil {
			return rs, err
		}
		rs.Key = keys
		delete(props, keyKey)
	}

	if v, ok := props[TableFields]; ok {
		fpath := join(path, TableFields)
		items, err := tables(fpath, v)
		if err != nil {
			return rs, err
		}
		for i, item := range items {
			f, err := field(index(fpath, i), item)
			if err != nil {
				return rs, err
			}
			rs.Fields = append(rs.Fields, f)
		}
		delete(props, TableFields)
	}

	rs.Properties = values(props)
	return rs, nil
}

func field(path string, props map[string]any) (domain.Field, error) {
	var f domain.Field

	id, err := str(join(path, keyID), props[keyID])
	if err != nil {
		return f, err
	}
	f.ID = id
	delete(props, keyID)

	if v, ok := props[TableSource]; ok {
		src, err := source(join(path, TableSource), v)
		if err != nil {
			return f, err
		}
		f.Source = src
		delete(props, TableSource)
	}

	f.Properties = values(props)
	return f, nil
}

func source(path string, raw any) (*domain.Source, error) {
	props, err := table(path, raw)
	if err != nil {
		return nil, err
	}
	src := &domain.Source{Extract: domain.Values{}}

	for _, kind := range []string{"fileObject", "fileSet"} {
		v, ok := props[kind]
		if !ok {
			continue
		}
		ref, err := str(join(path, kind), v)
		if err != nil {
			return nil, err
		}
		if kind == "fileObject" {
			src.FileObject = ref
		} else {
			src.FileSet = ref
		}
		delete(props, kind)
	}

	if v, ok := props[TableExtract]; ok {
		extract, err := table(join(path, TableExtract), v)
		if err != nil {
			return nil, err
		}
		src.Extract = values(extract)
		delete(props, TableExtract)
	}

	src.Properties = values(props)
	return src, nil
}

func buildRAI(raw any) (*domain.RAI, error) {
	props, err := table(TableRAI, raw)
	if err != nil {
		return nil, err
	}
	rai := &domain.RAI{}

	if v, ok := props[TableAnnotation]; ok {
		apath := join(TableRAI, TableAnnotation)
		ann, err := table(apath, v)
		if err != nil {
			return nil, err
		}
		a := &domain.Annotation{}
		if d, ok := ann[TableDemographics]; ok {
			demo, err := demographics(join(apath, TableDemographics), d)
			if err != nil {
				return nil, err
			}
			a.Demographics = demo
			delete(ann, TableDemographics)
		}
		a.Properties = values(ann)
		rai.Annotation = a
		delete(props, TableAnnotation)
	}

	rai.Properties = values(props)
	return rai, nil
}

func demographics(path string, raw any) (map[string]map[string]int64, error) {
	cats, err := table(path, raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]int64, len(cats))
	for _, cat := range slices.Sorted(maps.Keys(cats)) {
		cpath := join(path, cat)
		buckets, err := table(cpath, cats[cat])
		if err != nil {
			return nil, err
		}
		counts := make(map[string]int64, len(buckets))
		for _, label := range slices.Sorted(maps.Keys(buckets)) {
			n, ok := buckets[label].(int64)
			if !ok {
				return nil, domain.NewParseError(join(cpath, label), "count must be an integer")
			}
			counts[label] = n
		}
		out[cat] = counts
	}
	return out, nil
}

// table returns a shallow copy of a TOML table.
func table(path string, v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, domain.NewParseError(path, "expected a table")
	}
	return maps.Clone(m), nil
}

func tables(path string, v any) ([]map[string]any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, domain.NewParseError(path, "expected an array of tables")
	}
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		m, err := table(index(path, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func str(path string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", domain.NewParseError(path, "expected a string")
	}
	return s, nil
}

// strs reads a string or an array of strings.
func strs(path string, v any) ([]string, error) {
	if s, ok := v.(string); ok {
		return []string{s}, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, domain.NewParseError(path, "expected a string or an array of strings")
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, err := str(index(path, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// values deep-copies a table into property values.
func values(m map[string]any) domain.Values {
	return domain.Values(m).Clone()
}

func join(path, key string) string {
	return path + "." + key
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
