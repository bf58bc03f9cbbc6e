package validator

import (
	"fmt"
	"maps"
	"slices"

	"github.com/TheLustriVA/Croissant-TOML/internal/catalog"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

// entity is one table of the layout with the catalog section describing it.
type entity struct {
	section string
	path    string
	values  map[string]any
}

// walk lists the tables of a tree in document order. Tables of the wrong
// shape are skipped; the schema pass reports them.
func walk(tree *domain.Tree) []entity {
	var out []entity
	data := tree.Data

	if meta, ok := data["metadata"].(map[string]any); ok {
		out = append(out, entity{catalog.SectionMetadata, "metadata", meta})
		if schema, ok := meta["schema"].(map[string]any); ok {
			out = append(out, entity{catalog.SectionSchema, "metadata.schema", schema})
		}
	}

	if items, ok := data["distribution"].([]any); ok {
		for i, item := range items {
			if d, ok := item.(map[string]any); ok {
				out = append(out, entity{catalog.SectionDistribution, element("distribution", i, d), d})
			}
		}
	}

	if sets, ok := data["recordsets"].(map[string]any); ok {
		for _, id := range recordSetIDs(tree, sets) {
			rs, ok := sets[id].(map[string]any)
			if !ok {
				continue
			}
			path := recordSetPath(id)
			out = append(out, entity{catalog.SectionRecordSet, path, rs})
			fields, _ := rs["fields"].([]any)
			for j, item := range fields {
				f, ok := item.(map[string]any)
				if !ok {
					continue
				}
				fpath := element(path+".fields", j, f)
				out = append(out, entity{catalog.SectionField, fpath, f})
				src, ok := f["source"].(map[string]any)
				if !ok {
					continue
				}
				out = append(out, entity{catalog.SectionSource, fpath + ".source", src})
				if extract, ok := src["extract"].(map[string]any); ok {
					out = append(out, entity{catalog.SectionExtract, fpath + ".source.extract", extract})
				}
			}
		}
	}

	if rai, ok := data["rai"].(map[string]any); ok {
		out = append(out, entity{catalog.SectionRAI, "rai", rai})
		if ann, ok := rai["annotation"].(map[string]any); ok {
			out = append(out, entity{catalog.SectionAnnotation, "rai.annotation", ann})
		}
	}

	return out
}

// recordSetIDs follows the text order recorded at decode time.
func recordSetIDs(tree *domain.Tree, sets map[string]any) []string {
	out := make([]string, 0, len(sets))
	seen := make(map[string]bool, len(sets))
	for _, id := range tree.RecordSetOrder {
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

// recordSetPath quotes an empty table key the way TOML spells it.
func recordSetPath(id string) string {
	if id == "" {
		return `recordsets.""`
	}
	return "recordsets." + id
}

// element addresses an array member by its id, or by index when it has none.
func element(path string, i int, m map[string]any) string {
	if id, ok := m["id"].(string); ok && id != "" {
		return path + "." + id
	}
	return fmt.Sprintf("%s[%d]", path, i)
}

// keys returns the value keys of an entity in catalog order, then sorted,
// leaving out nested tables.
func keys(cat *catalog.Catalog, e entity) []string {
	out := make([]string, 0, len(e.values))
	known := make(map[string]bool)
	for _, k := range cat.Order(e.section) {
		known[k] = true
		if _, ok := e.values[k]; ok {
			out = append(out, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(e.values)) {
		if !known[k] && !cat.IsNested(e.section, k) {
			out = append(out, k)
		}
	}
	return out
}
