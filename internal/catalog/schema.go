package catalog

// JSONSchema derives a draft-07 JSON Schema for the TOML layout from the
// catalog. It covers structure only: required fields, value types, known
// top-level sections, non-empty ids and the demographics shape. Formats,
// vocabularies and cross-references are checked separately.
func (c *Catalog) JSONSchema() map[string]any {
	field := c.sectionSchema(SectionField)
	source := c.sectionSchema(SectionSource)
	setProperty(source, "extract", c.sectionSchema(SectionExtract))
	setProperty(field, "source", source)

	recordset := c.sectionSchema(SectionRecordSet)
	setProperty(recordset, "fields", map[string]any{
		"type":  "array",
		"items": field,
	})

	metadata := c.sectionSchema(SectionMetadata)
	setProperty(metadata, SectionSchema, c.sectionSchema(SectionSchema))

	annotation := c.sectionSchema(SectionAnnotation)
	setProperty(annotation, "demographics", map[string]any{
		"type": "object",
		"additionalProperties": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type":    "integer",
				"minimum": 0,
			},
		},
	})
	rai := c.sectionSchema(SectionRAI)
	setProperty(rai, "annotation", annotation)

	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"title":                "Croissant TOML",
		"type":                 "object",
		"required":             []any{"metadata"},
		"additionalProperties": false,
		"properties": map[string]any{
			"metadata": metadata,
			"distribution": map[string]any{
				"type":  "array",
				"items": c.sectionSchema(SectionDistribution),
			},
			"recordsets": map[string]any{
				"type":                 "object",
				"additionalProperties": recordset,
			},
			"rai": rai,
		},
	}
}

func (c *Catalog) sectionSchema(name string) map[string]any {
	props := map[string]any{}
	var required []any
	for _, e := range c.Entries(name) {
		props[e.Key] = typeSchema(e)
		if e.Required {
			required = append(required, e.Key)
		}
	}
	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func setProperty(schema map[string]any, key string, value map[string]any) {
	schema["properties"].(map[string]any)[key] = value
}

func typeSchema(e Entry) map[string]any {
	s := valueSchema(e.Type)
	if e.Key == "id" {
		s["minLength"] = 1
	}
	if e.Type == TypeArray {
		s["items"] = valueSchema(e.Items)
		if e.Required {
			s["minItems"] = 1
		}
	}
	return s
}

func valueSchema(typ string) map[string]any {
	switch typ {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeArray, TypeObject:
		return map[string]any{"type": typ}
	case TypeScalar:
		return map[string]any{"type": []any{"string", "number", "boolean"}}
	default:
		return map[string]any{}
	}
}
