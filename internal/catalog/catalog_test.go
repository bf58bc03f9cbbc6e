package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

func TestDefault_Loads(t *testing.T) {
	c := Default()
	require.NotNil(t, c)

	assert.Same(t, c, Default())
	assert.Equal(t, "http://mlcommons.org/croissant/1.0", c.ConformsTo())
	assert.Equal(t, "https://schema.org/", c.SharedVocabulary())
	assert.Equal(t, "sc", c.SharedPrefix())
	assert.Equal(t, []string{
		SectionMetadata, SectionSchema, SectionDistribution, SectionRecordSet,
		SectionField, SectionSource, SectionExtract, SectionRAI, SectionAnnotation,
	}, c.Sections())
}

func TestOrder_MetadataStartsWithConformance(t *testing.T) {
	order := Default().Order(SectionMetadata)

	require.NotEmpty(t, order)
	assert.Equal(t, "conformsTo", order[0])
	assert.Equal(t, "name", order[1])
	assert.Contains(t, order, "changeLog")
}

func TestOrder_IsCopy(t *testing.T) {
	c := Default()
	order := c.Order(SectionMetadata)
	order[0] = "mutated"

	assert.Equal(t, "conformsTo", c.Order(SectionMetadata)[0])
	assert.Nil(t, c.Order("nope"))
}

func TestResolve(t *testing.T) {
	c := Default()

	tests := []struct {
		name    string
		section string
		key     string
		want    string
		found   bool
	}{
		{"exact", SectionMetadata, "datePublished", "datePublished", true},
		{"snake case", SectionMetadata, "date_published", "datePublished", true},
		{"upper case", SectionMetadata, "NAME", "name", true},
		{"kebab case", SectionDistribution, "content-url", "contentUrl", true},
		{"structural entry", SectionDistribution, "id", "id", true},
		{"derived entry is not resolvable", SectionMetadata, "context", "", false},
		{"unknown", SectionMetadata, "x_custom", "", false},
		{"schema is exact", SectionSchema, "inLanguage", "inLanguage", true},
		{"schema rejects other case", SectionSchema, "inlanguage", "", false},
		{"unknown section", "nope", "name", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := c.Resolve(tt.section, tt.key)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, e.Key)
		})
	}
}

func TestResolveIRI(t *testing.T) {
	c := Default()

	e, ok := c.ResolveIRI(SectionMetadata, "https://schema.org/", "name")
	require.True(t, ok)
	assert.Equal(t, "name", e.Key)

	e, ok = c.ResolveIRI(SectionMetadata, "http://purl.org/dc/terms/", "conformsTo")
	require.True(t, ok)
	assert.Equal(t, "conformsTo", e.Key)

	e, ok = c.ResolveIRI(SectionRAI, "http://mlcommons.org/croissant/RAI/", "dataUseCases")
	require.True(t, ok)
	assert.Equal(t, "dataUseCases", e.Key)

	_, ok = c.ResolveIRI(SectionMetadata, "http://mlcommons.org/croissant/", "name")
	assert.False(t, ok)
}

func TestExpandAndSplit(t *testing.T) {
	c := Default()

	iri, ok := c.Expand("cr:recordSet")
	require.True(t, ok)
	assert.Equal(t, "http://mlcommons.org/croissant/recordSet", iri)

	_, ok = c.Expand("https://schema.org/name")
	assert.False(t, ok)
	_, ok = c.Expand("unknown:thing")
	assert.False(t, ok)

	ns, local, ok := c.Split("http://mlcommons.org/croissant/RAI/dataBiases")
	require.True(t, ok)
	assert.Equal(t, "http://mlcommons.org/croissant/RAI/", ns)
	assert.Equal(t, "dataBiases", local)

	ns, local, ok = c.Split("http://schema.org/name")
	require.True(t, ok)
	assert.Equal(t, "https://schema.org/", ns)
	assert.Equal(t, "name", local)

	_, _, ok = c.Split("https://example.com/name")
	assert.False(t, ok)
}

func TestCollection_Aliases(t *testing.T) {
	c := Default()

	tests := []struct {
		key  string
		want string
	}{
		{"recordSet", "recordsets"},
		{"recordSets", "recordsets"},
		{"record_sets", "recordsets"},
		{"recordsets", "recordsets"},
		{"distribution", "distribution"},
		{"distributions", "distribution"},
		{"field", "fields"},
		{"fields", "fields"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			col, ok := c.Collection(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, col.Name)
		})
	}

	_, ok := c.Collection("records")
	assert.False(t, ok)

	col, ok := c.CollectionIRI("http://mlcommons.org/croissant/", "recordSet")
	require.True(t, ok)
	assert.Equal(t, SectionRecordSet, col.Section)
}

func TestEnum(t *testing.T) {
	c := Default()

	uses := c.Enum(SectionRAI, "dataUseCases")
	assert.Contains(t, uses, "Training")
	assert.Contains(t, uses, "Research Use Only")
	assert.Nil(t, c.Enum(SectionMetadata, "name"))
}

func TestCanonicalValue(t *testing.T) {
	c := Default()

	tests := []struct {
		name    string
		section string
		key     string
		value   string
		want    string
	}{
		{"compact", SectionField, "dataType", "sc:Text", "Text"},
		{"full IRI", SectionField, "dataType", "https://schema.org/Text", "Text"},
		{"canonical", SectionField, "dataType", "Text", "Text"},
		{"croissant type", SectionField, "dataType", "cr:Split", "Split"},
		{"distribution", SectionDistribution, "type", "cr:FileObject", "FileObject"},
		{"legacy distribution", SectionDistribution, "type", "sc:FileSet", "FileSet"},
		{"unknown kept", SectionField, "dataType", "wd:Q48277", "wd:Q48277"},
		{"not enumerated", SectionMetadata, "name", "sc:Text", "sc:Text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CanonicalValue(tt.section, tt.key, tt.value))
		})
	}
}

func TestJSONLDValue(t *testing.T) {
	c := Default()

	assert.Equal(t, "sc:Text", c.JSONLDValue(SectionField, "dataType", "Text"))
	assert.Equal(t, "cr:FileSet", c.JSONLDValue(SectionDistribution, "type", "FileSet"))
	assert.Equal(t, "Training", c.JSONLDValue(SectionRAI, "dataUseCases", "Training"))
	assert.Equal(t, "Custom", c.JSONLDValue(SectionField, "dataType", "Custom"))
}

func TestEntry_JSONLDDefaults(t *testing.T) {
	c := Default()

	e, ok := c.Entry(SectionRAI, "dataCollection")
	require.True(t, ok)
	assert.Equal(t, "rai:dataCollection", e.JSONLD)

	e, ok = c.Entry(SectionMetadata, "name")
	require.True(t, ok)
	assert.Equal(t, "name", e.JSONLD)
	assert.True(t, e.Required)

	e, ok = c.Entry(SectionDistribution, "id")
	require.True(t, ok)
	assert.True(t, e.Structural())
}

func TestEntry_IsCopy(t *testing.T) {
	c := Default()

	e, ok := c.Entry(SectionField, "dataType")
	require.True(t, ok)
	e.Enum[0].Value = "mutated"

	assert.Equal(t, "Text", c.Enum(SectionField, "dataType")[0])
}

func TestDescription(t *testing.T) {
	c := Default()

	assert.Equal(t, "Dataset name", c.Description(SectionMetadata, "name"))
	assert.Equal(t, "Known biases in the dataset", c.Description(SectionRAI, "dataBiases"))
	assert.Empty(t, c.Description(SectionSchema, "author"))
	assert.Empty(t, c.Description(SectionMetadata, "unknown"))
}

func TestNested(t *testing.T) {
	c := Default()

	assert.True(t, c.IsNested(SectionMetadata, "schema"))
	assert.True(t, c.IsNested(SectionField, "source"))
	assert.False(t, c.IsNested(SectionField, "name"))
	assert.Equal(t, []string{"demographics"}, c.Nested(SectionAnnotation))
}

func TestContext(t *testing.T) {
	c := Default()

	ctx := c.Context()
	assert.Equal(t, "http://mlcommons.org/croissant/", ctx["cr"])
	ctx["cr"] = "mutated"
	assert.Equal(t, "http://mlcommons.org/croissant/", c.Context()["cr"])

	assert.True(t, c.IsContextURL("http://mlcommons.org/croissant/1.0"))
	assert.False(t, c.IsContextURL("https://example.com/ctx.jsonld"))
	assert.Equal(t, "sc:Dataset", c.DefaultType(KindDataset))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "sections: [unclosed"},
		{"unknown namespace", `
sections:
  - name: metadata
    fields:
      - key: name
        namespace: nope
`},
		{"duplicate field", `
sections:
  - name: metadata
    fields:
      - key: name
      - key: name
`},
		{"indistinguishable keys", `
sections:
  - name: metadata
    fields:
      - key: date_published
      - key: datePublished
`},
		{"field shadows nested table", `
sections:
  - name: metadata
    nested: [schema]
    fields:
      - key: schema
`},
		{"collection without section", `
collections:
  - name: things
    section: thing
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			require.Error(t, err)
			if tt.name != "not yaml" {
				assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			}
		})
	}
}

func TestLoad_Independent(t *testing.T) {
	c, err := Load([]byte(`
namespaces:
  - prefix: ex
    iri: https://example.com/
sections:
  - name: metadata
    fields:
      - key: title
        namespace: ex
        description: Title
      - key: hidden
        jsonld: "-"
`))
	require.NoError(t, err)

	assert.NotSame(t, Default(), c)
	assert.Equal(t, []string{"title", "hidden"}, c.Order(SectionMetadata))

	e, ok := c.Entry(SectionMetadata, "title")
	require.True(t, ok)
	assert.Equal(t, TypeAny, e.Type)
	assert.Equal(t, "title", e.JSONLD)

	e, ok = c.Entry(SectionMetadata, "hidden")
	require.True(t, ok)
	assert.True(t, e.Structural())
}
