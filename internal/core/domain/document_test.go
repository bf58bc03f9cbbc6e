package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	return &Document{
		Metadata: Values{
			"name":       "Demo",
			"conformsTo": []any{"http://mlcommons.org/croissant/1.0"},
			"x-extra":    map[string]any{"nested": []any{"a", int64(1)}},
		},
		Schema: Values{"inLanguage": "en"},
		Distribution: []Distribution{
			{Type: FileObject, ID: "d1", Properties: Values{"contentUrl": "https://example.com/d.csv"}},
			{Type: FileSet, ID: "d2", Properties: Values{"includes": "*.jpg"}},
		},
		RecordSets: []RecordSet{{
			ID:         "r1",
			Key:        []string{"f1"},
			Properties: Values{},
			Fields: []Field{{
				ID:         "f1",
				Properties: Values{"dataType": "Text"},
				Source:     &Source{FileObject: "d1", Extract: Values{"column": "c"}, Properties: Values{}},
			}},
		}},
		RAI: &RAI{
			Properties: Values{"dataUseCases": []any{"Training"}},
			Annotation: &Annotation{
				Properties:   Values{"totalAnnotators": int64(3)},
				Demographics: map[string]map[string]int64{"age": {"18-25": 2}},
			},
		},
	}
}

func TestValues_Keys(t *testing.T) {
	v := Values{"b": 1, "a": 2, "C": 3}
	assert.Equal(t, []string{"C", "a", "b"}, v.Keys())
	assert.Empty(t, Values(nil).Keys())
}

func TestValues_CloneIsDeep(t *testing.T) {
	v := Values{"list": []any{"a"}, "obj": map[string]any{"k": "v"}}
	c := v.Clone()

	c["list"].([]any)[0] = "changed"
	c["obj"].(map[string]any)["k"] = "changed"

	assert.Equal(t, "a", v["list"].([]any)[0])
	assert.Equal(t, "v", v["obj"].(map[string]any)["k"])
	assert.Nil(t, Values(nil).Clone())
}

func TestDocument_Clone(t *testing.T) {
	doc := sampleDocument()
	clone := doc.Clone()
	require.Equal(t, doc, clone)

	clone.Metadata["name"] = "Other"
	clone.Distribution[0].Properties["contentUrl"] = "x"
	clone.RecordSets[0].Key[0] = "zzz"
	clone.RecordSets[0].Fields[0].Source.Extract["column"] = "zzz"
	clone.RAI.Annotation.Demographics["age"]["18-25"] = 99

	assert.Equal(t, "Demo", doc.Metadata["name"])
	assert.Equal(t, "https://example.com/d.csv", doc.Distribution[0].Properties["contentUrl"])
	assert.Equal(t, "f1", doc.RecordSets[0].Key[0])
	assert.Equal(t, "c", doc.RecordSets[0].Fields[0].Source.Extract["column"])
	assert.Equal(t, int64(2), doc.RAI.Annotation.Demographics["age"]["18-25"])
}

func TestDocument_CloneNil(t *testing.T) {
	var doc *Document
	assert.Nil(t, doc.Clone())
}

func TestDocument_ConformsTo(t *testing.T) {
	doc := sampleDocument()
	assert.Equal(t, []string{"http://mlcommons.org/croissant/1.0"}, doc.ConformsTo())

	empty := &Document{Metadata: Values{}}
	assert.Nil(t, empty.ConformsTo())
}

func TestDocument_DistributionByID(t *testing.T) {
	doc := sampleDocument()

	d, ok := doc.DistributionByID("d2")
	require.True(t, ok)
	assert.Equal(t, FileSet, d.Type)

	_, ok = doc.DistributionByID("missing")
	assert.False(t, ok)
}

func TestSource_Ref(t *testing.T) {
	assert.Equal(t, "d1", (&Source{FileObject: "d1"}).Ref())
	assert.Equal(t, "d2", (&Source{FileSet: "d2"}).Ref())
	assert.Empty(t, (&Source{}).Ref())
}
