package comments

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TheLustriVA/Croissant-TOML/internal/catalog"
)

func TestFor(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		section string
		key     string
		want    string
	}{
		{catalog.SectionMetadata, "name", "Dataset name"},
		{catalog.SectionDistribution, "sha256", "SHA-256 checksum"},
		{catalog.SectionRAI, "dataUseCases", "Intended use cases for the dataset"},
		{catalog.SectionSchema, "author", ""},
		{catalog.SectionMetadata, "x_custom", ""},
	}

	for _, tt := range tests {
		t.Run(tt.section+"."+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, For(cat, tt.section, tt.key))
		})
	}
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "two lines here", oneLine("two\n  lines\there "))
	assert.Equal(t, "Conforms to: http://x", ConformsTo("http://x\n"))
}
