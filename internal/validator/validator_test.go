package validator

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/TheLustriVA/Croissant-TOML/internal/catalog"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
	"github.com/TheLustriVA/Croissant-TOML/internal/textparser"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New(catalog.Default())
	require.NoError(t, err)
	return v
}

func decode(t *testing.T, input string) *domain.Tree {
	t.Helper()
	tree, err := textparser.New().Decode([]byte(input))
	require.NoError(t, err)
	return tree
}

func lines(report *domain.Report) []string {
	var out []string
	for _, d := range report.Diagnostics {
		out = append(out, fmt.Sprintf("%s %s", d.Check, d))
	}
	return out
}

// TestValidate_Scenarios runs every archive in testdata. Each archive holds
// an input.toml and the expected diagnostics, one per line.
func TestValidate_Scenarios(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	v := newValidator(t)
	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			require.NoError(t, err)

			parts := make(map[string]string)
			for _, f := range ar.Files {
				parts[f.Name] = string(f.Data)
			}
			require.Contains(t, parts, "input.toml")
			require.Contains(t, parts, "want")

			var want []string
			for _, line := range strings.Split(parts["want"], "\n") {
				if line = strings.TrimSpace(line); line != "" {
					want = append(want, line)
				}
			}

			report := v.Validate(decode(t, parts["input.toml"]))
			assert.Equal(t, want, lines(report))

			wantValid := true
			for _, line := range want {
				if strings.Contains(line, " error ") {
					wantValid = false
				}
			}
			assert.Equal(t, wantValid, report.Valid)
		})
	}
}

func TestNew(t *testing.T) {
	v := newValidator(t)
	assert.NotNil(t, v.schema)
}

func TestValidate_NilTree(t *testing.T) {
	v := newValidator(t)

	report := v.Validate(nil)
	require.NotNil(t, report)
	assert.False(t, report.Valid)
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, "metadata", report.Diagnostics[0].Path)
	assert.Equal(t, domain.CheckSchema, report.Diagnostics[0].Check)
}

func TestValidate_TypeMismatch(t *testing.T) {
	v := newValidator(t)

	report := v.Validate(decode(t, `
[metadata]
conformsTo = 'http://mlcommons.org/croissant/1.0'
name = 'Demo'
isLiveDataset = 'yes'
`))
	assert.False(t, report.Valid)

	var paths []string
	for _, d := range report.Errors() {
		assert.Equal(t, domain.CheckSchema, d.Check)
		paths = append(paths, d.Path)
	}
	assert.Equal(t, []string{"metadata.conformsTo", "metadata.isLiveDataset"}, paths)
}

func TestValidate_PathsUseIDs(t *testing.T) {
	v := newValidator(t)

	report := v.Validate(decode(t, `
[metadata]
conformsTo = ['http://mlcommons.org/croissant/1.0']
name = 'Demo'

[[distribution]]
type = 'FileObject'
id = 'd1'
contentSize = [1]

[[distribution]]
type = 'FileObject'
id = ''
`))
	var paths []string
	for _, d := range report.Errors() {
		paths = append(paths, d.Path)
	}
	assert.Contains(t, paths, "distribution.d1.contentSize")
	assert.Contains(t, paths, "distribution[1].id")
}

func TestValidate_SchemaKeysNeverWarn(t *testing.T) {
	v := newValidator(t)

	report := v.Validate(decode(t, `
[metadata]
conformsTo = ['http://mlcommons.org/croissant/1.0']
name = 'Demo'

[metadata.schema]
inLanguage = 'en'
measurementTechnique = 'survey'
`))
	assert.True(t, report.Valid)
	assert.Empty(t, report.Diagnostics)
}

func TestValidate_RecordSetOrderFollowsText(t *testing.T) {
	v := newValidator(t)

	report := v.Validate(decode(t, `
[metadata]
conformsTo = ['http://mlcommons.org/croissant/1.0']
name = 'Demo'

[recordsets.zeta]
key = ['x']

[recordsets.alpha]
key = ['y']
`))
	var paths []string
	for _, d := range report.Diagnostics {
		paths = append(paths, d.Path)
	}
	assert.Equal(t, []string{"recordsets.zeta.key", "recordsets.alpha.key"}, paths)
}

func TestValidate_StrictReport(t *testing.T) {
	v := newValidator(t)

	report := v.Validate(decode(t, `
[metadata]
conformsTo = ['http://mlcommons.org/croissant/1.0']
name = 'Demo'
homepage = 'https://example.com'
`))
	assert.True(t, report.Valid)
	require.Len(t, report.Warnings(), 1)

	strict := report.Strict()
	assert.False(t, strict.Valid)
	assert.Len(t, strict.Errors(), 1)
}

func TestValidate_DoesNotMutate(t *testing.T) {
	v := newValidator(t)
	tree := decode(t, `
[metadata]
conformsTo = ['http://mlcommons.org/croissant/1.0']
name = 'Demo'
`)
	before := domain.CloneValue(tree.Data)

	v.Validate(tree)
	assert.Equal(t, before, tree.Data)
}

func TestCheckFormat(t *testing.T) {
	tests := []struct {
		name   string
		format string
		value  string
		ok     bool
	}{
		{"https url", catalog.FormatURL, "https://example.com/a", true},
		{"url without host", catalog.FormatURL, "file:///tmp/a", false},
		{"relative url", catalog.FormatURL, "/a/b", false},
		{"date", catalog.FormatDate, "2024-01-15", true},
		{"local date-time", catalog.FormatDate, "2024-01-15T10:30:00", true},
		{"fractional date-time", catalog.FormatDate, "2024-01-15T10:30:00.25", true},
		{"offset date-time", catalog.FormatDate, "2024-01-15T10:30:00Z", true},
		{"impossible date", catalog.FormatDate, "2024-02-30", false},
		{"prose date", catalog.FormatDate, "last week", false},
		{"sha256", catalog.FormatSHA256, strings.Repeat("a1", 32), true},
		{"sha256 upper case", catalog.FormatSHA256, strings.Repeat("A1", 32), true},
		{"sha256 non hex", catalog.FormatSHA256, strings.Repeat("g1", 32), false},
		{"md5", catalog.FormatMD5, strings.Repeat("0", 32), true},
		{"md5 short", catalog.FormatMD5, "00", false},
		{"sha1", catalog.FormatSHA1, strings.Repeat("f", 40), true},
		{"sha512", catalog.FormatSHA512, strings.Repeat("f", 128), true},
		{"sha512 odd", catalog.FormatSHA512, strings.Repeat("f", 127), false},
		{"unknown format", "color", "red", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := checkFormat(tt.format, tt.value)
			if tt.ok {
				assert.Empty(t, msg)
			} else {
				assert.Contains(t, msg, tt.value)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	data := map[string]any{
		"distribution": []any{
			map[string]any{"id": "d1"},
			map[string]any{"name": "anonymous"},
		},
		"metadata": map[string]any{"keywords": []any{"a", 1}},
	}

	tests := []struct {
		segs []string
		want string
	}{
		{nil, ""},
		{[]string{"metadata", "name"}, "metadata.name"},
		{[]string{"distribution", "0", "sha256"}, "distribution.d1.sha256"},
		{[]string{"distribution", "1", "id"}, "distribution[1].id"},
		{[]string{"metadata", "keywords", "1"}, "metadata.keywords[1]"},
		{[]string{"distribution", "9"}, "distribution.9"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, translate(data, tt.segs))
		})
	}
}
