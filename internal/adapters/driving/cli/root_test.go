package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheLustriVA/Croissant-TOML/internal/adapters/driven/config/file"
	"github.com/TheLustriVA/Croissant-TOML/internal/catalog"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/services"
	"github.com/TheLustriVA/Croissant-TOML/internal/logger"
	"github.com/TheLustriVA/Croissant-TOML/internal/mapper"
	"github.com/TheLustriVA/Croissant-TOML/internal/normalisers/jsonld"
	"github.com/TheLustriVA/Croissant-TOML/internal/renderer"
	"github.com/TheLustriVA/Croissant-TOML/internal/textparser"
	"github.com/TheLustriVA/Croissant-TOML/internal/validator"
)

const demoJSON = `{
  "@context": {"@vocab": "https://schema.org/", "sc": "https://schema.org/", "cr": "http://mlcommons.org/croissant/"},
  "@type": "sc:Dataset",
  "conformsTo": "http://mlcommons.org/croissant/1.0",
  "name": "Demo",
  "distribution": [
    {"@type": "cr:FileObject", "@id": "d1", "contentUrl": "https://x/a.csv", "sha256": "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"}
  ],
  "recordSet": [
    {"@type": "cr:RecordSet", "@id": "r1", "field": [
      {"@type": "cr:Field", "@id": "f1", "dataType": "sc:Text", "source": {"fileObject": {"@id": "d1"}, "extract": {"column": "a"}}}
    ]}
  ]
}`

const validTOML = `[metadata]
conformsTo = ['http://mlcommons.org/croissant/1.0']
name = 'Demo'
`

const warningTOML = validTOML + `date_published = '2024-01-15'
`

const badHashTOML = `[metadata]
conformsTo = ['http://mlcommons.org/croissant/1.0']
name = 'Demo'

[[distribution]]
type = 'FileObject'
id = 'd1'
contentUrl = 'https://x/a.csv'
sha256 = 'abcdef0123'
`

// testBuilder wires the real adapters the way the binary does.
func testBuilder(dir string) (*Services, error) {
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, err
	}
	settingsSvc := services.NewSettingsService(store)
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, err
	}

	cat := catalog.Default()
	v, err := validator.New(cat)
	if err != nil {
		return nil, err
	}
	conv := services.NewConversionService(
		jsonld.New(cat),
		renderer.New(cat, renderer.WithComments(settings.Render.Comments), renderer.WithHeader(settings.Render.Header)),
		textparser.New(),
		v,
		mapper.New(cat),
		*settings,
	)
	return &Services{Conversion: conv, Settings: settingsSvc, ConfigPath: store.Path()}, nil
}

// resetCommands restores package state shared between command runs.
func resetCommands(t *testing.T) {
	t.Helper()
	savedBuild := build
	t.Cleanup(func() {
		build = savedBuild
		conversionService, settingsService, configPath = nil, nil, ""
		verbose, configDir = false, ""
		toTOMLOutput, toJSONOutput = "", ""
		validateStrict, validateWatch = false, false
		roundTripShowTOML = false
		logger.SetVerbose(false)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		resetContexts(rootCmd)
	})
}

// resetContexts drops contexts left on commands by earlier runs.
func resetContexts(cmd *cobra.Command) {
	cmd.SetContext(context.Background())
	for _, c := range cmd.Commands() {
		resetContexts(c)
	}
}

// setupTestServices wires real services against a temporary settings
// directory and returns that directory.
func setupTestServices(t *testing.T) string {
	t.Helper()
	resetCommands(t)

	dir := t.TempDir()
	svc, err := testBuilder(dir)
	require.NoError(t, err)
	conversionService = svc.Conversion
	settingsService = svc.Settings
	configPath = svc.ConfigPath
	return dir
}

// execute runs the root command and captures both output streams.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// writeFile writes content into a temporary file and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "croissant-toml", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	names := make([]string, 0, len(commands))
	for _, cmd := range commands {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"to-toml", "to-json", "validate", "roundtrip", "settings", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)

	flag = rootCmd.PersistentFlags().Lookup("config-dir")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
}

func TestSetup_BuildsServicesFromConfigDir(t *testing.T) {
	resetCommands(t)
	build = testBuilder
	dir := t.TempDir()

	out, _, err := execute(t, "--config-dir", dir, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Settings file: "+filepath.Join(dir, "config.toml"))
	assert.NotNil(t, conversionService)
}

func TestSetup_VerboseEnablesLogging(t *testing.T) {
	setupTestServices(t)

	_, _, err := execute(t, "--verbose", "version")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestSetup_WithoutBuilder(t *testing.T) {
	resetCommands(t)
	build = nil

	_, _, err := execute(t, "version")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "services not configured")
}

func TestExecute_ExitCodes(t *testing.T) {
	setupTestServices(t)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)

	rootCmd.SetArgs([]string{"version"})
	assert.Equal(t, 0, Execute(testBuilder))

	rootCmd.SetArgs([]string{"to-toml", filepath.Join(t.TempDir(), "missing.json")})
	assert.Equal(t, 1, Execute(testBuilder))
	assert.Contains(t, errOut.String(), "Error: failed to read input")
}
