package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Short(t *testing.T) {
	assert.Equal(t, "Print the version number", versionCmd.Short)
}

func TestVersionCmd_Executes(t *testing.T) {
	setupTestServices(t)

	// Save and restore version
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, _, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Equal(t, "croissant-toml version test-version-1.0.0\n", out)
}

func TestVersionCmd_DefaultVersion(t *testing.T) {
	setupTestServices(t)

	out, _, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "croissant-toml version 0.1.0")
}
