package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

func TestRoundTripCmd_Definition(t *testing.T) {
	assert.Equal(t, "roundtrip INPUT", roundTripCmd.Use)

	flag := roundTripCmd.Flags().Lookup("show-toml")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestRoundTripCmd_Preserved(t *testing.T) {
	setupTestServices(t)
	input := writeFile(t, "demo.json", demoJSON)

	out, _, err := execute(t, "roundtrip", input)

	require.NoError(t, err)
	assert.Equal(t, input+": round trip preserved the document\n", out)
}

func TestRoundTripCmd_ShowTOML(t *testing.T) {
	setupTestServices(t)
	input := writeFile(t, "demo.json", demoJSON)

	out, _, err := execute(t, "roundtrip", "--show-toml", input)

	require.NoError(t, err)
	assert.Contains(t, out, "[metadata]\n")
	assert.Contains(t, out, "round trip preserved the document")
}

func TestRoundTripCmd_ParseError(t *testing.T) {
	setupTestServices(t)
	input := writeFile(t, "bad.json", "[1, 2]")

	_, _, err := execute(t, "roundtrip", input)

	assert.True(t, errors.Is(err, domain.ErrParse))
}
