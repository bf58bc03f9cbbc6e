package domain

import (
	"fmt"
	"strconv"
)

const unknownDescription = "Unknown"

// SettingKey names a persisted setting.
type SettingKey string

// Available settings.
const (
	// SettingOutputIndent is the JSON-LD indentation width in spaces.
	SettingOutputIndent SettingKey = "output.indent"

	// SettingRenderComments toggles per-field description comments in TOML output.
	SettingRenderComments SettingKey = "render.comments"

	// SettingRenderHeader toggles the provenance header in TOML output.
	SettingRenderHeader SettingKey = "render.header"

	// SettingValidateStrict makes validation warnings count as errors.
	SettingValidateStrict SettingKey = "validate.strict"
)

// AllSettingKeys returns all settings in display order.
func AllSettingKeys() []SettingKey {
	return []SettingKey{
		SettingOutputIndent,
		SettingRenderComments,
		SettingRenderHeader,
		SettingValidateStrict,
	}
}

// IsValid returns true if the key is recognised.
func (k SettingKey) IsValid() bool {
	switch k {
	case SettingOutputIndent, SettingRenderComments, SettingRenderHeader, SettingValidateStrict:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SettingKey) String() string {
	return string(k)
}

// Description returns a human-readable description of the setting.
func (k SettingKey) Description() string {
	switch k {
	case SettingOutputIndent:
		return "JSON-LD indentation width in spaces"
	case SettingRenderComments:
		return "Emit field description comments in TOML output"
	case SettingRenderHeader:
		return "Emit the provenance header in TOML output"
	case SettingValidateStrict:
		return "Treat validation warnings as errors"
	default:
		return unknownDescription
	}
}

// OutputSettings controls JSON-LD output.
type OutputSettings struct {
	// Indent is the number of spaces per indentation level, 0 for compact output.
	Indent int
}

// RenderSettings controls TOML output.
type RenderSettings struct {
	Comments bool
	Header   bool
}

// ValidateSettings controls validation.
type ValidateSettings struct {
	Strict bool
}

// AppSettings is the complete application configuration.
type AppSettings struct {
	Output   OutputSettings
	Render   RenderSettings
	Validate ValidateSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Output:   OutputSettings{Indent: 2},
		Render:   RenderSettings{Comments: true, Header: true},
		Validate: ValidateSettings{Strict: false},
	}
}

// Value returns the current value of key formatted for display.
func (s AppSettings) Value(key SettingKey) string {
	switch key {
	case SettingOutputIndent:
		return strconv.Itoa(s.Output.Indent)
	case SettingRenderComments:
		return strconv.FormatBool(s.Render.Comments)
	case SettingRenderHeader:
		return strconv.FormatBool(s.Render.Header)
	case SettingValidateStrict:
		return strconv.FormatBool(s.Validate.Strict)
	default:
		return ""
	}
}

// Apply parses raw and stores it under key.
func (s *AppSettings) Apply(key SettingKey, raw string) error {
	switch key {
	case SettingOutputIndent:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 8 {
			return fmt.Errorf("%w: %s must be an integer between 0 and 8", ErrInvalidInput, key)
		}
		s.Output.Indent = n
	case SettingRenderComments, SettingRenderHeader, SettingValidateStrict:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", ErrInvalidInput, key)
		}
		switch key {
		case SettingRenderComments:
			s.Render.Comments = b
		case SettingRenderHeader:
			s.Render.Header = b
		default:
			s.Validate.Strict = b
		}
	default:
		return fmt.Errorf("%w: unknown setting %q", ErrInvalidInput, key)
	}
	return nil
}
