package textparser

import (
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DateString returns the textual form of a decoded TOML date or date-time
// literal. Offset date-times keep their offset; "Z" stands for UTC.
func DateString(v any) (string, bool) {
	switch t := v.(type) {
	case toml.LocalDate:
		return t.String(), true
	case toml.LocalDateTime:
		return t.String(), true
	case toml.LocalTime:
		return t.String(), true
	case time.Time:
		if t.Nanosecond() != 0 {
			return t.Format(time.RFC3339Nano), true
		}
		return t.Format(time.RFC3339), true
	default:
		return "", false
	}
}

// DateLiteral returns the TOML literal for s when s reads back as exactly
// the same string, so emitting it as a native date loses nothing.
func DateLiteral(s string) (any, bool) {
	var candidates []any

	var d toml.LocalDate
	if err := d.UnmarshalText([]byte(s)); err == nil {
		candidates = append(candidates, d)
	}
	var dt toml.LocalDateTime
	if err := dt.UnmarshalText([]byte(s)); err == nil {
		candidates = append(candidates, dt)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		candidates = append(candidates, t)
	}

	for _, c := range candidates {
		if out, ok := DateString(c); ok && out == s {
			return c, true
		}
	}
	return nil, false
}
