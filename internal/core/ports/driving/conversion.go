package driving

import (
	"context"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

// ConversionService converts Croissant metadata between JSON-LD and TOML.
type ConversionService interface {
	// ToTOML converts JSON-LD bytes into commented TOML.
	ToTOML(ctx context.Context, jsonld []byte) ([]byte, error)

	// ToJSONLD converts TOML bytes into JSON-LD. Validation errors abort the
	// conversion with a *domain.ValidationError carrying the report.
	ToJSONLD(ctx context.Context, toml []byte) ([]byte, error)

	// Validate checks TOML bytes and returns the report.
	Validate(ctx context.Context, toml []byte) (*domain.Report, error)

	// RoundTrip converts JSON-LD to TOML and back and compares the results.
	// A mismatch is returned as an error wrapping domain.ErrRoundTrip
	// alongside the result.
	RoundTrip(ctx context.Context, jsonld []byte) (*domain.RoundTrip, error)
}
