package driven

import "github.com/TheLustriVA/Croissant-TOML/internal/core/domain"

// ReverseMapper turns an intermediate document back into JSON-LD.
type ReverseMapper interface {
	// Map returns the JSON-LD object. A catalog key without a JSON-LD
	// spelling yields a *domain.MappingError.
	Map(doc *domain.Document) (map[string]any, error)

	// Encode serialises a JSON-LD object, indenting by the given number of
	// spaces. Zero gives compact output.
	Encode(obj map[string]any, indent int) ([]byte, error)
}
