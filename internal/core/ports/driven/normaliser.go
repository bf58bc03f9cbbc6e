package driven

import "github.com/TheLustriVA/Croissant-TOML/internal/core/domain"

// Normaliser transforms a JSON-LD document into the intermediate form.
type Normaliser interface {
	// Normalise parses and normalises JSON-LD bytes.
	// Returns a *domain.ParseError when the input is not a well-formed
	// Croissant graph.
	Normalise(data []byte) (*domain.Document, error)
}
