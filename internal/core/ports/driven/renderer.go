package driven

import "github.com/TheLustriVA/Croissant-TOML/internal/core/domain"

// Renderer writes an intermediate document as commented TOML.
// The document is assumed valid; renderers do not re-validate.
type Renderer interface {
	Render(doc *domain.Document) ([]byte, error)
}
