package driven

import "github.com/TheLustriVA/Croissant-TOML/internal/core/domain"

// TextParser reads TOML documents.
type TextParser interface {
	// Decode parses TOML bytes into a generic tree.
	// Returns an error wrapping domain.ErrDecode when the bytes are not TOML.
	Decode(data []byte) (*domain.Tree, error)

	// Build converts a decoded tree into the intermediate form.
	Build(tree *domain.Tree) (*domain.Document, error)
}
