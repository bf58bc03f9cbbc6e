package driven

import "github.com/TheLustriVA/Croissant-TOML/internal/core/domain"

// Validator checks a decoded TOML tree.
type Validator interface {
	// Validate runs every check and collects all findings.
	// It never fails on content.
	Validate(tree *domain.Tree) *domain.Report
}
