package mcp

import (
	"github.com/TheLustriVA/Croissant-TOML/internal/catalog"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/ports/driving"
)

// Ports aggregates what the MCP server needs.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Conversion converts and validates documents.
	Conversion driving.ConversionService

	// Catalog backs the schema and field resources. Optional.
	Catalog *catalog.Catalog
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Conversion == nil {
		return ErrMissingConversionService
	}
	return nil
}
