// Package domain defines the core types of the Croissant TOML converter.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: the canonical intermediate form of a dataset description
//   - Diagnostic and Report: validation findings
//   - ParseError, ValidationError, MappingError: typed conversion failures
//   - AppSettings: persisted user preferences
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
