// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and adapters implement them.
//
// # Required Interfaces
//
//   - Normaliser: JSON-LD to intermediate document
//   - Renderer: intermediate document to commented TOML
//   - TextParser: TOML to decoded tree and back to intermediate document
//   - Validator: decoded tree to diagnostics
//   - ReverseMapper: intermediate document to JSON-LD
//   - ConfigStore: application configuration
//
// Conversion ports are pure functions of their input. They take no context
// because a started conversion always runs to completion.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or implementation package
package driven
