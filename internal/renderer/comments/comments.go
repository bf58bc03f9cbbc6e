// Package comments supplies the one-line annotations written above TOML keys.
//
// Comment text depends only on the catalog, so it can change without
// touching the renderer's layout code.
package comments

import (
	"strings"

	"github.com/TheLustriVA/Croissant-TOML/internal/catalog"
)

// Header lines opening every rendered document.
const (
	Title      = "Croissant Dataset Metadata"
	Provenance = "Generated from JSON-LD format"
	RAI        = "Responsible AI metadata"
)

// For returns the comment text for a key, or "" when the catalog has no
// description for it.
func For(cat *catalog.Catalog, section, key string) string {
	return oneLine(cat.Description(section, key))
}

// ConformsTo returns the header line naming the conformance URL.
func ConformsTo(url string) string {
	return "Conforms to: " + oneLine(url)
}

// oneLine collapses whitespace so a description never spills past its '#'.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
