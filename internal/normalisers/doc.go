// Package normalisers holds the input normalisers. Each one turns a source
// format into the canonical domain.Document.
//
// The jsonld subpackage reads Croissant JSON-LD, folding IRI, prefixed and
// legacy key spellings onto catalog names.
package normalisers
