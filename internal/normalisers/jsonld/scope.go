package jsonld

import (
	"reflect"
	"strings"

	"github.com/TheLustriVA/Croissant-TOML/internal/catalog"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

// scope is the key resolution state built from the built-in Croissant
// context and the document's own @context.
type scope struct {
	cat      *catalog.Catalog
	prefixes map[string]string
	terms    map[string]string

	// custom holds @context object entries that differ from the built-in context.
	custom map[string]any

	// imports holds remote context references other than the Croissant context.
	imports []any
}

// term is a key after context expansion.
type term struct {
	// ns is a catalog namespace IRI, empty when the key has none.
	ns string

	// local is the term within ns, or the bare key.
	local string

	// qualified is true when the key was a compact or full IRI, including
	// IRIs in namespaces the catalog does not know.
	qualified bool
}

func newScope(cat *catalog.Catalog, raw any) (*scope, error) {
	s := &scope{
		cat:      cat,
		prefixes: cat.Namespaces(),
		terms:    make(map[string]string),
		custom:   make(map[string]any),
	}

	builtin := cat.Context()
	s.absorb(builtin)

	switch v := raw.(type) {
	case nil:
	case string:
		s.reference(v)
	case map[string]any:
		s.object(v, builtin)
	case []any:
		for i, item := range v {
			switch t := item.(type) {
			case string:
				s.reference(t)
			case map[string]any:
				s.object(t, builtin)
			default:
				return nil, domain.NewParseError(index("@context", i), "context entries must be objects or references")
			}
		}
	default:
		return nil, domain.NewParseError("@context", "expected an object, a reference or an array of both")
	}

	return s, nil
}

func (s *scope) reference(ref string) {
	if !s.cat.IsContextURL(ref) {
		s.imports = append(s.imports, ref)
	}
}

func (s *scope) object(obj, builtin map[string]any) {
	for _, k := range sortedKeys(obj) {
		if b, ok := builtin[k]; ok && reflect.DeepEqual(b, obj[k]) {
			continue
		}
		s.custom[k] = obj[k]
	}
	s.absorb(obj)
}

// absorb records prefix definitions and term aliases.
func (s *scope) absorb(obj map[string]any) {
	for k, v := range obj {
		if strings.HasPrefix(k, "@") {
			continue
		}
		var iri string
		switch t := v.(type) {
		case string:
			iri = t
		case map[string]any:
			iri, _ = t["@id"].(string)
		}
		if iri == "" {
			continue
		}
		if strings.HasSuffix(iri, "/") || strings.HasSuffix(iri, "#") {
			s.prefixes[k] = iri
			continue
		}
		s.terms[k] = iri
	}
}

// expand turns a compact IRI into a full one using every known prefix.
func (s *scope) expand(v string) (string, bool) {
	prefix, local, ok := strings.Cut(v, ":")
	if !ok || strings.HasPrefix(local, "//") {
		return "", false
	}
	iri, ok := s.prefixes[prefix]
	if !ok {
		return "", false
	}
	return iri + local, true
}

// iri returns v as a full IRI with catalog namespace aliases normalised.
func (s *scope) iri(v string) string {
	if full, ok := s.expand(v); ok {
		v = full
	}
	if ns, local, ok := s.cat.Split(v); ok {
		return ns + local
	}
	return v
}

func (s *scope) term(key string) term {
	resolved := key
	if alias, ok := s.terms[key]; ok {
		resolved = alias
	}
	if full, ok := s.expand(resolved); ok {
		resolved = full
	}
	if ns, local, ok := s.cat.Split(resolved); ok {
		return term{ns: ns, local: local, qualified: true}
	}
	if strings.Contains(resolved, ":") {
		return term{local: resolved, qualified: true}
	}
	return term{local: resolved}
}

// resolve finds the catalog entry a key denotes within a section.
func (s *scope) resolve(section, key string) (catalog.Entry, bool) {
	t := s.term(key)
	switch {
	case t.ns != "":
		return s.cat.ResolveIRI(section, t.ns, t.local)
	case t.qualified:
		return catalog.Entry{}, false
	default:
		return s.cat.Resolve(section, t.local)
	}
}

// collection finds the collection a key denotes, limited to the given names.
func (s *scope) collection(key string, names ...string) (catalog.Collection, bool) {
	t := s.term(key)
	var (
		col catalog.Collection
		ok  bool
	)
	switch {
	case t.ns != "":
		col, ok = s.cat.CollectionIRI(t.ns, t.local)
	case t.qualified:
		return catalog.Collection{}, false
	default:
		col, ok = s.cat.Collection(t.local)
	}
	if !ok {
		return catalog.Collection{}, false
	}
	for _, n := range names {
		if col.Name == n {
			return col, true
		}
	}
	return catalog.Collection{}, false
}

// is reports whether key is the bare name or the namespaced term given.
func (s *scope) is(key, ns, name string) bool {
	t := s.term(key)
	if t.ns != "" {
		return t.ns == ns && catalog.Fold(t.local) == catalog.Fold(name)
	}
	return !t.qualified && catalog.Fold(t.local) == catalog.Fold(name)
}

func (s *scope) isDefaultType(v any, kind string) bool {
	str, ok := v.(string)
	if !ok {
		return false
	}
	want := s.cat.DefaultType(kind)
	return want != "" && s.iri(str) == s.iri(want)
}

// canonicalEnum canonicalises enumerated spellings in a string or list value.
func (s *scope) canonicalEnum(section, key string, v any) any {
	switch t := v.(type) {
	case string:
		c := s.cat.CanonicalValue(section, key, t)
		if c == t {
			if full, ok := s.expand(t); ok {
				if alt := s.cat.CanonicalValue(section, key, full); alt != full {
					return alt
				}
			}
		}
		return c
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = s.canonicalEnum(section, key, item)
		}
		return out
	default:
		return v
	}
}

func (s *scope) namespace(prefix string) string {
	return s.cat.Namespaces()[prefix]
}
