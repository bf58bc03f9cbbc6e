package catalog

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

//go:embed catalog.yaml
var defaultData []byte

// Section names.
const (
	SectionMetadata     = "metadata"
	SectionSchema       = "schema"
	SectionDistribution = "distribution"
	SectionRecordSet    = "recordset"
	SectionField        = "field"
	SectionSource       = "source"
	SectionExtract      = "extract"
	SectionRAI          = "rai"
	SectionAnnotation   = "annotation"
)

// Value types.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeScalar  = "scalar"
	TypeAny     = "any"
)

// Value formats.
const (
	FormatURL    = "url"
	FormatDate   = "date"
	FormatSHA256 = "sha256"
	FormatMD5    = "md5"
	FormatSHA1   = "sha1"
	FormatSHA512 = "sha512"
)

// Kinds of entity with a default JSON-LD @type.
const (
	KindDataset   = "dataset"
	KindRecordSet = "recordset"
	KindField     = "field"
)

const noMapping = "-"

// EnumValue is one legal value of a controlled-vocabulary field.
type EnumValue struct {
	// Value is the canonical spelling used in TOML.
	Value string `yaml:"value"`

	// JSONLD is the spelling written to JSON-LD, empty when it equals Value.
	JSONLD string `yaml:"jsonld"`

	// Aliases are further spellings accepted on input.
	Aliases []string `yaml:"aliases"`
}

// Entry describes one recognised field.
type Entry struct {
	Section     string      `yaml:"-"`
	Key         string      `yaml:"key"`
	Namespace   string      `yaml:"namespace"`
	Term        string      `yaml:"term"`
	JSONLD      string      `yaml:"jsonld"`
	Aliases     []string    `yaml:"aliases"`
	Type        string      `yaml:"type"`
	Items       string      `yaml:"items"`
	Format      string      `yaml:"format"`
	Required    bool        `yaml:"required"`
	Derived     bool        `yaml:"derived"`
	Description string      `yaml:"description"`
	Enum        []EnumValue `yaml:"enum"`

	// OpenEnum admits vocabulary IRIs outside Enum, such as Wikidata classes
	// used as data types.
	OpenEnum bool `yaml:"openEnum"`
}

// Structural reports whether the field is carried by the document model
// instead of being written back as a plain JSON-LD property.
func (e Entry) Structural() bool {
	return e.JSONLD == ""
}

// IsArray reports whether the field holds a list.
func (e Entry) IsArray() bool {
	return e.Type == TypeArray
}

func (e Entry) clone() Entry {
	e.Aliases = slices.Clone(e.Aliases)
	if e.Enum != nil {
		enum := make([]EnumValue, len(e.Enum))
		for i, v := range e.Enum {
			v.Aliases = slices.Clone(v.Aliases)
			enum[i] = v
		}
		e.Enum = enum
	}
	return e
}

// Namespace binds a compact IRI prefix to a namespace IRI.
type Namespace struct {
	Prefix  string   `yaml:"prefix"`
	IRI     string   `yaml:"iri"`
	Aliases []string `yaml:"aliases"`
}

// Collection is a repeated structure with several accepted spellings.
type Collection struct {
	// Name is the canonical TOML name.
	Name string `yaml:"name"`

	// Section is the catalog section describing each member.
	Section string `yaml:"section"`

	Namespace string   `yaml:"namespace"`
	Term      string   `yaml:"term"`
	JSONLD    string   `yaml:"jsonld"`
	Aliases   []string `yaml:"aliases"`
}

type sectionSpec struct {
	Name   string   `yaml:"name"`
	Exact  bool     `yaml:"exact"`
	Nested []string `yaml:"nested"`
	Fields []Entry  `yaml:"fields"`
}

type catalogFile struct {
	Version          string            `yaml:"version"`
	ConformsTo       string            `yaml:"conformsTo"`
	SharedVocabulary string            `yaml:"sharedVocabulary"`
	Namespaces       []Namespace       `yaml:"namespaces"`
	Types            map[string]string `yaml:"types"`
	ContextURLs      []string          `yaml:"contextURLs"`
	Context          map[string]any    `yaml:"context"`
	Collections      []Collection      `yaml:"collections"`
	Sections         []sectionSpec     `yaml:"sections"`
}

type enumIndex struct {
	values    []string
	canonical map[string]string
	jsonld    map[string]string
}

type section struct {
	name    string
	exact   bool
	nested  []string
	order   []string
	entries map[string]Entry
	byKey   map[string]string
	byIRI   map[string]string
	enums   map[string]*enumIndex
}

// Catalog is the immutable table of recognised fields. It is safe for
// concurrent use; every accessor returns copies.
type Catalog struct {
	version     string
	conformsTo  string
	shared      string
	sharedPfx   string
	namespaces  []Namespace
	prefixes    map[string]string
	iris        map[string]string
	types       map[string]string
	contextURLs []string
	context     map[string]any
	collections []Collection
	sections    []*section
	byName      map[string]*section
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Load(defaultData)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
	}
	return c
})

// Default returns the process-wide catalog built from the embedded data file.
func Default() *Catalog {
	return defaultCatalog()
}

// Load parses catalog data. Each call returns an independent catalog.
func Load(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	applyDefaults(&f)

	c := &Catalog{
		version:     f.Version,
		conformsTo:  f.ConformsTo,
		prefixes:    make(map[string]string),
		iris:        make(map[string]string),
		types:       maps.Clone(f.Types),
		contextURLs: f.ContextURLs,
		context:     f.Context,
		collections: f.Collections,
		byName:      make(map[string]*section),
	}

	for _, ns := range f.Namespaces {
		if ns.Prefix == "" || ns.IRI == "" {
			return nil, fmt.Errorf("%w: namespace needs a prefix and an IRI", domain.ErrInvalidInput)
		}
		c.prefixes[ns.Prefix] = ns.IRI
		c.iris[ns.IRI] = ns.IRI
		for _, alias := range ns.Aliases {
			c.iris[alias] = ns.IRI
		}
		c.namespaces = append(c.namespaces, ns)
	}

	if f.SharedVocabulary != "" {
		iri, ok := c.prefixes[f.SharedVocabulary]
		if !ok {
			return nil, fmt.Errorf("%w: unknown shared vocabulary prefix %q", domain.ErrInvalidInput, f.SharedVocabulary)
		}
		c.shared = iri
		c.sharedPfx = f.SharedVocabulary
	}

	for _, spec := range f.Sections {
		s, err := c.buildSection(spec)
		if err != nil {
			return nil, err
		}
		c.sections = append(c.sections, s)
		c.byName[s.name] = s
	}

	for _, col := range c.collections {
		if _, ok := c.byName[col.Section]; !ok {
			return nil, fmt.Errorf("%w: collection %s refers to unknown section %q", domain.ErrInvalidInput, col.Name, col.Section)
		}
	}

	return c, nil
}

func applyDefaults(f *catalogFile) {
	if f.Version == "" {
		f.Version = "1.0"
	}
	for i := range f.Collections {
		col := &f.Collections[i]
		if col.Term == "" {
			col.Term = col.Name
		}
		if col.JSONLD == "" {
			col.JSONLD = col.Term
		}
	}
	for i := range f.Sections {
		s := &f.Sections[i]
		for j := range s.Fields {
			e := &s.Fields[j]
			e.Section = s.Name
			if e.Term == "" {
				e.Term = e.Key
			}
			if e.Type == "" {
				e.Type = TypeAny
			}
			switch {
			case e.JSONLD == noMapping:
				e.JSONLD = ""
			case e.JSONLD != "":
			case e.Namespace == "rai":
				e.JSONLD = "rai:" + e.Term
			default:
				e.JSONLD = e.Term
			}
		}
	}
}

func (c *Catalog) buildSection(spec sectionSpec) (*section, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: section without a name", domain.ErrInvalidInput)
	}
	if _, dup := c.byName[spec.Name]; dup {
		return nil, fmt.Errorf("%w: duplicate section %q", domain.ErrInvalidInput, spec.Name)
	}

	s := &section{
		name:    spec.Name,
		exact:   spec.Exact,
		nested:  spec.Nested,
		entries: make(map[string]Entry),
		byKey:   make(map[string]string),
		byIRI:   make(map[string]string),
		enums:   make(map[string]*enumIndex),
	}

	for _, e := range spec.Fields {
		if e.Key == "" {
			return nil, fmt.Errorf("%w: field without a key in section %s", domain.ErrInvalidInput, spec.Name)
		}
		if _, dup := s.entries[e.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate field %s.%s", domain.ErrInvalidInput, spec.Name, e.Key)
		}
		if slices.Contains(spec.Nested, e.Key) {
			return nil, fmt.Errorf("%w: field %s.%s shadows a nested table", domain.ErrInvalidInput, spec.Name, e.Key)
		}

		s.entries[e.Key] = e
		s.order = append(s.order, e.Key)

		if !e.Derived {
			for _, spelling := range append([]string{e.Key}, e.Aliases...) {
				k := s.fold(spelling)
				if prev, taken := s.byKey[k]; taken && prev != e.Key {
					return nil, fmt.Errorf("%w: %s.%s and %s.%s are indistinguishable", domain.ErrInvalidInput, spec.Name, prev, spec.Name, e.Key)
				}
				s.byKey[k] = e.Key
			}
			if e.Namespace != "" {
				iri, ok := c.prefixes[e.Namespace]
				if !ok {
					return nil, fmt.Errorf("%w: field %s.%s uses unknown namespace %q", domain.ErrInvalidInput, spec.Name, e.Key, e.Namespace)
				}
				s.byIRI[iri+s.fold(e.Term)] = e.Key
			}
		}

		if len(e.Enum) > 0 {
			s.enums[e.Key] = c.buildEnum(e.Enum)
		}
	}

	return s, nil
}

func (c *Catalog) buildEnum(values []EnumValue) *enumIndex {
	idx := &enumIndex{
		canonical: make(map[string]string),
		jsonld:    make(map[string]string),
	}
	for _, v := range values {
		idx.values = append(idx.values, v.Value)
		out := v.JSONLD
		if out == "" {
			out = v.Value
		}
		idx.jsonld[v.Value] = out

		spellings := []string{v.Value, out}
		spellings = append(spellings, v.Aliases...)
		for _, s := range spellings {
			idx.canonical[s] = v.Value
			if iri, ok := c.Expand(s); ok {
				idx.canonical[iri] = v.Value
			}
		}
	}
	return idx
}

func (s *section) fold(key string) string {
	if s.exact {
		return key
	}
	return Fold(key)
}

// Fold lowercases key and removes '_' and '-' separators, so that
// record_sets, recordSets and RecordSets compare equal.
func Fold(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range strings.ToLower(key) {
		if r == '_' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Version returns the catalog data version.
func (c *Catalog) Version() string {
	return c.version
}

// ConformsTo returns the Croissant conformance URL the catalog describes.
func (c *Catalog) ConformsTo() string {
	return c.conformsTo
}

// SharedVocabulary returns the namespace IRI whose terms belong in metadata.schema.
func (c *Catalog) SharedVocabulary() string {
	return c.shared
}

// SharedPrefix returns the prefix of the shared vocabulary, e.g. "sc".
func (c *Catalog) SharedPrefix() string {
	return c.sharedPfx
}

// Namespaces returns the prefix to namespace IRI table.
func (c *Catalog) Namespaces() map[string]string {
	return maps.Clone(c.prefixes)
}

// Expand turns a compact IRI such as sc:name into a full IRI.
func (c *Catalog) Expand(compact string) (string, bool) {
	prefix, local, ok := strings.Cut(compact, ":")
	if !ok || strings.HasPrefix(local, "//") {
		return "", false
	}
	iri, ok := c.prefixes[prefix]
	if !ok {
		return "", false
	}
	return iri + local, true
}

// Split separates a full IRI into a known namespace IRI and a local term.
// Namespace aliases (http://schema.org/) are reported as their canonical IRI.
// The longest matching namespace wins.
func (c *Catalog) Split(iri string) (string, string, bool) {
	best := ""
	for ns := range c.iris {
		if strings.HasPrefix(iri, ns) && len(ns) > len(best) {
			best = ns
		}
	}
	if best == "" || len(iri) == len(best) {
		return "", "", false
	}
	return c.iris[best], iri[len(best):], true
}

// DefaultType returns the JSON-LD @type implied for an entity kind.
func (c *Catalog) DefaultType(kind string) string {
	return c.types[kind]
}

// IsContextURL reports whether ref names the built-in Croissant context.
func (c *Catalog) IsContextURL(ref string) bool {
	return slices.Contains(c.contextURLs, ref)
}

// Context returns a copy of the built-in Croissant @context.
func (c *Catalog) Context() map[string]any {
	return domain.CloneValue(c.context).(map[string]any)
}

// Collections returns every collection in declaration order.
func (c *Catalog) Collections() []Collection {
	out := make([]Collection, len(c.collections))
	for i, col := range c.collections {
		col.Aliases = slices.Clone(col.Aliases)
		out[i] = col
	}
	return out
}

// Collection resolves any accepted spelling of a collection name.
func (c *Catalog) Collection(key string) (Collection, bool) {
	k := Fold(key)
	for _, col := range c.Collections() {
		if Fold(col.Name) == k || Fold(col.Term) == k || Fold(col.JSONLD) == k {
			return col, true
		}
		for _, alias := range col.Aliases {
			if Fold(alias) == k {
				return col, true
			}
		}
	}
	return Collection{}, false
}

// CollectionIRI resolves a collection by namespace IRI and local term.
func (c *Catalog) CollectionIRI(ns, local string) (Collection, bool) {
	for _, col := range c.Collections() {
		if c.prefixes[col.Namespace] == ns && Fold(col.Term) == Fold(local) {
			return col, true
		}
	}
	return Collection{}, false
}

// CollectionNamed returns the collection with the given canonical name.
func (c *Catalog) CollectionNamed(name string) (Collection, bool) {
	for _, col := range c.Collections() {
		if col.Name == name {
			return col, true
		}
	}
	return Collection{}, false
}

// Sections returns the section names in rendering order.
func (c *Catalog) Sections() []string {
	out := make([]string, len(c.sections))
	for i, s := range c.sections {
		out[i] = s.name
	}
	return out
}

// Nested returns the names of the sub-tables a section owns.
func (c *Catalog) Nested(sectionName string) []string {
	s, ok := c.byName[sectionName]
	if !ok {
		return nil
	}
	return slices.Clone(s.nested)
}

// IsNested reports whether key names a sub-table of the section.
func (c *Catalog) IsNested(sectionName, key string) bool {
	s, ok := c.byName[sectionName]
	return ok && slices.Contains(s.nested, key)
}

// Entry returns the entry for a canonical key.
func (c *Catalog) Entry(sectionName, key string) (Entry, bool) {
	s, ok := c.byName[sectionName]
	if !ok {
		return Entry{}, false
	}
	e, ok := s.entries[key]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// Entries returns the entries of a section in catalog order.
func (c *Catalog) Entries(sectionName string) []Entry {
	s, ok := c.byName[sectionName]
	if !ok {
		return nil
	}
	out := make([]Entry, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.entries[key].clone())
	}
	return out
}

// Resolve maps a source key variant to its entry. Matching ignores case and
// '_'/'-' separators except in exact sections, where keys keep their case.
// Derived entries are never resolved from a key.
func (c *Catalog) Resolve(sectionName, sourceKey string) (Entry, bool) {
	s, ok := c.byName[sectionName]
	if !ok {
		return Entry{}, false
	}
	key, ok := s.byKey[s.fold(sourceKey)]
	if !ok {
		return Entry{}, false
	}
	return s.entries[key].clone(), true
}

// ResolveIRI maps a namespace IRI and local term to an entry.
func (c *Catalog) ResolveIRI(sectionName, ns, local string) (Entry, bool) {
	s, ok := c.byName[sectionName]
	if !ok {
		return Entry{}, false
	}
	key, ok := s.byIRI[ns+s.fold(local)]
	if !ok {
		return Entry{}, false
	}
	return s.entries[key].clone(), true
}

// Order returns the canonical keys of a section in rendering order.
func (c *Catalog) Order(sectionName string) []string {
	s, ok := c.byName[sectionName]
	if !ok {
		return nil
	}
	return slices.Clone(s.order)
}

// Description returns the human description of a field, empty if none.
func (c *Catalog) Description(sectionName, key string) string {
	e, ok := c.Entry(sectionName, key)
	if !ok {
		return ""
	}
	return e.Description
}

// Enum returns the legal values of a controlled-vocabulary field in catalog
// order, nil for fields without an enumeration.
func (c *Catalog) Enum(sectionName, key string) []string {
	idx := c.enum(sectionName, key)
	if idx == nil {
		return nil
	}
	return slices.Clone(idx.values)
}

// CanonicalValue maps any accepted spelling of an enumerated value to its
// canonical form. Unknown values are returned unchanged.
func (c *Catalog) CanonicalValue(sectionName, key, value string) string {
	idx := c.enum(sectionName, key)
	if idx == nil {
		return value
	}
	if v, ok := idx.canonical[value]; ok {
		return v
	}
	return value
}

// JSONLDValue maps a canonical enumerated value to its JSON-LD spelling.
// Unknown values are returned unchanged.
func (c *Catalog) JSONLDValue(sectionName, key, value string) string {
	idx := c.enum(sectionName, key)
	if idx == nil {
		return value
	}
	if v, ok := idx.jsonld[value]; ok {
		return v
	}
	return value
}

func (c *Catalog) enum(sectionName, key string) *enumIndex {
	s, ok := c.byName[sectionName]
	if !ok {
		return nil
	}
	return s.enums[key]
}
