package validator

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/TheLustriVA/Croissant-TOML/internal/catalog"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

// Accepted date layouts. RFC 3339 parsing also accepts a fraction.
var dateLayouts = []string{
	time.DateOnly,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
}

// Hex digest lengths by algorithm.
var hashLengths = map[string]int{
	catalog.FormatSHA256: 64,
	catalog.FormatMD5:    32,
	catalog.FormatSHA1:   40,
	catalog.FormatSHA512: 128,
}

func (v *Validator) checkFormats(tree *domain.Tree) []domain.Diagnostic {
	var out []domain.Diagnostic
	for _, e := range walk(tree) {
		for _, k := range keys(v.cat, e) {
			entry, ok := v.cat.Entry(e.section, k)
			if !ok || entry.Format == "" {
				continue
			}
			for _, s := range texts(e.values[k]) {
				if msg := checkFormat(entry.Format, s); msg != "" {
					out = append(out, errorAt(domain.CheckFormat, e.path+"."+k, "%s", msg))
				}
			}
		}
	}
	return out
}

// checkFormat returns a message describing why s is malformed, or "".
func checkFormat(format, s string) string {
	switch format {
	case catalog.FormatURL:
		u, err := url.Parse(s)
		if err != nil {
			return fmt.Sprintf("invalid URL %q: %v", s, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Sprintf("invalid URL %q: must be absolute with a scheme and host", s)
		}
	case catalog.FormatDate:
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, s); err == nil {
				return ""
			}
		}
		return fmt.Sprintf("invalid date %q: expected YYYY-MM-DD or an ISO 8601 date-time", s)
	default:
		want, ok := hashLengths[format]
		if !ok {
			return ""
		}
		if _, err := hex.DecodeString(s); err != nil || len(s) != want {
			return fmt.Sprintf("invalid %s checksum %q: expected %d hexadecimal characters, got %d", format, s, want, len(s))
		}
	}
	return ""
}

func (v *Validator) checkVocabulary(tree *domain.Tree) []domain.Diagnostic {
	var out []domain.Diagnostic
	for _, e := range walk(tree) {
		for _, k := range keys(v.cat, e) {
			legal := v.cat.Enum(e.section, k)
			if len(legal) == 0 {
				continue
			}
			entry, _ := v.cat.Entry(e.section, k)
			path := e.path + "." + k
			for _, s := range texts(e.values[k]) {
				if slices.Contains(legal, s) {
					continue
				}
				if entry.OpenEnum && strings.Contains(s, ":") {
					out = append(out, warningAt(domain.CheckVocabulary, path, "value %q is not a catalog value for %s", s, k))
					continue
				}
				out = append(out, errorAt(domain.CheckVocabulary, path, "value %q is not allowed for %s; expected one of: %s", s, k, strings.Join(legal, ", ")))
			}
		}
	}
	return out
}

func (v *Validator) checkReferences(tree *domain.Tree) []domain.Diagnostic {
	var out []domain.Diagnostic

	dists := make(map[string]string)
	for _, e := range walk(tree) {
		if e.section != catalog.SectionDistribution {
			continue
		}
		id, ok := e.values["id"].(string)
		if !ok || id == "" {
			continue
		}
		if _, dup := dists[id]; dup {
			out = append(out, errorAt(domain.CheckReference, e.path, "duplicate distribution id %q", id))
			continue
		}
		typ, _ := e.values["type"].(string)
		dists[id] = typ
	}

	if sets, ok := tree.Data["recordsets"].(map[string]any); ok {
		for _, id := range recordSetIDs(tree, sets) {
			rs, ok := sets[id].(map[string]any)
			if !ok {
				continue
			}
			path := recordSetPath(id)
			if id == "" {
				out = append(out, errorAt(domain.CheckReference, path, "record set needs a non-empty id"))
			}
			if inner, ok := rs["id"].(string); ok && inner != id {
				out = append(out, errorAt(domain.CheckReference, path+".id", "id %q does not match table key %q", inner, id))
			}
		}
	}

	var (
		rsFields map[string]bool
		rsPath   string
		rsKeys   any
	)
	flushKeys := func() {
		if rsPath == "" {
			return
		}
		for _, k := range texts(rsKeys) {
			if !rsFields[k] {
				out = append(out, errorAt(domain.CheckReference, rsPath+".key", "key names unknown field %q", k))
			}
		}
	}

	for _, e := range walk(tree) {
		switch e.section {
		case catalog.SectionRecordSet:
			flushKeys()
			rsFields = make(map[string]bool)
			rsPath = e.path
			rsKeys = e.values["key"]
		case catalog.SectionField:
			id, ok := e.values["id"].(string)
			if !ok || id == "" {
				continue
			}
			if rsFields[id] {
				out = append(out, errorAt(domain.CheckReference, e.path, "duplicate field id %q in %s", id, rsPath))
				continue
			}
			rsFields[id] = true
		case catalog.SectionSource:
			out = append(out, sourceReferences(e, dists)...)
		}
	}
	flushKeys()

	return out
}

func sourceReferences(e entity, dists map[string]string) []domain.Diagnostic {
	var out []domain.Diagnostic
	obj, hasObj := e.values["fileObject"].(string)
	set, hasSet := e.values["fileSet"].(string)
	if hasObj && hasSet {
		out = append(out, errorAt(domain.CheckReference, e.path, "source names both fileObject %q and fileSet %q", obj, set))
	}

	for _, ref := range []struct {
		key, id, want string
		ok            bool
	}{
		{"fileObject", obj, domain.FileObject, hasObj},
		{"fileSet", set, domain.FileSet, hasSet},
	} {
		if !ref.ok {
			continue
		}
		typ, exists := dists[ref.id]
		path := e.path + "." + ref.key
		switch {
		case !exists:
			out = append(out, errorAt(domain.CheckReference, path, "source references unknown distribution %q", ref.id))
		case typ != ref.want && typ != "":
			out = append(out, warningAt(domain.CheckReference, path, "distribution %q is a %s, not a %s", ref.id, typ, ref.want))
		}
	}
	return out
}
