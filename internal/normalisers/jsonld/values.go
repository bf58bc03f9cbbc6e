package jsonld

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
)

// decode parses JSON bytes into generic values. Integral numbers become
// int64, other numbers float64. null is rejected because TOML cannot hold it.
func decode(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			return nil, domain.NewParseError("", "invalid JSON at offset %d: %v", syntax.Offset, err)
		}
		return nil, domain.NewParseError("", "invalid JSON: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, domain.NewParseError("", "unexpected data after the JSON document")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, domain.NewParseError("", "document must be a JSON object")
	}

	out, err := convert("", obj)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

func convert(path string, v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, domain.NewParseError(path, "null values are not supported")
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, domain.NewParseError(path, "number %s out of range", t)
		}
		return f, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			c, err := convert(index(path, i), item)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for _, k := range sortedKeys(t) {
			c, err := convert(join(path, k), t[k])
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	default:
		return v, nil
	}
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// target collects the properties of one entity and rejects two source keys
// that land on the same canonical key.
type target struct {
	values domain.Values
	seen   map[string]string
}

func newTarget() *target {
	return &target{values: domain.Values{}, seen: make(map[string]string)}
}

func (t *target) claim(path, canonical, sourceKey string) error {
	if prev, dup := t.seen[canonical]; dup {
		return domain.NewParseError(path, "keys %q and %q both set %s", prev, sourceKey, canonical)
	}
	t.seen[canonical] = sourceKey
	return nil
}

func (t *target) put(path, canonical, sourceKey string, v any) error {
	if err := t.claim(path, canonical, sourceKey); err != nil {
		return err
	}
	t.values[canonical] = v
	return nil
}

// reference reads an identifier given as "id" or {"@id": "id"}.
func reference(path string, v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case map[string]any:
		if id, ok := t["@id"].(string); ok && len(t) == 1 {
			return id, nil
		}
	}
	return "", domain.NewParseError(path, "expected an identifier or {\"@id\": ...} reference")
}

// references reads one or many references into a list.
func references(path string, v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		id, err := reference(path, v)
		if err != nil {
			return nil, err
		}
		return []string{id}, nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		id, err := reference(index(path, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// objects reads a collection, which must be an array of objects.
func objects(path string, v any) ([]map[string]any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, domain.NewParseError(path, "expected an array of objects, got %s", kind(v))
	}
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, domain.NewParseError(index(path, i), "expected an object, got %s", kind(item))
		}
		out = append(out, obj)
	}
	return out, nil
}

func kind(v any) string {
	switch v.(type) {
	case string:
		return "a string"
	case int64, float64:
		return "a number"
	case bool:
		return "a boolean"
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
