// Package textparser reads the TOML layout back into generic trees and
// intermediate documents.
package textparser

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.TextParser = (*Parser)(nil)

// Table and key names of the layout.
const (
	TableMetadata     = "metadata"
	TableSchema       = "schema"
	TableDistribution = "distribution"
	TableRecordSets   = "recordsets"
	TableFields       = "fields"
	TableSource       = "source"
	TableExtract      = "extract"
	TableRAI          = "rai"
	TableAnnotation   = "annotation"
	TableDemographics = "demographics"

	keyID   = "id"
	keyType = "type"
	keyKey  = "key"
)

// Parser decodes TOML text. It holds no state and is safe for concurrent use.
type Parser struct{}

// New creates a Parser.
func New() *Parser {
	return &Parser{}
}

// Decode parses TOML bytes into a generic tree. Date and time literals
// become strings. Text that is not TOML fails with domain.ErrDecode.
func (p *Parser) Decode(data []byte) (*domain.Tree, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return nil, fmt.Errorf("%w: line %d, column %d: %s", domain.ErrDecode, row, col, de.Error())
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if raw == nil {
		raw = make(map[string]any)
	}

	tree := &domain.Tree{Data: plain(raw).(map[string]any)}
	tree.RecordSetOrder = recordSetOrder(data, tree.Data)
	return tree, nil
}

// plain converts decoded date and time values to strings.
func plain(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = plain(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}
		return out
	default:
		if s, ok := DateString(v); ok {
			return s
		}
		return v
	}
}

// recordSetOrder lists recordsets.<id> keys in the order they first appear
// in the text. Ids only reachable through inline tables follow, sorted.
func recordSetOrder(data []byte, tree map[string]any) []string {
	sets, _ := tree[TableRecordSets].(map[string]any)
	if len(sets) == 0 {
		return nil
	}

	var (
		order   []string
		seen    = make(map[string]bool, len(sets))
		current []string
	)
	note := func(path []string) {
		if len(path) < 2 || path[0] != TableRecordSets || seen[path[1]] {
			return
		}
		if _, ok := sets[path[1]]; !ok {
			return
		}
		seen[path[1]] = true
		order = append(order, path[1])
	}

	var parser unstable.Parser
	parser.Reset(data)
	for parser.NextExpression() {
		expr := parser.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			current = keyParts(expr)
			note(current)
		case unstable.KeyValue:
			note(append(slices.Clone(current), keyParts(expr)...))
		}
	}

	for _, id := range slices.Sorted(maps.Keys(sets)) {
		if !seen[id] {
			order = append(order, id)
		}
	}
	return order
}

func keyParts(n *unstable.Node) []string {
	var parts []string
	it := n.Key()
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}
