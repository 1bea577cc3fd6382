// Package schemalang parses and emits the PG-Schema mini-language defined in
// spec.md §6.1, grounded on
// original_source/src/graph_generator/schema_parser.py. The original is
// regex-driven; no parser-combinator or PEG library appears anywhere in the
// example pack, so this stays on the standard library's regexp and strings
// packages rather than inventing a grammar dependency with no grounding.
package schemalang

import (
	"github.com/alexanderritik/pgschema/internal/config"
	"github.com/alexanderritik/pgschema/internal/typemodel"
)

// Schema is a fully parsed (and inheritance-resolved) PG-Schema document.
type Schema struct {
	Name      string
	Mode      config.GraphTypeMode
	NodeTypes map[string]*typemodel.Type
	EdgeTypes map[string]*typemodel.Type
	// Order preserves definition order for deterministic emission.
	Order []string
}

func newSchema(name string, mode config.GraphTypeMode) *Schema {
	return &Schema{
		Name:      name,
		Mode:      mode,
		NodeTypes: make(map[string]*typemodel.Type),
		EdgeTypes: make(map[string]*typemodel.Type),
	}
}

func (s *Schema) lookup(name string) (*typemodel.Type, bool) {
	if ty, ok := s.NodeTypes[name]; ok {
		return ty, true
	}
	if ty, ok := s.EdgeTypes[name]; ok {
		return ty, true
	}
	return nil, false
}

// AllTypes returns every parsed type in definition order.
func (s *Schema) AllTypes() []*typemodel.Type {
	out := make([]*typemodel.Type, 0, len(s.Order))
	for _, name := range s.Order {
		if ty, ok := s.lookup(name); ok {
			out = append(out, ty)
		}
	}
	return out
}
