// Package typemodel holds the inferred schema Type and its operations:
// Jaccard similarity, merging, inherited-feature removal, and PG-Schema
// rendering, per spec.md §4.4. Grounded on
// original_source/src/graph_type/type.py, reworked into idiomatic Go.
package typemodel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderritik/pgschema/internal/graphmodel"
)

// Entity distinguishes node types from edge types.
type Entity string

const (
	NodeEntity Entity = "NODE"
	EdgeEntity Entity = "EDGE"
)

// Type is an inferred node or edge type: a concept lifted out of the
// concept lattice and carried through merge/abstraction/endpoint passes.
type Type struct {
	ConceptID int
	Name      string
	Entity    Entity
	IsAbstract bool

	Labels         map[string]struct{}
	OptionalLabels map[string]struct{}

	Properties         map[string]graphmodel.Datatype
	OptionalProperties map[string]graphmodel.Datatype

	OpenLabels     bool
	OpenProperties bool

	// Members holds the element ids (nodes or edges) this type was
	// inferred from; it shrinks as _remove_elements_in_subtypes-style
	// demotion removes elements claimed by a more specific subtype.
	Members map[string]struct{}

	Supertypes map[string]struct{}
	Subtypes   map[string]struct{}

	// StartNodeTypes/EndNodeTypes are populated only for EdgeEntity types
	// by the endpoint computation pass.
	StartNodeTypes map[string]struct{}
	EndNodeTypes   map[string]struct{}
}

// New builds a Type with the given concept id, entity kind and member ids;
// its label, property, relation and endpoint sets start empty and are
// filled in by the caller.
func New(conceptID int, entity Entity, members []string) *Type {
	return &Type{
		ConceptID:          conceptID,
		Entity:             entity,
		Labels:             make(map[string]struct{}),
		OptionalLabels:     make(map[string]struct{}),
		Properties:         make(map[string]graphmodel.Datatype),
		OptionalProperties: make(map[string]graphmodel.Datatype),
		Members:            toSet(members),
		Supertypes:         make(map[string]struct{}),
		Subtypes:           make(map[string]struct{}),
		StartNodeTypes:     make(map[string]struct{}),
		EndNodeTypes:       make(map[string]struct{}),
	}
}

func toSet(items []string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, i := range items {
		s[i] = struct{}{}
	}
	return s
}

// GenerateName assigns the deterministic concept-id-derived name of
// spec.md §4.4 ("NodeTypeN"/"EdgeTypeN"), or, for an abstract type, a name
// built from its subtypes' names.
func (t *Type) GenerateName(subtypeNames []string) {
	if t.IsAbstract {
		sorted := append([]string(nil), subtypeNames...)
		sort.Strings(sorted)
		prefix := "AbstractNodeType"
		if t.Entity == EdgeEntity {
			prefix = "AbstractEdgeType"
		}
		t.Name = prefix + strings.Join(sorted, "+")
		return
	}
	prefix := "NodeType"
	if t.Entity == EdgeEntity {
		prefix = "EdgeType"
	}
	t.Name = fmt.Sprintf("%s%d", prefix, t.ConceptID)
}

// JaccardSimilarity computes the weighted-by-facet-size similarity of
// spec.md §4.4 (chosen over the original's unweighted 4-facet average per
// SPEC_FULL.md §5.1): each facet (labels, optional labels, properties,
// optional properties) contributes its union size as a weight, so a type
// pair with many shared properties but only one shared label isn't diluted
// to the same degree a uniform average would apply.
func JaccardSimilarity(a, b *Type) float64 {
	facets := []struct {
		a, b map[string]struct{}
	}{
		{a.Labels, b.Labels},
		{a.OptionalLabels, b.OptionalLabels},
		{propKeys(a.Properties), propKeys(b.Properties)},
		{propKeys(a.OptionalProperties), propKeys(b.OptionalProperties)},
	}

	var weightedSum, totalWeight float64
	for _, f := range facets {
		union := unionSize(f.a, f.b)
		if union == 0 {
			continue
		}
		inter := intersectionSize(f.a, f.b)
		weightedSum += float64(inter)
		totalWeight += float64(union)
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

func propKeys(m map[string]graphmodel.Datatype) map[string]struct{} {
	s := make(map[string]struct{}, len(m))
	for k := range m {
		s[k] = struct{}{}
	}
	return s
}

func unionSize(a, b map[string]struct{}) int {
	s := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		s[k] = struct{}{}
	}
	for k := range b {
		s[k] = struct{}{}
	}
	return len(s)
}

func intersectionSize(a, b map[string]struct{}) int {
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

// AllSupertypes returns the transitive closure of supertype names reachable
// from the given registry, excluding t itself.
func (t *Type) AllSupertypes(registry map[string]*Type) map[string]struct{} {
	out := make(map[string]struct{})
	var walk func(name string)
	walk = func(name string) {
		st, ok := registry[name]
		if !ok {
			return
		}
		for sup := range st.Supertypes {
			if _, seen := out[sup]; !seen {
				out[sup] = struct{}{}
				walk(sup)
			}
		}
	}
	walk(t.Name)
	return out
}

// AllSubtypes returns the transitive closure of subtype names.
func (t *Type) AllSubtypes(registry map[string]*Type) map[string]struct{} {
	out := make(map[string]struct{})
	var walk func(name string)
	walk = func(name string) {
		st, ok := registry[name]
		if !ok {
			return
		}
		for sub := range st.Subtypes {
			if _, seen := out[sub]; !seen {
				out[sub] = struct{}{}
				walk(sub)
			}
		}
	}
	walk(t.Name)
	return out
}

// RemoveInheritedFeatures subtracts every transitive supertype's labels,
// optional labels, properties, optional properties and (for edges)
// endpoint types from t, per spec.md §4.3.7.
func (t *Type) RemoveInheritedFeatures(registry map[string]*Type) {
	for supName := range t.AllSupertypes(registry) {
		sup, ok := registry[supName]
		if !ok {
			continue
		}
		subtractLabels(t.Labels, sup.Labels)
		subtractLabels(t.OptionalLabels, sup.OptionalLabels)
		subtractProps(t.Properties, sup.Properties)
		subtractProps(t.OptionalProperties, sup.OptionalProperties)
		if t.Entity == EdgeEntity {
			subtractLabels(t.StartNodeTypes, sup.StartNodeTypes)
			subtractLabels(t.EndNodeTypes, sup.EndNodeTypes)
		}
	}
}

func subtractLabels(dst, src map[string]struct{}) {
	for k := range src {
		delete(dst, k)
	}
}

func subtractProps(dst map[string]graphmodel.Datatype, src map[string]graphmodel.Datatype) {
	for k := range src {
		delete(dst, k)
	}
}
