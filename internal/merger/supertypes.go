package merger

import (
	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/alexanderritik/pgschema/internal/typemodel"
)

// checkAndUpdateSupertypeRelations implements spec.md §4.6 step 4: drop any
// claimed supertype edge the merged type no longer satisfies, then infer new
// supertype edges wherever the same feature-subset conditions hold.
// nodeTypes supplies the node registry edges need for endpoint checks; when
// types is itself the node list, nodeTypes and types are the same slice.
func checkAndUpdateSupertypeRelations(types, nodeTypes []*typemodel.Type) {
	registry := registryOf(types)
	nodeRegistry := registryOf(nodeTypes)

	for _, ty := range types {
		valid := make(map[string]struct{})
		for supName := range ty.Supertypes {
			sup, ok := registry[supName]
			if !ok {
				continue
			}
			if isFeatureSubsetOf(sup, ty) && endpointsConform(ty, sup, nodeRegistry) {
				valid[supName] = struct{}{}
			}
		}
		ty.Supertypes = valid
	}

	for _, a := range types {
		for _, b := range types {
			if a == b {
				continue
			}
			if isFeatureSubsetOf(a, b) && endpointsConform(b, a, nodeRegistry) {
				b.Supertypes[a.Name] = struct{}{}
			}
			if isFeatureSubsetOf(b, a) && endpointsConform(a, b, nodeRegistry) {
				a.Supertypes[b.Name] = struct{}{}
			}
		}
	}

	syncSubtypes(types)
}

// isFeatureSubsetOf reports whether sub carries every one of sup's
// mandatory/optional labels and properties (sup's features ⊆ sub's).
func isFeatureSubsetOf(sup, sub *typemodel.Type) bool {
	if !labelSubset(sup.Labels, sub.Labels) {
		return false
	}
	if !labelSubset(sup.OptionalLabels, sub.OptionalLabels) {
		return false
	}
	if !propSubset(sup.Properties, sub.Properties) {
		return false
	}
	if !propSubset(sup.OptionalProperties, sub.OptionalProperties) {
		return false
	}
	return true
}

func labelSubset(sup, sub map[string]struct{}) bool {
	for l := range sup {
		if _, ok := sub[l]; !ok {
			return false
		}
	}
	return true
}

func propSubset(sup, sub map[string]graphmodel.Datatype) bool {
	for k, dt := range sup {
		got, ok := sub[k]
		if !ok || got != dt {
			return false
		}
	}
	return true
}

// endpointsConform requires, for EDGE types only, that every endpoint of sub
// equal or transitively subtype some endpoint of sup.
func endpointsConform(sub, sup *typemodel.Type, nodeRegistry map[string]*typemodel.Type) bool {
	if sub.Entity != typemodel.EdgeEntity {
		return true
	}
	return endpointSetConforms(sub.StartNodeTypes, sup.StartNodeTypes, nodeRegistry) &&
		endpointSetConforms(sub.EndNodeTypes, sup.EndNodeTypes, nodeRegistry)
}

func endpointSetConforms(subEndpoints, supEndpoints map[string]struct{}, nodeRegistry map[string]*typemodel.Type) bool {
	for ep := range subEndpoints {
		if !endpointMatchesAny(ep, supEndpoints, nodeRegistry) {
			return false
		}
	}
	return true
}

func endpointMatchesAny(ep string, supEndpoints map[string]struct{}, nodeRegistry map[string]*typemodel.Type) bool {
	for supEp := range supEndpoints {
		if ep == supEp {
			return true
		}
		node, ok := nodeRegistry[ep]
		if !ok {
			continue
		}
		if _, isSuper := node.AllSupertypes(nodeRegistry)[supEp]; isSuper {
			return true
		}
	}
	return false
}

// syncSubtypes recomputes every type's Subtypes set from the (just settled)
// Supertypes sets, keeping the B ∈ subtypes(A) ⇔ A ∈ supertypes(B) invariant
// (spec.md §8 item 2) after the repair/inference pass above — the original
// schema_merger.py never restores this symmetry once a merge shuffles names.
func syncSubtypes(types []*typemodel.Type) {
	for _, ty := range types {
		for s := range ty.Subtypes {
			delete(ty.Subtypes, s)
		}
	}
	registry := registryOf(types)
	for _, ty := range types {
		for supName := range ty.Supertypes {
			if sup, ok := registry[supName]; ok {
				sup.Subtypes[ty.Name] = struct{}{}
			}
		}
	}
}
