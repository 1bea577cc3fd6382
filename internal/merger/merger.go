// Package merger combines two previously inferred schemas into one, per
// spec.md §4.6. Grounded on
// original_source/src/schema_merger/schema_merger.py.
package merger

import (
	"sort"

	"github.com/alexanderritik/pgschema/internal/typemodel"
)

// Result is the output of a schema merge: the combined node and edge types,
// plus the name mapping every original/new type name was rewritten through.
type Result struct {
	NodeTypes   []*typemodel.Type
	EdgeTypes   []*typemodel.Type
	TypeMapping map[string]string
}

// Merge combines originalNodes/originalEdges with newNodes/newEdges; a
// pairwise match needs a Jaccard similarity strictly above threshold (spec.md
// §4.6 step 2). The input slices are consumed; callers should not reuse them
// afterward.
func Merge(originalNodes, originalEdges, newNodes, newEdges []*typemodel.Type, threshold float64) *Result {
	propagateSupertypeFeatures(newNodes, newEdges)

	mapping := make(map[string]string)
	mergedNodes := mergeTypes(originalNodes, newNodes, threshold, mapping)
	mergedEdges := mergeTypes(originalEdges, newEdges, threshold, mapping)

	updateRelations(mergedNodes, mapping)
	updateRelations(mergedEdges, mapping)

	checkAndUpdateSupertypeRelations(mergedNodes, mergedNodes)
	checkAndUpdateSupertypeRelations(mergedEdges, mergedNodes)

	removeInheritedFeatures(mergedNodes)
	removeInheritedFeatures(mergedEdges)

	sortTypes(mergedNodes)
	sortTypes(mergedEdges)

	return &Result{NodeTypes: mergedNodes, EdgeTypes: mergedEdges, TypeMapping: mapping}
}

// propagateSupertypeFeatures unions every transitive supertype's features
// into each new-schema type (spec.md §4.6 step 1), then expands edge
// endpoint sets to include the transitive subtypes of whatever node types
// they already name.
func propagateSupertypeFeatures(nodeTypes, edgeTypes []*typemodel.Type) {
	all := make([]*typemodel.Type, 0, len(nodeTypes)+len(edgeTypes))
	all = append(all, nodeTypes...)
	all = append(all, edgeTypes...)
	registry := registryOf(all)

	for _, ty := range all {
		for supName := range ty.AllSupertypes(registry) {
			sup, ok := registry[supName]
			if !ok {
				continue
			}
			for l := range sup.Labels {
				ty.Labels[l] = struct{}{}
			}
			for l := range sup.OptionalLabels {
				ty.OptionalLabels[l] = struct{}{}
			}
			for k, dt := range sup.Properties {
				if _, exists := ty.Properties[k]; !exists {
					ty.Properties[k] = dt
				}
			}
			for k, dt := range sup.OptionalProperties {
				if _, exists := ty.OptionalProperties[k]; !exists {
					ty.OptionalProperties[k] = dt
				}
			}
			if ty.Entity == typemodel.EdgeEntity {
				for n := range sup.StartNodeTypes {
					ty.StartNodeTypes[n] = struct{}{}
				}
				for n := range sup.EndNodeTypes {
					ty.EndNodeTypes[n] = struct{}{}
				}
			}
		}
	}

	nodeRegistry := registryOf(nodeTypes)
	for _, edge := range edgeTypes {
		for n := range copyKeys(edge.StartNodeTypes) {
			node, ok := nodeRegistry[n]
			if !ok {
				continue
			}
			for sub := range node.AllSubtypes(nodeRegistry) {
				edge.StartNodeTypes[sub] = struct{}{}
			}
		}
		for n := range copyKeys(edge.EndNodeTypes) {
			node, ok := nodeRegistry[n]
			if !ok {
				continue
			}
			for sub := range node.AllSubtypes(nodeRegistry) {
				edge.EndNodeTypes[sub] = struct{}{}
			}
		}
	}
}

// mergeTypes implements spec.md §4.6 step 2: for each non-abstract original
// type, find the best-matching non-abstract new type and merge them;
// unmatched originals pass through, unmatched new types are renamed with a
// "_new" suffix.
func mergeTypes(originalTypes, newTypes []*typemodel.Type, threshold float64, mapping map[string]string) []*typemodel.Type {
	remaining := make([]*typemodel.Type, len(newTypes))
	copy(remaining, newTypes)

	var merged []*typemodel.Type
	for _, o := range originalTypes {
		if o.IsAbstract {
			merged = append(merged, o)
			mapping[o.Name] = o.Name
			continue
		}

		var best *typemodel.Type
		bestSimilarity := 0.0
		bestIdx := -1
		for i, n := range remaining {
			if n.IsAbstract {
				continue
			}
			sim := typemodel.JaccardSimilarity(o, n)
			if sim > threshold && sim > bestSimilarity {
				best = n
				bestSimilarity = sim
				bestIdx = i
			}
		}

		if best != nil {
			o.MergeInto(best)
			merged = append(merged, o)
			mapping[o.Name] = o.Name
			mapping[best.Name] = o.Name
			remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		} else {
			merged = append(merged, o)
			mapping[o.Name] = o.Name
		}
	}

	for _, n := range remaining {
		newName := n.Name + "_new"
		mapping[n.Name] = newName
		n.Name = newName
		merged = append(merged, n)
	}

	return merged
}

// updateRelations rewrites every type's supertype/endpoint references
// through mapping (spec.md §4.6 step 3).
func updateRelations(types []*typemodel.Type, mapping map[string]string) {
	for _, ty := range types {
		ty.Supertypes = rewriteSet(ty.Supertypes, mapping)
		if ty.Entity == typemodel.EdgeEntity {
			ty.StartNodeTypes = rewriteSet(ty.StartNodeTypes, mapping)
			ty.EndNodeTypes = rewriteSet(ty.EndNodeTypes, mapping)
		}
	}
}

func rewriteSet(set map[string]struct{}, mapping map[string]string) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for name := range set {
		if mapped, ok := mapping[name]; ok {
			out[mapped] = struct{}{}
		} else {
			out[name] = struct{}{}
		}
	}
	return out
}

func removeInheritedFeatures(types []*typemodel.Type) {
	registry := registryOf(types)
	for _, ty := range types {
		ty.RemoveInheritedFeatures(registry)
	}
}

func registryOf(types []*typemodel.Type) map[string]*typemodel.Type {
	reg := make(map[string]*typemodel.Type, len(types))
	for _, ty := range types {
		reg[ty.Name] = ty
	}
	return reg
}

func copyKeys(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for k := range set {
		out[k] = struct{}{}
	}
	return out
}

func sortTypes(types []*typemodel.Type) {
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
}
