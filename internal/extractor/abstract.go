package extractor

import "github.com/alexanderritik/pgschema/internal/typemodel"

// synthesizeAbstractTypes runs the NODE-only abstract-type synthesis pass
// of spec.md §4.3.5: every non-ancestor pair whose weighted Jaccard meets
// threshold contributes a synthesized supertype carrying their shared
// features, which are then subtracted from both originals. Grounded on
// original_source/src/schema_inference/type_extractor.py:_find_and_create_abstract_types.
func synthesizeAbstractTypes(types []*typemodel.Type, threshold float64) []*typemodel.Type {
	registry := registryOf(types)
	ancestors := make(map[string]map[string]struct{}, len(types))
	for _, ty := range types {
		ancestors[ty.Name] = ty.AllSupertypes(registry)
	}

	var created []*typemodel.Type
	for i := 0; i < len(types); i++ {
		for j := i + 1; j < len(types); j++ {
			a, b := types[i], types[j]
			if _, isAncestor := ancestors[a.Name][b.Name]; isAncestor {
				continue
			}
			if _, isAncestor := ancestors[b.Name][a.Name]; isAncestor {
				continue
			}
			sim := typemodel.JaccardSimilarity(a, b)
			if sim < threshold {
				continue
			}
			created = append(created, createAbstractType(a, b))
		}
	}
	return append(types, created...)
}

func createAbstractType(a, b *typemodel.Type) *typemodel.Type {
	abstract := typemodel.New(0, a.Entity, nil)
	abstract.IsAbstract = true

	sharedLabels := intersectStrings(a.Labels, b.Labels)
	sharedOptLabels := intersectStrings(a.OptionalLabels, b.OptionalLabels)
	sharedProps := intersectDatatypes(a.Properties, b.Properties)
	sharedOptProps := intersectDatatypes(a.OptionalProperties, b.OptionalProperties)

	for l := range sharedLabels {
		abstract.Labels[l] = struct{}{}
	}
	for l := range sharedOptLabels {
		abstract.OptionalLabels[l] = struct{}{}
	}
	for k, dt := range sharedProps {
		abstract.Properties[k] = dt
	}
	for k, dt := range sharedOptProps {
		abstract.OptionalProperties[k] = dt
	}

	abstract.Subtypes[a.Name] = struct{}{}
	abstract.Subtypes[b.Name] = struct{}{}
	abstract.GenerateName([]string{a.Name, b.Name})

	a.Supertypes[abstract.Name] = struct{}{}
	b.Supertypes[abstract.Name] = struct{}{}

	subtractLabelSet(a.Labels, sharedLabels)
	subtractLabelSet(b.Labels, sharedLabels)
	subtractLabelSet(a.OptionalLabels, sharedOptLabels)
	subtractLabelSet(b.OptionalLabels, sharedOptLabels)
	subtractPropSet(a.Properties, sharedProps)
	subtractPropSet(b.Properties, sharedProps)
	subtractPropSet(a.OptionalProperties, sharedOptProps)
	subtractPropSet(b.OptionalProperties, sharedOptProps)

	return abstract
}

func intersectStrings(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func intersectDatatypes[V comparable](a, b map[string]V) map[string]V {
	out := make(map[string]V)
	for k, v := range a {
		if bv, ok := b[k]; ok && bv == v {
			out[k] = v
		}
	}
	return out
}

func subtractLabelSet(dst, remove map[string]struct{}) {
	for k := range remove {
		delete(dst, k)
	}
}

func subtractPropSet[V any](dst map[string]V, remove map[string]V) {
	for k := range remove {
		delete(dst, k)
	}
}
