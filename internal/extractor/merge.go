package extractor

import (
	"sort"

	"github.com/alexanderritik/pgschema/internal/typemodel"
)

// mergeBySimilarity repeatedly merges the globally most-similar
// (subtype, supertype) pair while similarity stays at or above threshold,
// per spec.md §4.3.3. Grounded on
// original_source/src/schema_inference/type_extractor.py:_merge_types.
func mergeBySimilarity(types []*typemodel.Type, threshold float64) []*typemodel.Type {
	for {
		sub, super, best := mostSimilarSubSuperPair(types)
		if sub == nil || best < threshold {
			return types
		}
		types = mergeSubIntoSuper(types, sub, super)
	}
}

// mostSimilarSubSuperPair scans every (type, declared supertype) edge and
// returns the pair with the strictly highest similarity (ties keep the
// first found, in the caller's type-list order, which is kept sorted by
// name for determinism).
func mostSimilarSubSuperPair(types []*typemodel.Type) (sub, super *typemodel.Type, best float64) {
	registry := registryOf(types)
	best = 0
	for _, ty := range types {
		supNames := make([]string, 0, len(ty.Supertypes))
		for supName := range ty.Supertypes {
			supNames = append(supNames, supName)
		}
		sort.Strings(supNames)
		for _, supName := range supNames {
			superTy, ok := registry[supName]
			if !ok {
				continue
			}
			sim := typemodel.JaccardSimilarity(ty, superTy)
			if sim > best {
				best = sim
				sub, super = ty, superTy
			}
		}
	}
	return sub, super, best
}

// mergeSubIntoSuper absorbs sub's data into super (super survives, mutated
// in place), drops sub from the list, and rewrites every remaining type's
// sub/supertype references from sub's name to super's name.
func mergeSubIntoSuper(types []*typemodel.Type, sub, super *typemodel.Type) []*typemodel.Type {
	super.MergeInto(sub)
	delete(super.Subtypes, sub.Name)
	delete(super.Subtypes, super.Name)

	out := make([]*typemodel.Type, 0, len(types)-1)
	for _, ty := range types {
		if ty == sub {
			continue
		}
		if _, ok := ty.Supertypes[sub.Name]; ok {
			delete(ty.Supertypes, sub.Name)
			if ty != super {
				ty.Supertypes[super.Name] = struct{}{}
			}
		}
		if _, ok := ty.Subtypes[sub.Name]; ok {
			delete(ty.Subtypes, sub.Name)
			if ty != super {
				ty.Subtypes[super.Name] = struct{}{}
			}
		}
		delete(ty.Supertypes, ty.Name)
		out = append(out, ty)
	}
	return out
}

// capMerge reduces the type list to at most cap entries, per spec.md
// §4.3.4: phase A merges a subtype-free leaf into its most similar
// supertype while any leaf still has one; phase B cross-merges the
// globally most similar pair and severs both merge directions entirely.
func capMerge(types []*typemodel.Type, maxCount int) []*typemodel.Type {
	for len(types) > maxCount {
		leaves := leavesWithoutSubtypes(types)
		anyHasSupertype := false
		for _, l := range leaves {
			if len(l.Supertypes) > 0 {
				anyHasSupertype = true
				break
			}
		}

		if len(leaves) > 0 && anyHasSupertype {
			registry := registryOf(types)
			var toMerge, bestSuper *typemodel.Type
			best := -1.0
			for i := len(leaves) - 1; i >= 0; i-- {
				leaf := leaves[i]
				sup := mostSimilarSupertype(leaf, registry)
				if sup == nil {
					continue
				}
				sim := typemodel.JaccardSimilarity(leaf, sup)
				if sim > best {
					best, toMerge, bestSuper = sim, leaf, sup
				}
			}
			if toMerge != nil {
				types = mergeSubIntoSuper(types, toMerge, bestSuper)
				continue
			}
		}

		t1, t2 := mostSimilarPair(types)
		if t1 == nil {
			return types
		}
		t2.MergeInto(t1)
		t2.Supertypes = map[string]struct{}{}
		t2.Subtypes = map[string]struct{}{}
		types = removeAndRewire(types, t1, t2)
		for _, ty := range types {
			delete(ty.Supertypes, t2.Name)
			delete(ty.Subtypes, t2.Name)
		}
	}
	return types
}

func leavesWithoutSubtypes(types []*typemodel.Type) []*typemodel.Type {
	var out []*typemodel.Type
	for _, ty := range types {
		if len(ty.Subtypes) == 0 {
			out = append(out, ty)
		}
	}
	return out
}

func mostSimilarSupertype(ty *typemodel.Type, registry map[string]*typemodel.Type) *typemodel.Type {
	best := -1.0
	var bestSuper *typemodel.Type
	for supName := range ty.Supertypes {
		sup, ok := registry[supName]
		if !ok {
			continue
		}
		sim := typemodel.JaccardSimilarity(ty, sup)
		if sim > best {
			best, bestSuper = sim, sup
		}
	}
	return bestSuper
}

func mostSimilarPair(types []*typemodel.Type) (a, b *typemodel.Type) {
	best := -1.0
	for i := 0; i < len(types); i++ {
		for j := i + 1; j < len(types); j++ {
			sim := typemodel.JaccardSimilarity(types[i], types[j])
			if sim > best {
				best, a, b = sim, types[i], types[j]
			}
		}
	}
	return a, b
}

// removeAndRewire drops `removed` from the list and rewrites every
// remaining type's sub/supertype references from removed's name to
// survivor's name, preserving the symmetric-reference invariant (spec.md
// §8 item 2) that the original cross-merge step left unaddressed.
func removeAndRewire(types []*typemodel.Type, removed, survivor *typemodel.Type) []*typemodel.Type {
	out := make([]*typemodel.Type, 0, len(types)-1)
	for _, ty := range types {
		if ty == removed {
			continue
		}
		if _, ok := ty.Supertypes[removed.Name]; ok {
			delete(ty.Supertypes, removed.Name)
			if ty != survivor {
				ty.Supertypes[survivor.Name] = struct{}{}
			}
		}
		if _, ok := ty.Subtypes[removed.Name]; ok {
			delete(ty.Subtypes, removed.Name)
			if ty != survivor {
				ty.Subtypes[survivor.Name] = struct{}{}
			}
		}
		delete(ty.Supertypes, ty.Name)
		delete(ty.Subtypes, ty.Name)
		out = append(out, ty)
	}
	return out
}
