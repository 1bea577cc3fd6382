package extractor

import "github.com/alexanderritik/pgschema/internal/typemodel"

// removeInheritedFeatures subtracts every transitive supertype's features
// from each type, per spec.md §4.3.7.
func removeInheritedFeatures(types []*typemodel.Type) {
	registry := registryOf(types)
	for _, ty := range types {
		ty.RemoveInheritedFeatures(registry)
	}
}
