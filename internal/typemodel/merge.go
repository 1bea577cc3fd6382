package typemodel

import "github.com/alexanderritik/pgschema/internal/graphmodel"

// MergeInto folds other into t: labels/properties shared by both stay
// mandatory, anything unique to either side becomes optional; subtypes are
// unioned and other's member elements are absorbed. Grounded on
// original_source/src/graph_type/type.py:merge_with_supertype and
// src/schema_merger/schema_merger.py:_merge_two_types, which follow the
// identical shared-stays-mandatory rule for both the extractor's
// merge-with-supertype step and the schema merger's cross-schema merge.
func (t *Type) MergeInto(other *Type) {
	mergeLabelsKeepCommonMandatory(t.Labels, t.OptionalLabels, other.Labels, other.OptionalLabels)
	mergePropsKeepCommonMandatory(t.Properties, t.OptionalProperties, other.Properties, other.OptionalProperties)

	t.OpenLabels = t.OpenLabels || other.OpenLabels
	t.OpenProperties = t.OpenProperties || other.OpenProperties

	for m := range other.Members {
		t.Members[m] = struct{}{}
	}
	for sub := range other.Subtypes {
		t.Subtypes[sub] = struct{}{}
	}
	for sup := range other.Supertypes {
		t.Supertypes[sup] = struct{}{}
	}
	if t.Entity == EdgeEntity {
		for n := range other.StartNodeTypes {
			t.StartNodeTypes[n] = struct{}{}
		}
		for n := range other.EndNodeTypes {
			t.EndNodeTypes[n] = struct{}{}
		}
	}
}

func mergeLabelsKeepCommonMandatory(aMandatory, aOptional, bMandatory, bOptional map[string]struct{}) {
	common := make(map[string]struct{})
	for l := range aMandatory {
		if _, ok := bMandatory[l]; ok {
			common[l] = struct{}{}
		}
	}
	union := make(map[string]struct{})
	for l := range aMandatory {
		union[l] = struct{}{}
	}
	for l := range bMandatory {
		union[l] = struct{}{}
	}
	for l := range aOptional {
		union[l] = struct{}{}
	}
	for l := range bOptional {
		union[l] = struct{}{}
	}

	for l := range aMandatory {
		delete(aMandatory, l)
	}
	for l := range aOptional {
		delete(aOptional, l)
	}
	for l := range union {
		if _, ok := common[l]; ok {
			aMandatory[l] = struct{}{}
		} else {
			aOptional[l] = struct{}{}
		}
	}
}

func mergePropsKeepCommonMandatory(aMandatory, aOptional, bMandatory, bOptional map[string]graphmodel.Datatype) {
	common := make(map[string]struct{})
	for p := range aMandatory {
		if _, ok := bMandatory[p]; ok {
			common[p] = struct{}{}
		}
	}
	union := make(map[string]graphmodel.Datatype)
	for p, dt := range aMandatory {
		union[p] = dt
	}
	for p, dt := range bMandatory {
		union[p] = dt
	}
	for p, dt := range aOptional {
		union[p] = dt
	}
	for p, dt := range bOptional {
		union[p] = dt
	}

	for p := range aMandatory {
		delete(aMandatory, p)
	}
	for p := range aOptional {
		delete(aOptional, p)
	}
	for p, dt := range union {
		if _, ok := common[p]; ok {
			aMandatory[p] = dt
		} else {
			aOptional[p] = dt
		}
	}
}
