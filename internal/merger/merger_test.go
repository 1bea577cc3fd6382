package merger

import (
	"testing"

	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/alexanderritik/pgschema/internal/typemodel"
	"github.com/stretchr/testify/require"
)

func nodeType(conceptID int, name string, labels ...string) *typemodel.Type {
	ty := typemodel.New(conceptID, typemodel.NodeEntity, nil)
	ty.Name = name
	for _, l := range labels {
		ty.Labels[l] = struct{}{}
	}
	return ty
}

// Two near-identical single-label node types should merge into one, with
// type_mapping pointing both original names at the survivor.
func TestMergeMatchesSimilarTypes(t *testing.T) {
	original := nodeType(0, "NodeType0", "Person")
	original.Properties["name"] = graphmodel.String

	newType := nodeType(0, "NodeType0", "Person")
	newType.Properties["email"] = graphmodel.String

	result := Merge([]*typemodel.Type{original}, nil, []*typemodel.Type{newType}, nil, 0.1)

	require.Len(t, result.NodeTypes, 1)
	merged := result.NodeTypes[0]
	require.Contains(t, merged.Labels, "Person")
	require.Contains(t, merged.OptionalProperties, "name")
	require.Contains(t, merged.OptionalProperties, "email")
	require.Equal(t, merged.Name, result.TypeMapping["NodeType0"])
}

// A new type with no plausible original match passes through renamed with
// the "_new" suffix.
func TestMergeUnmatchedNewTypeGetsNewSuffix(t *testing.T) {
	original := nodeType(0, "NodeType0", "Person")
	newType := nodeType(1, "NodeType1", "Company")

	result := Merge([]*typemodel.Type{original}, nil, []*typemodel.Type{newType}, nil, 0.9)

	require.Len(t, result.NodeTypes, 2)
	require.Equal(t, "NodeType1_new", result.TypeMapping["NodeType1"])
}

// An abstract original type always passes through unmatched.
func TestMergeAbstractOriginalPassesThrough(t *testing.T) {
	abstract := nodeType(0, "AbstractNodeTypeX", "X")
	abstract.IsAbstract = true

	newType := nodeType(0, "NodeType0", "X")

	result := Merge([]*typemodel.Type{abstract}, nil, []*typemodel.Type{newType}, nil, 0.1)

	require.Len(t, result.NodeTypes, 2)
	require.Equal(t, "AbstractNodeTypeX", result.TypeMapping["AbstractNodeTypeX"])
}

// A subtype that truly loses a mandatory label inherited from its claimed
// supertype has that supertype edge dropped during consistency repair.
func TestCheckAndUpdateSupertypeRelationsDropsInvalidEdge(t *testing.T) {
	sup := nodeType(0, "NodeType0", "Entity")
	sub := nodeType(1, "NodeType1", "Person")
	sub.Supertypes["NodeType0"] = struct{}{}

	types := []*typemodel.Type{sup, sub}
	checkAndUpdateSupertypeRelations(types, types)

	require.NotContains(t, sub.Supertypes, "NodeType0")
}

// Feature-subset pairs not already declared as supertypes are still
// inferred, in both directions, and subtype sets stay symmetric.
func TestCheckAndUpdateSupertypeRelationsInfersNewEdge(t *testing.T) {
	sup := nodeType(0, "NodeType0", "Entity")
	sub := nodeType(1, "NodeType1", "Entity", "Person")

	types := []*typemodel.Type{sup, sub}
	checkAndUpdateSupertypeRelations(types, types)

	require.Contains(t, sub.Supertypes, "NodeType0")
	require.Contains(t, sup.Subtypes, "NodeType1")
}
