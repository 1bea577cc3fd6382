package typemodel

import (
	"testing"

	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/stretchr/testify/require"
)

func TestGenerateNameConcrete(t *testing.T) {
	ty := New(3, NodeEntity, []string{"n1"})
	ty.GenerateName(nil)
	require.Equal(t, "NodeType3", ty.Name)
}

func TestGenerateNameAbstract(t *testing.T) {
	ty := New(0, NodeEntity, nil)
	ty.IsAbstract = true
	ty.GenerateName([]string{"NodeType2", "NodeType1"})
	require.Equal(t, "AbstractNodeTypeNodeType1+NodeType2", ty.Name)
}

func TestJaccardSimilarityIdenticalIsOne(t *testing.T) {
	a := New(0, NodeEntity, nil)
	a.Labels["Person"] = struct{}{}
	a.Properties["name"] = graphmodel.String

	b := New(1, NodeEntity, nil)
	b.Labels["Person"] = struct{}{}
	b.Properties["name"] = graphmodel.String

	require.InDelta(t, 1.0, JaccardSimilarity(a, b), 1e-9)
}

func TestJaccardSimilarityDisjointIsZero(t *testing.T) {
	a := New(0, NodeEntity, nil)
	a.Labels["Person"] = struct{}{}

	b := New(1, NodeEntity, nil)
	b.Labels["Company"] = struct{}{}

	require.Equal(t, 0.0, JaccardSimilarity(a, b))
}

func TestMergeIntoKeepsSharedMandatory(t *testing.T) {
	a := New(0, NodeEntity, []string{"n1"})
	a.Labels["Person"] = struct{}{}
	a.Labels["Customer"] = struct{}{}

	b := New(1, NodeEntity, []string{"n2"})
	b.Labels["Person"] = struct{}{}
	b.Labels["Employee"] = struct{}{}

	a.MergeInto(b)

	_, hasPerson := a.Labels["Person"]
	require.True(t, hasPerson)
	_, customerOptional := a.OptionalLabels["Customer"]
	require.True(t, customerOptional)
	_, employeeOptional := a.OptionalLabels["Employee"]
	require.True(t, employeeOptional)
	require.Contains(t, a.Members, "n2")
}

func TestRemoveInheritedFeatures(t *testing.T) {
	registry := make(map[string]*Type)

	sup := New(0, NodeEntity, nil)
	sup.Name = "NodeType0"
	sup.Labels["Entity"] = struct{}{}
	registry[sup.Name] = sup

	sub := New(1, NodeEntity, nil)
	sub.Name = "NodeType1"
	sub.Labels["Entity"] = struct{}{}
	sub.Labels["Person"] = struct{}{}
	sub.Supertypes["NodeType0"] = struct{}{}
	registry[sub.Name] = sub

	sub.RemoveInheritedFeatures(registry)

	_, hasEntity := sub.Labels["Entity"]
	require.False(t, hasEntity)
	_, hasPerson := sub.Labels["Person"]
	require.True(t, hasPerson)
}

func TestToSchemaNodeType(t *testing.T) {
	ty := New(0, NodeEntity, nil)
	ty.Name = "NodeType0"
	ty.Labels["Person"] = struct{}{}
	ty.Properties["name"] = graphmodel.String

	require.Equal(t, "(NodeType0 : Person {name STRING})", ty.ToSchema())
}

func TestToSchemaEdgeType(t *testing.T) {
	ty := New(0, EdgeEntity, nil)
	ty.Name = "EdgeType0"
	ty.StartNodeTypes["NodeType0"] = struct{}{}
	ty.EndNodeTypes["NodeType1"] = struct{}{}

	require.Equal(t, "(:NodeType0) - [EdgeType0 :  {}] -> (:NodeType1)", ty.ToSchema())
}

func TestToSchemaEmptyPropertiesBraces(t *testing.T) {
	ty := New(0, NodeEntity, nil)
	ty.Name = "NodeType0"
	ty.Labels["Person"] = struct{}{}

	require.Equal(t, "(NodeType0 : Person {})", ty.ToSchema())
}
