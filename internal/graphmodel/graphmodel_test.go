package graphmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddNodeAndLookup(t *testing.T) {
	m := New()
	m.AddNode(NewNode("n1", []string{"Person"}, map[string]any{"name": "A"}))

	n, ok := m.GetNode("n1")
	require.True(t, ok)
	require.Equal(t, []string{"Person"}, n.LabelList())
}

func TestAllNodeLabelsUnion(t *testing.T) {
	m := New()
	m.AddNode(NewNode("n1", []string{"Person"}, nil))
	m.AddNode(NewNode("n2", []string{"Person", "Customer"}, nil))

	require.Equal(t, []string{"Customer", "Person"}, m.AllNodeLabels())
}

func TestInferPropertyDatatypesDominant(t *testing.T) {
	m := New()
	m.AddNode(NewNode("n1", nil, map[string]any{"age": 27}))
	m.AddNode(NewNode("n2", nil, map[string]any{"age": 30}))
	m.AddNode(NewNode("n3", nil, map[string]any{"age": "old"}))

	m.InferPropertyDatatypes()

	require.Equal(t, Integer, m.NodePropertyDatatypes["age"])
}

func TestIsTopConceptRequired(t *testing.T) {
	m := New()
	m.AddNode(NewNode("n1", []string{"Person"}, nil))
	require.False(t, m.IsTopConceptRequired("label_based", "NODE"))

	m.AddNode(NewNode("n2", nil, nil))
	require.True(t, m.IsTopConceptRequired("label_based", "NODE"))
}
