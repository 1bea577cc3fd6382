package schemalang

import (
	"testing"

	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/stretchr/testify/require"
)

// S5 — schema parse -> emit round-trip.
func TestParseEmitRoundTrip(t *testing.T) {
	text := "CREATE GRAPH TYPE G { (A : L1 & L2? {k1 INTEGER, OPTIONAL k2 STRING}) }"

	first, err := Parse(text)
	require.NoError(t, err)

	emitted := Emit(first)

	second, err := Parse(emitted)
	require.NoError(t, err)

	a1 := first.NodeTypes["A"]
	a2 := second.NodeTypes["A"]
	require.NotNil(t, a1)
	require.NotNil(t, a2)

	require.Equal(t, a1.Labels, a2.Labels)
	require.Equal(t, a1.OptionalLabels, a2.OptionalLabels)
	require.Equal(t, a1.Properties, a2.Properties)
	require.Equal(t, a1.OptionalProperties, a2.OptionalProperties)
}

func TestParseNodeTypeBasics(t *testing.T) {
	text := "CREATE GRAPH TYPE G STRICT { (Person : Name {name STRING, OPTIONAL age INTEGER}) }"

	schema, err := Parse(text)
	require.NoError(t, err)
	require.Equal(t, "G", schema.Name)

	ty := schema.NodeTypes["Person"]
	require.NotNil(t, ty)
	require.Equal(t, map[string]struct{}{"Name": {}}, ty.Labels)
	require.Equal(t, graphmodel.String, ty.Properties["name"])
	require.Equal(t, graphmodel.Integer, ty.OptionalProperties["age"])
}

func TestParseSupertypeOrderDependent(t *testing.T) {
	// Animal is defined before Dog, so "Animal" in Dog's inherit list
	// resolves to a supertype reference rather than a mandatory label.
	text := "CREATE GRAPH TYPE G { (Animal : Creature {}), (Dog : Animal {legs INTEGER}) }"

	schema, err := Parse(text)
	require.NoError(t, err)

	dog := schema.NodeTypes["Dog"]
	require.NotNil(t, dog)
	require.Contains(t, dog.Supertypes, "Animal")
	require.NotContains(t, dog.Labels, "Animal")

	// Inheritance resolution pulls Animal's own labels onto Dog.
	require.Contains(t, dog.Labels, "Creature")
}

func TestParseEdgeTypeEndpointsAndProperties(t *testing.T) {
	text := "CREATE GRAPH TYPE G { " +
		"(Person : Person {}), (Company : Company {}), " +
		"(:Person) - [WorksAt : Employment {since INTEGER}] -> (:Company) }"

	schema, err := Parse(text)
	require.NoError(t, err)

	et := schema.EdgeTypes["WorksAt"]
	require.NotNil(t, et)
	require.Equal(t, map[string]struct{}{"Person": {}}, et.StartNodeTypes)
	require.Equal(t, map[string]struct{}{"Company": {}}, et.EndNodeTypes)
	require.Equal(t, graphmodel.Integer, et.Properties["since"])
}

func TestParseOpenLabelsAndProperties(t *testing.T) {
	text := "CREATE GRAPH TYPE G { (Thing : Label OPEN {k STRING, OPEN}) }"

	schema, err := Parse(text)
	require.NoError(t, err)

	ty := schema.NodeTypes["Thing"]
	require.NotNil(t, ty)
	require.True(t, ty.OpenLabels)
	require.True(t, ty.OpenProperties)
}

func TestParseInvalidDefinitionErrors(t *testing.T) {
	text := "CREATE GRAPH TYPE G { not a valid def }"

	_, err := Parse(text)
	require.Error(t, err)
}

func TestParseMissingHeaderErrors(t *testing.T) {
	_, err := Parse("NOT A SCHEMA")
	require.Error(t, err)
}
