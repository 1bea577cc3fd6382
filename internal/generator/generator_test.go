package generator

import (
	"testing"

	"github.com/alexanderritik/pgschema/internal/config"
	"github.com/alexanderritik/pgschema/internal/schemalang"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		GraphGeneratorMinEntities: 2,
		GraphGeneratorMaxEntities: 4,
	}
}

func TestGenerateFillsMandatoryFeatures(t *testing.T) {
	schema, err := schemalang.Parse(`CREATE GRAPH TYPE G { (Person : Person {name STRING, OPTIONAL age INTEGER}) }`)
	require.NoError(t, err)

	model, err := Generate(schema, testConfig())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(model.Nodes), 2)
	require.LessOrEqual(t, len(model.Nodes), 4)

	for _, n := range model.Nodes {
		require.Contains(t, n.Labels, "Person")
		require.Contains(t, n.Properties, "name")
	}
}

func TestGenerateEdgeUsesPermittedEndpoints(t *testing.T) {
	schema, err := schemalang.Parse(`CREATE GRAPH TYPE G {
		(P : P {}),
		(Q : Q {}),
		(:P) - [Rel : Rel {}] -> (:Q)
	}`)
	require.NoError(t, err)

	model, err := Generate(schema, testConfig())
	require.NoError(t, err)
	require.NotEmpty(t, model.Edges)

	pIDs := make(map[string]struct{})
	qIDs := make(map[string]struct{})
	for id, n := range model.Nodes {
		if _, ok := n.Labels["P"]; ok {
			pIDs[id] = struct{}{}
		}
		if _, ok := n.Labels["Q"]; ok {
			qIDs[id] = struct{}{}
		}
	}
	for _, e := range model.Edges {
		_, startOK := pIDs[e.StartNodeID]
		_, endOK := qIDs[e.EndNodeID]
		require.True(t, startOK)
		require.True(t, endOK)
	}
}

func TestGenerateFailsOnUnsatisfiableEndpoint(t *testing.T) {
	schema, err := schemalang.Parse(`CREATE GRAPH TYPE G {
		(P : P {}),
		(:Ghost) - [Rel : Rel {}] -> (:Ghost)
	}`)
	require.NoError(t, err)

	_, err = Generate(schema, testConfig())
	require.Error(t, err)
}
