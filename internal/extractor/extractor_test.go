package extractor

import (
	"testing"

	"github.com/alexanderritik/pgschema/internal/config"
	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/alexanderritik/pgschema/internal/typemodel"
	"github.com/stretchr/testify/require"
)

func baseCfg() *config.Config {
	return &config.Config{
		NodeTypeExtraction: config.LabelBased,
		EdgeTypeExtraction: config.LabelBased,
	}
}

// S1 — single label, single property.
func TestExtractNodeTypesSingleLabelSingleProperty(t *testing.T) {
	m := graphmodel.New()
	m.AddNode(graphmodel.NewNode("n1", []string{"Person"}, map[string]any{"name": "A"}))
	m.AddNode(graphmodel.NewNode("n2", []string{"Person"}, map[string]any{"name": "B"}))
	m.InferPropertyDatatypes()

	cfg := baseCfg()
	cfg.PropertyOutlierThreshold = 2

	types, err := New(cfg).ExtractNodeTypes(m)
	require.NoError(t, err)
	require.Len(t, types, 1)

	ty := types[0]
	require.Equal(t, map[string]struct{}{"Person": {}}, ty.Labels)
	require.Equal(t, map[string]graphmodel.Datatype{"name": graphmodel.String}, ty.Properties)
	require.Empty(t, ty.OptionalLabels)
	require.ElementsMatch(t, []string{"n1", "n2"}, memberList(ty))
}

// S2 — optional label via merge.
func TestExtractNodeTypesOptionalLabelViaMerge(t *testing.T) {
	m := graphmodel.New()
	m.AddNode(graphmodel.NewNode("n1", []string{"Person"}, nil))
	m.AddNode(graphmodel.NewNode("n2", []string{"Person", "Customer"}, nil))
	m.AddNode(graphmodel.NewNode("n3", []string{"Person", "Customer"}, nil))
	m.InferPropertyDatatypes()

	cfg := baseCfg()
	cfg.OptionalLabels = true
	cfg.MergeThreshold = 0.3

	types, err := New(cfg).ExtractNodeTypes(m)
	require.NoError(t, err)
	require.Len(t, types, 1)

	ty := types[0]
	require.Equal(t, map[string]struct{}{"Person": {}}, ty.Labels)
	require.Equal(t, map[string]struct{}{"Customer": {}}, ty.OptionalLabels)
	require.ElementsMatch(t, []string{"n1", "n2", "n3"}, memberList(ty))
}

// S4 — edge endpoints with an outlier dropped below threshold.
func TestExtractEdgeTypesEndpointOutlierDropped(t *testing.T) {
	m := graphmodel.New()
	for i := 0; i < 9; i++ {
		m.AddEdge(graphmodel.NewEdge(edgeID(i), "p1", "q1", []string{"E"}, nil))
	}
	m.AddEdge(graphmodel.NewEdge("e-outlier", "r1", "q1", []string{"E"}, nil))
	m.InferPropertyDatatypes()

	pType := typemodel.New(0, typemodel.NodeEntity, []string{"p1"})
	pType.Name = "P"
	qType := typemodel.New(1, typemodel.NodeEntity, []string{"q1"})
	qType.Name = "Q"
	rType := typemodel.New(2, typemodel.NodeEntity, []string{"r1"})
	rType.Name = "R"

	cfg := baseCfg()
	cfg.EndpointOutlierThreshold = 5

	types, err := New(cfg).ExtractEdgeTypes(m, []*typemodel.Type{pType, qType, rType})
	require.NoError(t, err)
	require.Len(t, types, 1)

	et := types[0]
	require.Equal(t, map[string]struct{}{"P": {}}, et.StartNodeTypes)
	require.Equal(t, map[string]struct{}{"Q": {}}, et.EndNodeTypes)
}

func memberList(ty *typemodel.Type) []string {
	out := make([]string, 0, len(ty.Members))
	for m := range ty.Members {
		out = append(out, m)
	}
	return out
}

func edgeID(i int) string {
	return "e" + string(rune('0'+i))
}
