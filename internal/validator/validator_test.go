package validator

import (
	"testing"

	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/alexanderritik/pgschema/internal/typemodel"
	"github.com/stretchr/testify/require"
)

func personType() *typemodel.Type {
	ty := typemodel.New(0, typemodel.NodeEntity, []string{"n1"})
	ty.Name = "NodeType0"
	ty.Labels["Person"] = struct{}{}
	ty.Properties["age"] = graphmodel.Integer
	return ty
}

// S6 — validator datatype mismatch.
func TestValidateDatatypeMismatchMarksNodeInvalid(t *testing.T) {
	m := graphmodel.New()
	m.AddNode(graphmodel.NewNode("n1", []string{"Person"}, map[string]any{"age": "27"}))
	m.NodePropertyDatatypes = map[string]graphmodel.Datatype{"age": graphmodel.Integer}

	report := Validate(m, []*typemodel.Type{personType()}, nil)

	require.False(t, report.Valid())
	require.Len(t, report.InvalidNodes, 1)
	require.Equal(t, "n1", report.InvalidNodes[0].NodeID)
}

func TestValidateConformingNodeIsValid(t *testing.T) {
	m := graphmodel.New()
	m.AddNode(graphmodel.NewNode("n1", []string{"Person"}, map[string]any{"age": 27}))
	m.NodePropertyDatatypes = map[string]graphmodel.Datatype{"age": graphmodel.Integer}

	report := Validate(m, []*typemodel.Type{personType()}, nil)

	require.True(t, report.Valid())
}

func TestValidateExtraLabelRejectedUnlessOpen(t *testing.T) {
	m := graphmodel.New()
	m.AddNode(graphmodel.NewNode("n1", []string{"Person", "Customer"}, map[string]any{"age": 27}))
	m.NodePropertyDatatypes = map[string]graphmodel.Datatype{"age": graphmodel.Integer}

	closed := personType()
	report := Validate(m, []*typemodel.Type{closed}, nil)
	require.False(t, report.Valid())

	open := personType()
	open.OpenLabels = true
	report = Validate(m, []*typemodel.Type{open}, nil)
	require.True(t, report.Valid())
}

func TestValidateEdgeEndpointConformity(t *testing.T) {
	m := graphmodel.New()
	m.AddNode(graphmodel.NewNode("p1", []string{"Person"}, nil))
	m.AddNode(graphmodel.NewNode("q1", []string{"Company"}, nil))
	m.AddEdge(graphmodel.NewEdge("e1", "p1", "q1", []string{"WorksAt"}, nil))

	pType := typemodel.New(0, typemodel.NodeEntity, []string{"p1"})
	pType.Name = "P"
	pType.Labels["Person"] = struct{}{}
	qType := typemodel.New(1, typemodel.NodeEntity, []string{"q1"})
	qType.Name = "Q"
	qType.Labels["Company"] = struct{}{}

	et := typemodel.New(0, typemodel.EdgeEntity, []string{"e1"})
	et.Name = "WorksAtType"
	et.Labels["WorksAt"] = struct{}{}
	et.StartNodeTypes["P"] = struct{}{}
	et.EndNodeTypes["Q"] = struct{}{}

	report := Validate(m, []*typemodel.Type{pType, qType}, []*typemodel.Type{et})
	require.True(t, report.Valid())

	etWrongEnd := typemodel.New(0, typemodel.EdgeEntity, []string{"e1"})
	etWrongEnd.Name = "WorksAtType"
	etWrongEnd.Labels["WorksAt"] = struct{}{}
	etWrongEnd.StartNodeTypes["Q"] = struct{}{}
	etWrongEnd.EndNodeTypes["P"] = struct{}{}

	report = Validate(m, []*typemodel.Type{pType, qType}, []*typemodel.Type{etWrongEnd})
	require.False(t, report.Valid())
	require.Len(t, report.InvalidEdges, 1)
}
