package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderritik/pgschema/internal/config"
	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/alexanderritik/pgschema/internal/typemodel"
	"github.com/stretchr/testify/require"
)

func TestAssembleSchemaOrdersAndRenders(t *testing.T) {
	person := typemodel.New(0, typemodel.NodeEntity, []string{"n1"})
	person.Name = "NodeType0"
	person.Labels["Person"] = struct{}{}

	cfg := &config.Config{GraphTypeName: "G", GraphTypeMode: config.Loose}
	schema := assembleSchema(cfg, []*typemodel.Type{person}, nil)

	require.Equal(t, "G", schema.Name)
	require.Equal(t, config.Loose, schema.Mode)
	require.Contains(t, schema.NodeTypes, "NodeType0")
	require.Contains(t, schema.Order, "NodeType0")
}

func TestDumpModelSortsByID(t *testing.T) {
	m := graphmodel.New()
	m.AddNode(graphmodel.NewNode("n2", []string{"Person"}, map[string]any{"name": "B"}))
	m.AddNode(graphmodel.NewNode("n1", []string{"Person"}, map[string]any{"name": "A"}))

	dumped := dumpModel(m)
	require.Len(t, dumped.Nodes, 2)
	require.Equal(t, "n1", dumped.Nodes[0].ID)
	require.Equal(t, "n2", dumped.Nodes[1].ID)
}

func TestDumpMembersWritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	p := New(&config.Config{OutDir: dir})

	ty := typemodel.New(0, typemodel.NodeEntity, []string{"n1", "n2"})
	ty.Name = "NodeType0"

	require.NoError(t, p.dumpMembers([]*typemodel.Type{ty}, nil))

	data, err := os.ReadFile(filepath.Join(dir, "nodes_and_edges.json"))
	require.NoError(t, err)

	var dump memberDump
	require.NoError(t, json.Unmarshal(data, &dump))
	require.ElementsMatch(t, []string{"n1", "n2"}, dump.NodeTypes["NodeType0"])
}

func TestEmitWritesSchemaText(t *testing.T) {
	dir := t.TempDir()
	p := New(&config.Config{OutDir: dir, GraphTypeName: "G", GraphTypeMode: config.Loose})

	schema := assembleSchema(p.cfg, nil, nil)
	require.NoError(t, p.emit(schema))

	data, err := os.ReadFile(filepath.Join(dir, "schema.txt"))
	require.NoError(t, err)
	require.Contains(t, string(data), "G")
}
