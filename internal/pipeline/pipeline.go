// Package pipeline orchestrates one end-to-end schema inference run: acquire
// the instance graph, extract node/edge types, optionally merge with a prior
// schema, optionally validate the graph against the result, optionally
// generate a synthetic fixture graph, then emit the output files of spec.md
// §6.2. Grounded on the teacher's internal/engine package (same
// Adapter-plus-orchestration-struct shape), generalized from its
// connect/fetch/stats trio into the full inference sequence.
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/alexanderritik/pgschema/internal/adapters"
	"github.com/alexanderritik/pgschema/internal/config"
	"github.com/alexanderritik/pgschema/internal/extractor"
	"github.com/alexanderritik/pgschema/internal/generator"
	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/alexanderritik/pgschema/internal/log"
	"github.com/alexanderritik/pgschema/internal/merger"
	"github.com/alexanderritik/pgschema/internal/pgerr"
	"github.com/alexanderritik/pgschema/internal/schemalang"
	"github.com/alexanderritik/pgschema/internal/typemodel"
	"github.com/alexanderritik/pgschema/internal/validator"
)

// Pipeline runs a schema inference job under one configuration.
type Pipeline struct {
	cfg *config.Config
}

// New builds a Pipeline bound to cfg.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// Result is everything a pipeline run produced, returned for callers (tests,
// the CLI) that want the in-memory types without re-reading the output files.
type Result struct {
	NodeTypes        []*typemodel.Type
	EdgeTypes        []*typemodel.Type
	ValidationReport *validator.Report
	TypeMapping      map[string]string
}

// Run executes the full sequence of spec.md §4: acquire, extract, merge,
// validate, generate, emit.
func (p *Pipeline) Run() (*Result, error) {
	model, err := p.acquire()
	if err != nil {
		return nil, err
	}

	nodeTypes, edgeTypes, err := p.extract(model)
	if err != nil {
		return nil, err
	}

	var mapping map[string]string
	if p.cfg.MergeSchema {
		nodeTypes, edgeTypes, mapping, err = p.merge(nodeTypes, edgeTypes)
		if err != nil {
			return nil, err
		}
	}

	result := &Result{NodeTypes: nodeTypes, EdgeTypes: edgeTypes, TypeMapping: mapping}

	if p.cfg.ValidateGraph {
		report := p.validate(model, nodeTypes, edgeTypes)
		result.ValidationReport = report
		if !report.Valid() {
			if err := p.writeJSON("invalid_elements.json", report); err != nil {
				return nil, err
			}
		}
	}

	schema := assembleSchema(p.cfg, nodeTypes, edgeTypes)
	if p.cfg.GraphGenerator {
		if err := p.generate(schema); err != nil {
			return nil, err
		}
	}

	if err := p.emit(schema); err != nil {
		return nil, err
	}
	if err := p.dumpMembers(nodeTypes, edgeTypes); err != nil {
		return nil, err
	}

	return result, nil
}

// acquire connects the configured adapter and fetches the instance graph.
func (p *Pipeline) acquire() (*graphmodel.Model, error) {
	log.Info("pipeline: acquiring instance graph from %s", p.cfg.DataSource)
	adapter, err := adapters.NewAdapter(p.cfg.DataSource)
	if err != nil {
		return nil, pgerr.IO("pipeline.acquire", err)
	}
	if err := adapter.Connect(p.cfg.DataSource); err != nil {
		return nil, err
	}
	defer adapter.Close()

	model := graphmodel.New()
	if err := adapter.FetchGraph(model); err != nil {
		return nil, err
	}
	log.Info("pipeline: acquired %d nodes, %d edges", len(model.Nodes), len(model.Edges))
	return model, nil
}

// extract runs NODE then EDGE type extraction.
func (p *Pipeline) extract(model *graphmodel.Model) ([]*typemodel.Type, []*typemodel.Type, error) {
	x := extractor.New(p.cfg)

	log.Info("pipeline: extracting node types")
	nodeTypes, err := x.ExtractNodeTypes(model)
	if err != nil {
		return nil, nil, err
	}
	log.Info("pipeline: extracted %d node types", len(nodeTypes))

	log.Info("pipeline: extracting edge types")
	edgeTypes, err := x.ExtractEdgeTypes(model, nodeTypes)
	if err != nil {
		return nil, nil, err
	}
	log.Info("pipeline: extracted %d edge types", len(edgeTypes))

	return nodeTypes, edgeTypes, nil
}

// merge loads the prior schema named by schema_to_merge_path and combines it
// with the freshly extracted types.
func (p *Pipeline) merge(nodeTypes, edgeTypes []*typemodel.Type) ([]*typemodel.Type, []*typemodel.Type, map[string]string, error) {
	log.Info("pipeline: merging against %s", p.cfg.SchemaToMergePath)
	data, err := os.ReadFile(p.cfg.SchemaToMergePath)
	if err != nil {
		return nil, nil, nil, pgerr.IO("pipeline.merge: read prior schema", err)
	}
	prior, err := schemalang.Parse(string(data))
	if err != nil {
		return nil, nil, nil, err
	}

	originalNodes := typesOf(prior, typemodel.NodeEntity)
	originalEdges := typesOf(prior, typemodel.EdgeEntity)

	result := merger.Merge(originalNodes, originalEdges, nodeTypes, edgeTypes, p.cfg.SchemaMergeThreshold)

	if err := p.emitNamed("merged_schema.pgs", schemalang.Emit(assembleSchema(p.cfg, result.NodeTypes, result.EdgeTypes))); err != nil {
		return nil, nil, nil, err
	}

	return result.NodeTypes, result.EdgeTypes, result.TypeMapping, nil
}

func typesOf(schema *schemalang.Schema, entity typemodel.Entity) []*typemodel.Type {
	registry := schema.NodeTypes
	if entity == typemodel.EdgeEntity {
		registry = schema.EdgeTypes
	}
	out := make([]*typemodel.Type, 0, len(registry))
	for _, ty := range registry {
		out = append(out, ty)
	}
	return out
}

func (p *Pipeline) validate(model *graphmodel.Model, nodeTypes, edgeTypes []*typemodel.Type) *validator.Report {
	log.Info("pipeline: validating instance graph against inferred schema")
	r := validator.Validate(model, nodeTypes, edgeTypes)
	if !r.Valid() {
		log.Warn("pipeline: %d invalid nodes, %d invalid edges", len(r.InvalidNodes), len(r.InvalidEdges))
	} else {
		log.Info("pipeline: instance graph is valid against the schema")
	}
	return r
}

// generate builds a synthetic fixture graph from schema, or from the document
// at graph_generator_schema_path when that is set, and writes it as
// generated_graph.json alongside the other output files.
func (p *Pipeline) generate(schema *schemalang.Schema) error {
	log.Info("pipeline: generating synthetic graph")
	source := schema
	if p.cfg.GraphGeneratorSchemaPath != "" {
		data, err := os.ReadFile(p.cfg.GraphGeneratorSchemaPath)
		if err != nil {
			return pgerr.IO("pipeline.generate: read schema", err)
		}
		parsed, err := schemalang.Parse(string(data))
		if err != nil {
			return err
		}
		source = parsed
	}

	model, err := generator.Generate(source, p.cfg)
	if err != nil {
		return err
	}
	return p.writeJSON("generated_graph.json", dumpModel(model))
}

// assembleSchema builds the in-memory Schema that schema.txt/merged_schema.pgs
// render from, given the final node/edge type set.
func assembleSchema(cfg *config.Config, nodeTypes, edgeTypes []*typemodel.Type) *schemalang.Schema {
	schema := &schemalang.Schema{
		Name:      cfg.GraphTypeName,
		Mode:      cfg.GraphTypeMode,
		NodeTypes: make(map[string]*typemodel.Type, len(nodeTypes)),
		EdgeTypes: make(map[string]*typemodel.Type, len(edgeTypes)),
	}
	for _, ty := range nodeTypes {
		schema.NodeTypes[ty.Name] = ty
		schema.Order = append(schema.Order, ty.Name)
	}
	for _, ty := range edgeTypes {
		schema.EdgeTypes[ty.Name] = ty
		schema.Order = append(schema.Order, ty.Name)
	}
	return schema
}

// emit writes schema.txt.
func (p *Pipeline) emit(schema *schemalang.Schema) error {
	log.Info("pipeline: emitting schema.txt")
	return p.emitNamed("schema.txt", schemalang.Emit(schema))
}

func (p *Pipeline) emitNamed(name, content string) error {
	path := filepath.Join(p.cfg.OutDir, name)
	if err := os.MkdirAll(p.cfg.OutDir, 0o755); err != nil {
		return pgerr.IO("pipeline.emit: mkdir", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return pgerr.IO(fmt.Sprintf("pipeline.emit: write %s", name), err)
	}
	return nil
}

func (p *Pipeline) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return pgerr.IO(fmt.Sprintf("pipeline.writeJSON: marshal %s", name), err)
	}
	if err := os.MkdirAll(p.cfg.OutDir, 0o755); err != nil {
		return pgerr.IO("pipeline.writeJSON: mkdir", err)
	}
	path := filepath.Join(p.cfg.OutDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return pgerr.IO(fmt.Sprintf("pipeline.writeJSON: write %s", name), err)
	}
	return nil
}

// memberDump is the per-type element-id listing spec.md §6.2 calls
// nodes_and_edges.json.
type memberDump struct {
	NodeTypes map[string][]string `json:"node_types"`
	EdgeTypes map[string][]string `json:"edge_types"`
}

func (p *Pipeline) dumpMembers(nodeTypes, edgeTypes []*typemodel.Type) error {
	dump := memberDump{
		NodeTypes: make(map[string][]string, len(nodeTypes)),
		EdgeTypes: make(map[string][]string, len(edgeTypes)),
	}
	for _, ty := range nodeTypes {
		dump.NodeTypes[ty.Name] = sortedMembers(ty)
	}
	for _, ty := range edgeTypes {
		dump.EdgeTypes[ty.Name] = sortedMembers(ty)
	}
	return p.writeJSON("nodes_and_edges.json", dump)
}

func sortedMembers(ty *typemodel.Type) []string {
	out := make([]string, 0, len(ty.Members))
	for id := range ty.Members {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

type dumpedElement struct {
	ID         string         `json:"id"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
}

type dumpedEdge struct {
	dumpedElement
	StartNodeID string `json:"start_id"`
	EndNodeID   string `json:"end_id"`
}

type dumpedModel struct {
	Nodes []dumpedElement `json:"nodes"`
	Edges []dumpedEdge    `json:"edges"`
}

func dumpModel(model *graphmodel.Model) dumpedModel {
	out := dumpedModel{}
	ids := make([]string, 0, len(model.Nodes))
	for id := range model.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		n := model.Nodes[id]
		out.Nodes = append(out.Nodes, dumpedElement{ID: n.ID, Labels: n.LabelList(), Properties: n.Properties})
	}

	eids := make([]string, 0, len(model.Edges))
	for id := range model.Edges {
		eids = append(eids, id)
	}
	sort.Strings(eids)
	for _, id := range eids {
		e := model.Edges[id]
		out.Edges = append(out.Edges, dumpedEdge{
			dumpedElement: dumpedElement{ID: e.ID, Labels: e.LabelList(), Properties: e.Properties},
			StartNodeID:   e.StartNodeID,
			EndNodeID:     e.EndNodeID,
		})
	}
	return out
}
