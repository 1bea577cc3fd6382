// Package validator checks an instance graph against an inferred or parsed
// schema, per spec.md §4.7. Grounded on
// original_source/src/utils/validator.py.
package validator

import (
	"sort"

	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/alexanderritik/pgschema/internal/typemodel"
)

// InvalidNode describes a node that conformed to no node type.
type InvalidNode struct {
	NodeID     string   `json:"node_id"`
	Labels     []string `json:"node_labels"`
	Properties []string `json:"node_properties"`
}

// InvalidEdge describes an edge that conformed to no edge type.
type InvalidEdge struct {
	EdgeID      string   `json:"edge_id"`
	Labels      []string `json:"edge_labels"`
	Properties  []string `json:"edge_properties"`
	StartNodeID string   `json:"edge_start_node"`
	EndNodeID   string   `json:"edge_end_node"`
}

// Report is the structured validation outcome, serialized to
// invalid_elements.json when non-empty (spec.md §6.2).
type Report struct {
	InvalidNodes []InvalidNode `json:"invalid_nodes"`
	InvalidEdges []InvalidEdge `json:"invalid_edges"`
}

// Valid reports whether the whole graph conformed to the schema.
func (r *Report) Valid() bool {
	return len(r.InvalidNodes) == 0 && len(r.InvalidEdges) == 0
}

// Validate checks every node and edge in model against nodeTypes/edgeTypes
// and returns the invalid elements found.
func Validate(model *graphmodel.Model, nodeTypes, edgeTypes []*typemodel.Type) *Report {
	nodeRegistry := registryOf(nodeTypes)
	nodeOwner := ownerIndex(nodeTypes)

	report := &Report{}

	nodeIDs := make([]string, 0, len(model.Nodes))
	for id := range model.Nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)
	for _, id := range nodeIDs {
		node := model.Nodes[id]
		if !nodeConformsToAny(model, node, nodeTypes, nodeRegistry) {
			report.InvalidNodes = append(report.InvalidNodes, InvalidNode{
				NodeID:     id,
				Labels:     node.LabelList(),
				Properties: propertyKeys(node.Properties),
			})
		}
	}

	edgeIDs := make([]string, 0, len(model.Edges))
	for id := range model.Edges {
		edgeIDs = append(edgeIDs, id)
	}
	sort.Strings(edgeIDs)
	for _, id := range edgeIDs {
		edge := model.Edges[id]
		if !edgeConformsToAny(model, edge, edgeTypes, nodeRegistry, nodeOwner) {
			report.InvalidEdges = append(report.InvalidEdges, InvalidEdge{
				EdgeID:      id,
				Labels:      edge.LabelList(),
				Properties:  propertyKeys(edge.Properties),
				StartNodeID: edge.StartNodeID,
				EndNodeID:   edge.EndNodeID,
			})
		}
	}

	return report
}

func nodeConformsToAny(model *graphmodel.Model, node *graphmodel.Node, nodeTypes []*typemodel.Type, registry map[string]*typemodel.Type) bool {
	for _, ty := range nodeTypes {
		if conformsToType(model, node.Element, ty, registry, model.NodePropertyDatatypes) {
			return true
		}
	}
	return false
}

func edgeConformsToAny(model *graphmodel.Model, edge *graphmodel.Edge, edgeTypes []*typemodel.Type, nodeRegistry map[string]*typemodel.Type, nodeOwner map[string]string) bool {
	edgeRegistry := registryOf(edgeTypes)
	for _, ty := range edgeTypes {
		if !conformsToType(model, edge.Element, ty, edgeRegistry, model.EdgePropertyDatatypes) {
			continue
		}
		if !nodeConformsToAnyNamed(edge.StartNodeID, ty.StartNodeTypes, nodeRegistry, nodeOwner) {
			continue
		}
		if !nodeConformsToAnyNamed(edge.EndNodeID, ty.EndNodeTypes, nodeRegistry, nodeOwner) {
			continue
		}
		return true
	}
	return false
}

// conformsToType applies spec.md §4.7's mandatory/optional/datatype checks
// for one type, resolving the type's own features plus every transitive
// supertype's (_gather_labels_and_properties).
func conformsToType(model *graphmodel.Model, el graphmodel.Element, ty *typemodel.Type, registry map[string]*typemodel.Type, datatypes map[string]graphmodel.Datatype) bool {
	mandatoryLabels, optionalLabels, mandatoryProps, optionalProps := gatherFeatures(ty, registry)

	for l := range mandatoryLabels {
		if _, ok := el.Labels[l]; !ok {
			return false
		}
	}
	if !ty.OpenLabels {
		for l := range el.Labels {
			_, mand := mandatoryLabels[l]
			_, opt := optionalLabels[l]
			if !mand && !opt {
				return false
			}
		}
	}

	for p := range mandatoryProps {
		if _, ok := el.Properties[p]; !ok {
			return false
		}
	}
	if !ty.OpenProperties {
		for p := range el.Properties {
			_, mand := mandatoryProps[p]
			_, opt := optionalProps[p]
			if !mand && !opt {
				return false
			}
		}
	}

	for prop, value := range el.Properties {
		expected, ok := datatypes[prop]
		if !ok {
			continue
		}
		if graphmodel.Classify(value) != expected {
			return false
		}
	}

	return true
}

func gatherFeatures(ty *typemodel.Type, registry map[string]*typemodel.Type) (mandatoryLabels, optionalLabels map[string]struct{}, mandatoryProps, optionalProps map[string]struct{}) {
	mandatoryLabels = make(map[string]struct{})
	optionalLabels = make(map[string]struct{})
	mandatoryProps = make(map[string]struct{})
	optionalProps = make(map[string]struct{})

	var walk func(t *typemodel.Type)
	walk = func(t *typemodel.Type) {
		for l := range t.Labels {
			mandatoryLabels[l] = struct{}{}
		}
		for l := range t.OptionalLabels {
			optionalLabels[l] = struct{}{}
		}
		for p := range t.Properties {
			mandatoryProps[p] = struct{}{}
		}
		for p := range t.OptionalProperties {
			optionalProps[p] = struct{}{}
		}
		for supName := range t.Supertypes {
			if sup, ok := registry[supName]; ok {
				walk(sup)
			}
		}
	}
	walk(ty)
	return
}

// nodeConformsToAnyNamed reports whether nodeID's owning type (or any
// transitive supertype of it) appears in validTypeNames.
func nodeConformsToAnyNamed(nodeID string, validTypeNames map[string]struct{}, registry map[string]*typemodel.Type, owner map[string]string) bool {
	ownerName, ok := owner[nodeID]
	if !ok {
		return false
	}
	ty, ok := registry[ownerName]
	if !ok {
		return false
	}
	if _, ok := validTypeNames[ty.Name]; ok {
		return true
	}
	for supName := range ty.AllSupertypes(registry) {
		if _, ok := validTypeNames[supName]; ok {
			return true
		}
	}
	return false
}

func ownerIndex(nodeTypes []*typemodel.Type) map[string]string {
	owner := make(map[string]string)
	for _, ty := range nodeTypes {
		for m := range ty.Members {
			owner[m] = ty.Name
		}
	}
	return owner
}

func registryOf(types []*typemodel.Type) map[string]*typemodel.Type {
	reg := make(map[string]*typemodel.Type, len(types))
	for _, ty := range types {
		reg[ty.Name] = ty
	}
	return reg
}

func propertyKeys(props map[string]any) []string {
	out := make([]string, 0, len(props))
	for k := range props {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
