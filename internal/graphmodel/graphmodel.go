// Package graphmodel holds the in-memory property graph the inference
// engine operates on: nodes and edges carrying label sets and property
// maps, plus the derived indices (dominant datatypes, label/property-key
// unions) spec.md §3 calls GraphModel.
package graphmodel

import "sort"

// Datatype is one of the fixed value-classification tags of spec.md §6.3.
type Datatype string

const (
	String   Datatype = "STRING"
	Integer  Datatype = "INTEGER"
	Float    Datatype = "FLOAT"
	Boolean  Datatype = "BOOLEAN"
	List     Datatype = "LIST"
	Map      Datatype = "MAP"
	Date     Datatype = "DATE"
	Time     Datatype = "TIME"
	DateTime Datatype = "DATETIME"
	Duration Datatype = "DURATION"
	Point    Datatype = "POINT"
	Unknown  Datatype = "UNKNOWN"
)

// Element is the data shared by Node and Edge: a stable id, an unordered
// label set, and a property-name-to-value map.
type Element struct {
	ID         string
	Labels     map[string]struct{}
	Properties map[string]any
}

func newElement(id string, labels []string, properties map[string]any) Element {
	e := Element{ID: id, Labels: make(map[string]struct{}, len(labels)), Properties: properties}
	if e.Properties == nil {
		e.Properties = make(map[string]any)
	}
	for _, l := range labels {
		e.Labels[l] = struct{}{}
	}
	return e
}

// LabelList returns the element's labels sorted for deterministic output.
func (e Element) LabelList() []string {
	out := make([]string, 0, len(e.Labels))
	for l := range e.Labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Node is a graph element with no endpoints.
type Node struct {
	Element
}

// NewNode builds a Node with the given labels and properties.
func NewNode(id string, labels []string, properties map[string]any) *Node {
	return &Node{Element: newElement(id, labels, properties)}
}

// Edge is a graph element with ordered start/end node identifiers.
type Edge struct {
	Element
	StartNodeID string
	EndNodeID   string
}

// NewEdge builds an Edge with the given endpoints, labels and properties.
func NewEdge(id, startNodeID, endNodeID string, labels []string, properties map[string]any) *Edge {
	return &Edge{
		Element:     newElement(id, labels, properties),
		StartNodeID: startNodeID,
		EndNodeID:   endNodeID,
	}
}

// Model is the instance graph: keyed maps of nodes and edges plus the
// derived indices spec.md §3 requires (dominant datatypes, label/property
// unions).
type Model struct {
	Nodes map[string]*Node
	Edges map[string]*Edge

	NodePropertyDatatypes map[string]Datatype
	EdgePropertyDatatypes map[string]Datatype
}

// New creates an empty Model.
func New() *Model {
	return &Model{
		Nodes:                 make(map[string]*Node),
		Edges:                 make(map[string]*Edge),
		NodePropertyDatatypes: make(map[string]Datatype),
		EdgePropertyDatatypes: make(map[string]Datatype),
	}
}

// AddNode inserts or overwrites a node by id.
func (m *Model) AddNode(n *Node) { m.Nodes[n.ID] = n }

// AddEdge inserts or overwrites an edge by id.
func (m *Model) AddEdge(e *Edge) { m.Edges[e.ID] = e }

// GetNode looks up a node by id.
func (m *Model) GetNode(id string) (*Node, bool) {
	n, ok := m.Nodes[id]
	return n, ok
}

// GetEdge looks up an edge by id.
func (m *Model) GetEdge(id string) (*Edge, bool) {
	e, ok := m.Edges[id]
	return e, ok
}

// AllNodeLabels returns the union of labels across every node, sorted.
func (m *Model) AllNodeLabels() []string {
	set := make(map[string]struct{})
	for _, n := range m.Nodes {
		for l := range n.Labels {
			set[l] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// AllEdgeLabels returns the union of labels across every edge, sorted.
func (m *Model) AllEdgeLabels() []string {
	set := make(map[string]struct{})
	for _, e := range m.Edges {
		for l := range e.Labels {
			set[l] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// AllNodePropertyKeys returns the union of property keys across every node, sorted.
func (m *Model) AllNodePropertyKeys() []string {
	set := make(map[string]struct{})
	for _, n := range m.Nodes {
		for k := range n.Properties {
			set[k] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// AllEdgePropertyKeys returns the union of property keys across every edge, sorted.
func (m *Model) AllEdgePropertyKeys() []string {
	set := make(map[string]struct{})
	for _, e := range m.Edges {
		for k := range e.Properties {
			set[k] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsTopConceptRequired returns true iff some element of the given kind
// ("NODE"/"EDGE") projects to an empty attribute row under mode, meaning the
// empty-intent top concept must be retained instead of dropped.
func (m *Model) IsTopConceptRequired(mode string, kind string) bool {
	check := func(labels map[string]struct{}, properties map[string]any) bool {
		switch mode {
		case "label_based":
			return len(labels) == 0
		case "property_based":
			return len(properties) == 0
		case "label_property_based":
			return len(labels) == 0 && len(properties) == 0
		default:
			return false
		}
	}
	switch kind {
	case "NODE":
		for _, n := range m.Nodes {
			if check(n.Labels, n.Properties) {
				return true
			}
		}
	case "EDGE":
		for _, e := range m.Edges {
			if check(e.Labels, e.Properties) {
				return true
			}
		}
	}
	return false
}
