package schemalang

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alexanderritik/pgschema/internal/config"
	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/alexanderritik/pgschema/internal/pgerr"
	"github.com/alexanderritik/pgschema/internal/typemodel"
)

var (
	headerRe = regexp.MustCompile(`(?s)^CREATE GRAPH TYPE\s+(\w+)\s*(LOOSE|STRICT)?\s*\{(.*)\}\s*$`)
	nodeRe   = regexp.MustCompile(`(?s)^\(\s*([A-Za-z0-9_]+)\s*:\s*([A-Za-z0-9_&?\sOPEN]*)\s*(\{.*\})?\s*\)$`)
	edgeRe   = regexp.MustCompile(`(?s)^\(\s*:([A-Za-z0-9_|\s]*)\)\s*-\s*\[\s*(\w+)\s*:\s*([A-Za-z0-9_&?\s]*)\s*(\{.*\})?\s*\]\s*->\s*\(\s*:([A-Za-z0-9_|\s]*)\)\s*$`)
)

// Parse reads a PG-Schema document (spec.md §6.1) and resolves inheritance
// (spec.md §4.5). Grounded on SchemaParser.parse_schema in
// original_source/src/graph_generator/schema_parser.py.
func Parse(text string) (*Schema, error) {
	body := strings.TrimSpace(text)
	m := headerRe.FindStringSubmatch(body)
	if m == nil {
		return nil, pgerr.Parse("schemalang.Parse", fmt.Errorf("invalid schema format: missing CREATE GRAPH TYPE header"))
	}
	name := m[1]
	mode := config.GraphTypeMode(m[2])

	defs := splitTopLevel(strings.TrimSpace(m[3]))

	schema := newSchema(name, mode)
	for _, def := range defs {
		def = strings.TrimSpace(def)
		if def == "" {
			continue
		}
		switch {
		case isNodeDefinition(def):
			if err := parseNodeDef(schema, def); err != nil {
				return nil, err
			}
		case isEdgeDefinition(def):
			if err := parseEdgeDef(schema, def); err != nil {
				return nil, err
			}
		default:
			return nil, pgerr.Parse("schemalang.Parse", fmt.Errorf("invalid type definition: %s", def))
		}
	}

	resolveSupertypes(schema)
	return schema, nil
}

// splitTopLevel splits on commas that are not nested inside {}, [] or ().
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func isNodeDefinition(def string) bool {
	return nodeRe.MatchString(stripAbstract(def))
}

func isEdgeDefinition(def string) bool {
	return edgeRe.MatchString(stripAbstract(def))
}

func stripAbstract(def string) string {
	if strings.HasPrefix(def, "ABSTRACT") {
		return strings.TrimSpace(def[len("ABSTRACT"):])
	}
	return def
}

func parseNodeDef(schema *Schema, def string) error {
	isAbstract := strings.HasPrefix(def, "ABSTRACT")
	rest := stripAbstract(def)

	m := nodeRe.FindStringSubmatch(rest)
	if m == nil {
		return pgerr.Parse("schemalang.parseNodeDef", fmt.Errorf("invalid node type definition: %s", def))
	}
	name, inheritPart, propsStr := m[1], m[2], m[3]

	ty := typemodel.New(0, typemodel.NodeEntity, nil)
	ty.Name = name
	ty.IsAbstract = isAbstract

	supertypes, open := parseSupertypesAndLabels(schema, ty, inheritPart)
	ty.OpenLabels = open
	parseProperties(ty, propsStr)

	schema.NodeTypes[name] = ty
	schema.Order = append(schema.Order, name)
	for _, sup := range supertypes {
		ty.Supertypes[sup] = struct{}{}
	}
	return nil
}

func parseEdgeDef(schema *Schema, def string) error {
	isAbstract := strings.HasPrefix(def, "ABSTRACT")
	rest := stripAbstract(def)

	m := edgeRe.FindStringSubmatch(rest)
	if m == nil {
		return pgerr.Parse("schemalang.parseEdgeDef", fmt.Errorf("invalid edge type definition: %s", def))
	}
	startPart, name, inheritPart, propsStr, endPart := m[1], m[2], m[3], m[4], m[5]

	ty := typemodel.New(0, typemodel.EdgeEntity, nil)
	ty.Name = name
	ty.IsAbstract = isAbstract

	for _, s := range splitEndpoints(startPart) {
		ty.StartNodeTypes[s] = struct{}{}
	}
	for _, e := range splitEndpoints(endPart) {
		ty.EndNodeTypes[e] = struct{}{}
	}

	supertypes, open := parseSupertypesAndLabels(schema, ty, inheritPart)
	ty.OpenLabels = open
	parseProperties(ty, propsStr)

	schema.EdgeTypes[name] = ty
	schema.Order = append(schema.Order, name)
	for _, sup := range supertypes {
		ty.Supertypes[sup] = struct{}{}
	}
	return nil
}

func splitEndpoints(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseSupertypesAndLabels classifies each `&`-separated inherit-list item as
// a supertype, a mandatory label, or (with a trailing `?`) an optional label.
// A component counts as a supertype only if it already names a type parsed
// earlier in the document — order-dependent, matching
// SchemaParser._parse_supertypes_and_labels exactly: supertypes must be
// declared before their subtypes in the schema text.
func parseSupertypesAndLabels(schema *Schema, ty *typemodel.Type, part string) (supertypes []string, open bool) {
	if strings.Contains(part, "OPEN") {
		open = true
		part = strings.TrimSpace(strings.ReplaceAll(part, "OPEN", ""))
	}

	components := strings.Split(part, "&")
	for _, comp := range components {
		comp = strings.TrimSpace(comp)
		if comp == "" {
			continue
		}
		if strings.Contains(comp, "?") {
			ty.OptionalLabels[strings.TrimSpace(strings.ReplaceAll(comp, "?", ""))] = struct{}{}
			continue
		}
		if _, ok := schema.lookup(comp); ok {
			supertypes = append(supertypes, comp)
			continue
		}
		ty.Labels[comp] = struct{}{}
	}
	return supertypes, open
}

func parseProperties(ty *typemodel.Type, propsStr string) {
	if propsStr == "" {
		return
	}
	body := strings.TrimSpace(propsStr)
	if strings.Contains(body, "OPEN") {
		ty.OpenProperties = true
		body = strings.ReplaceAll(body, ", OPEN", "")
		body = strings.ReplaceAll(body, "OPEN", "")
	}
	body = strings.Trim(body, "{} ")
	if body == "" {
		return
	}
	for _, prop := range strings.Split(body, ",") {
		prop = strings.TrimSpace(prop)
		if prop == "" {
			continue
		}
		optional := strings.HasPrefix(prop, "OPTIONAL")
		if optional {
			prop = strings.TrimSpace(prop[len("OPTIONAL"):])
		}
		fields := strings.Fields(prop)
		if len(fields) != 2 {
			continue
		}
		key, dt := fields[0], graphmodel.Datatype(fields[1])
		if optional {
			ty.OptionalProperties[key] = dt
		} else {
			ty.Properties[key] = dt
		}
	}
}

// resolveSupertypes unions every transitive supertype's labels and
// properties into each type (spec.md §4.5), the inverse of
// internal/extractor's inherited-feature removal. Endpoint sets are never
// inherited.
func resolveSupertypes(schema *Schema) {
	for _, ty := range schema.NodeTypes {
		resolveOne(ty, schema)
	}
	for _, ty := range schema.EdgeTypes {
		resolveOne(ty, schema)
	}
}

func resolveOne(ty *typemodel.Type, schema *Schema) map[string]struct{} {
	visited := make(map[string]struct{})
	var walk func(t *typemodel.Type)
	walk = func(t *typemodel.Type) {
		for supName := range t.Supertypes {
			if _, seen := visited[supName]; seen {
				continue
			}
			visited[supName] = struct{}{}
			sup, ok := schema.lookup(supName)
			if !ok {
				continue
			}
			for l := range sup.Labels {
				ty.Labels[l] = struct{}{}
			}
			for l := range sup.OptionalLabels {
				ty.OptionalLabels[l] = struct{}{}
			}
			for k, dt := range sup.Properties {
				ty.Properties[k] = dt
			}
			for k, dt := range sup.OptionalProperties {
				ty.OptionalProperties[k] = dt
			}
			walk(sup)
		}
	}
	walk(ty)
	return visited
}
