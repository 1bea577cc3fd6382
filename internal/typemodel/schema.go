package typemodel

import (
	"fmt"
	"sort"
	"strings"
)

// ToSchema renders t as one PG-Schema type definition fragment — the
// node_def/edge_def production of spec.md §6.1, not a standalone
// statement. A full schema wraps one or more of these, comma-separated,
// inside `CREATE GRAPH TYPE Name { ... }` (internal/schemalang.Emit).
// Format taken verbatim from spec.md §4.4 "Schema rendering".
func (t *Type) ToSchema() string {
	if t.Entity == EdgeEntity {
		return t.toEdgeSchema()
	}
	return t.toNodeSchema()
}

func (t *Type) toNodeSchema() string {
	abstract := ""
	if t.IsAbstract {
		abstract = "ABSTRACT "
	}
	inherit := t.formatSupertypesAndLabels()
	open := ""
	if t.OpenLabels {
		open = " OPEN"
	}
	return fmt.Sprintf("%s(%s : %s%s {%s})", abstract, t.Name, inherit, open, t.formatProperties())
}

func (t *Type) toEdgeSchema() string {
	abstract := ""
	if t.IsAbstract {
		abstract = "ABSTRACT "
	}
	start := formatEndpointSet(t.StartNodeTypes)
	end := formatEndpointSet(t.EndNodeTypes)
	inherit := t.formatSupertypesAndLabels()
	open := ""
	if t.OpenLabels {
		open = " OPEN"
	}
	return fmt.Sprintf("%s%s - [%s : %s%s {%s}] -> %s", abstract, start, t.Name, inherit, open, t.formatProperties(), end)
}

func (t *Type) formatSupertypesAndLabels() string {
	var parts []string
	var supers []string
	for sup := range t.Supertypes {
		supers = append(supers, sup)
	}
	sort.Strings(supers)
	parts = append(parts, supers...)

	var labelParts []string
	for l := range t.Labels {
		labelParts = append(labelParts, l)
	}
	sort.Strings(labelParts)
	parts = append(parts, labelParts...)

	var optParts []string
	for l := range t.OptionalLabels {
		optParts = append(optParts, l+"?")
	}
	sort.Strings(optParts)
	parts = append(parts, optParts...)

	return strings.Join(parts, " & ")
}

// formatProperties renders the body between `{` and `}` (exclusive); the
// caller always supplies the braces, so an empty result correctly yields
// the spec's literal `{}`.
func (t *Type) formatProperties() string {
	type prop struct {
		name     string
		optional bool
		dt       string
	}
	var props []prop
	for name, dt := range t.Properties {
		props = append(props, prop{name, false, string(dt)})
	}
	for name, dt := range t.OptionalProperties {
		props = append(props, prop{name, true, string(dt)})
	}
	sort.Slice(props, func(i, j int) bool { return props[i].name < props[j].name })

	var parts []string
	for _, p := range props {
		prefix := ""
		if p.optional {
			prefix = "OPTIONAL "
		}
		parts = append(parts, fmt.Sprintf("%s%s %s", prefix, p.name, p.dt))
	}
	body := strings.Join(parts, ", ")
	if t.OpenProperties {
		if body != "" {
			body += ", OPEN"
		} else {
			body = "OPEN"
		}
	}
	return body
}

func formatEndpointSet(types map[string]struct{}) string {
	var names []string
	for n := range types {
		names = append(names, n)
	}
	sort.Strings(names)
	return "(:" + strings.Join(names, "|") + ")"
}
