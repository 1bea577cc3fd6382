// Package generator produces a synthetic instance graph from a parsed
// PG-Schema document, per spec.md §4.8. Used as a fixture tool: the
// "graph_generator" config flag is off by default, and nothing in the
// inference engine itself depends on this package. Grounded on
// original_source/src/graph_generator/graph_generator.py, generalized from
// the original's fixed node/edge counts to the spec's per-type
// [min_entities, max_entities] range and mandatory/optional feature fill.
package generator

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/alexanderritik/pgschema/internal/config"
	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/alexanderritik/pgschema/internal/pgerr"
	"github.com/alexanderritik/pgschema/internal/schemalang"
	"github.com/alexanderritik/pgschema/internal/typemodel"
	"github.com/google/uuid"
)

const randomStringLength = 8

// Generate builds a synthetic graphmodel.Model conforming to schema: every
// non-abstract type contributes a uniformly random count of elements in
// [cfg.GraphGeneratorMinEntities, cfg.GraphGeneratorMaxEntities], each
// carrying all mandatory features and each optional feature independently
// with probability 0.5. Edge endpoints are drawn from nodes belonging to a
// permitted endpoint type (or one of its transitive subtypes); if no such
// node exists yet, Generate fails with an EndpointError (spec.md §4.8).
func Generate(schema *schemalang.Schema, cfg *config.Config) (*graphmodel.Model, error) {
	model := graphmodel.New()
	nodesByType := make(map[string][]string)

	nodeTypes := sortedTypes(schema.NodeTypes)
	for _, nt := range nodeTypes {
		if nt.IsAbstract {
			continue
		}
		count := randomCount(cfg.GraphGeneratorMinEntities, cfg.GraphGeneratorMaxEntities)
		for i := 0; i < count; i++ {
			id := uuid.New().String()
			labels, props := fillFeatures(nt)
			model.AddNode(graphmodel.NewNode(id, labels, props))
			nodesByType[nt.Name] = append(nodesByType[nt.Name], id)
		}
	}

	eligible := eligibleNodeIndex(schema, nodesByType)

	edgeTypes := sortedTypes(schema.EdgeTypes)
	for _, et := range edgeTypes {
		if et.IsAbstract {
			continue
		}
		count := randomCount(cfg.GraphGeneratorMinEntities, cfg.GraphGeneratorMaxEntities)
		starts, err := candidateNodes(et.StartNodeTypes, eligible)
		if err != nil {
			return nil, pgerr.Endpoint(fmt.Sprintf("generator.Generate: %s start", et.Name), err)
		}
		ends, err := candidateNodes(et.EndNodeTypes, eligible)
		if err != nil {
			return nil, pgerr.Endpoint(fmt.Sprintf("generator.Generate: %s end", et.Name), err)
		}
		for i := 0; i < count; i++ {
			id := uuid.New().String()
			labels, props := fillFeatures(et)
			start := starts[rand.Intn(len(starts))]
			end := ends[rand.Intn(len(ends))]
			model.AddEdge(graphmodel.NewEdge(id, start, end, labels, props))
		}
	}

	model.InferPropertyDatatypes()
	return model, nil
}

// eligibleNodeIndex maps every node type name to the node ids that satisfy
// it, including ids generated under one of its transitive subtypes — an
// abstract or non-leaf endpoint type is satisfiable by any more specific
// instance.
func eligibleNodeIndex(schema *schemalang.Schema, nodesByType map[string][]string) map[string][]string {
	registry := schema.NodeTypes
	out := make(map[string][]string, len(registry))
	for name, ty := range registry {
		ids := append([]string(nil), nodesByType[name]...)
		for sub := range ty.AllSubtypes(registry) {
			ids = append(ids, nodesByType[sub]...)
		}
		out[name] = ids
	}
	return out
}

func candidateNodes(endpointTypes map[string]struct{}, eligible map[string][]string) ([]string, error) {
	var ids []string
	for name := range endpointTypes {
		ids = append(ids, eligible[name]...)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("wrong endpoint definition: no node satisfies any of %v", sortedNames(endpointTypes))
	}
	return ids, nil
}

func sortedNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func randomCount(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.Intn(max-min+1)
}

// fillFeatures assembles a labels/properties pair for one generated
// element: every mandatory label/property is always present; every
// optional one is included independently with probability 0.5.
func fillFeatures(ty *typemodel.Type) ([]string, map[string]any) {
	var labels []string
	for l := range ty.Labels {
		labels = append(labels, l)
	}
	for l := range ty.OptionalLabels {
		if rand.Float64() < 0.5 {
			labels = append(labels, l)
		}
	}

	props := make(map[string]any, len(ty.Properties)+len(ty.OptionalProperties))
	for k, dt := range ty.Properties {
		props[k] = randomValue(dt)
	}
	for k, dt := range ty.OptionalProperties {
		if rand.Float64() < 0.5 {
			props[k] = randomValue(dt)
		}
	}
	return labels, props
}

// randomValue draws a value from the declared datatype's domain, per
// spec.md §6.3.
func randomValue(dt graphmodel.Datatype) any {
	switch dt {
	case graphmodel.String:
		return randomString(randomStringLength)
	case graphmodel.Integer:
		return rand.Int63n(100)
	case graphmodel.Float:
		return rand.Float64() * 100
	case graphmodel.Boolean:
		return rand.Intn(2) == 1
	case graphmodel.List:
		n := 1 + rand.Intn(5)
		out := make([]string, n)
		for i := range out {
			out[i] = randomString(randomStringLength)
		}
		return out
	case graphmodel.Map:
		n := 1 + rand.Intn(5)
		out := make(map[string]any, n)
		for i := 0; i < n; i++ {
			out[randomString(4)] = randomString(randomStringLength)
		}
		return out
	case graphmodel.Date:
		return graphmodel.DateOnly(randomDate())
	case graphmodel.Time:
		return graphmodel.TimeOnly(randomTime())
	case graphmodel.DateTime:
		return randomDate().Add(randomDuration(24 * time.Hour))
	case graphmodel.Duration:
		return randomDuration(365 * 24 * time.Hour)
	case graphmodel.Point:
		return graphmodel.Point{X: rand.Float64()*360 - 180, Y: rand.Float64()*180 - 90}
	default:
		return randomString(randomStringLength)
	}
}

const alnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomString(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = alnum[rand.Intn(len(alnum))]
	}
	return string(out)
}

func randomDate() time.Time {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	days := int(time.Since(start).Hours() / 24)
	return start.AddDate(0, 0, rand.Intn(days+1))
}

func randomTime() time.Time {
	return time.Date(0, 1, 1, rand.Intn(24), rand.Intn(60), rand.Intn(60), 0, time.UTC)
}

func randomDuration(max time.Duration) time.Duration {
	return time.Duration(rand.Int63n(int64(max)))
}

func sortedTypes(m map[string]*typemodel.Type) []*typemodel.Type {
	out := make([]*typemodel.Type, 0, len(m))
	for _, ty := range m {
		out = append(out, ty)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
