package extractor

import (
	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/alexanderritik/pgschema/internal/typemodel"
)

// computeEndpoints tallies, for each edge type, the node types observed at
// its members' start/end node ids and keeps those at or above threshold,
// then subsumes (drops) any endpoint node type whose transitive supertype
// is also present in the same set, per spec.md §4.3.6. Grounded on
// original_source/src/schema_inference/type_extractor.py:_compute_endpoints.
func computeEndpoints(model *graphmodel.Model, edgeTypes []*typemodel.Type, nodeTypes []*typemodel.Type, threshold int) {
	nodeIDToTypes := make(map[string]map[string]struct{})
	for _, nt := range nodeTypes {
		for id := range nt.Members {
			if nodeIDToTypes[id] == nil {
				nodeIDToTypes[id] = make(map[string]struct{})
			}
			nodeIDToTypes[id][nt.Name] = struct{}{}
		}
	}

	nodeRegistry := registryOf(nodeTypes)

	for _, et := range edgeTypes {
		startCounts := make(map[string]int)
		endCounts := make(map[string]int)
		for edgeID := range et.Members {
			edge, ok := model.GetEdge(edgeID)
			if !ok {
				continue
			}
			for t := range nodeIDToTypes[edge.StartNodeID] {
				startCounts[t]++
			}
			for t := range nodeIDToTypes[edge.EndNodeID] {
				endCounts[t]++
			}
		}

		for t, count := range startCounts {
			if count >= threshold {
				et.StartNodeTypes[t] = struct{}{}
			}
		}
		for t, count := range endCounts {
			if count >= threshold {
				et.EndNodeTypes[t] = struct{}{}
			}
		}

		filterSubsumedEndpoints(et.StartNodeTypes, nodeRegistry)
		filterSubsumedEndpoints(et.EndNodeTypes, nodeRegistry)
	}
}

// filterSubsumedEndpoints drops any node type from the set that has a
// transitive supertype also present in the set.
func filterSubsumedEndpoints(endpointTypes map[string]struct{}, registry map[string]*typemodel.Type) {
	var toRemove []string
	for name := range endpointTypes {
		nt, ok := registry[name]
		if !ok {
			continue
		}
		for sup := range nt.AllSupertypes(registry) {
			if _, present := endpointTypes[sup]; present {
				toRemove = append(toRemove, name)
				break
			}
		}
	}
	for _, name := range toRemove {
		delete(endpointTypes, name)
	}
}
