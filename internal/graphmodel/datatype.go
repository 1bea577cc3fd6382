package graphmodel

import "time"

// Point is the {x, y} spatial value domain of spec.md §6.3.
type Point struct {
	X, Y float64
}

// Classify maps a property value to one of the fixed datatype tags by
// structural inspection, grounded on
// original_source/src/schema_inference/base_type_extractor.py:infer_data_type.
func Classify(v any) Datatype {
	switch v.(type) {
	case string:
		return String
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Integer
	case float32, float64:
		return Float
	case bool:
		return Boolean
	case []any, []string:
		return List
	case map[string]any:
		return Map
	case time.Duration:
		return Duration
	case Point:
		return Point
	case time.Time:
		return DateTime
	default:
		return classifyExtended(v)
	}
}

// classifyExtended recognizes the temporal sub-cases not expressible with a
// single Go type in the switch above (a dedicated Date/Time wrapper keeps
// DATE and TIME distinguishable from DATETIME).
func classifyExtended(v any) Datatype {
	switch v.(type) {
	case DateOnly:
		return Date
	case TimeOnly:
		return Time
	default:
		return Unknown
	}
}

// DateOnly marks a calendar date with no time-of-day component.
type DateOnly time.Time

// TimeOnly marks a wall-clock time-of-day with no calendar date.
type TimeOnly time.Time

// InferPropertyDatatypes tallies the classified datatype of every observed
// property value per key, across nodes and separately across edges, and
// keeps the most frequent (ties break by first-seen order) as the graph-wide
// dominant datatype — spec.md §3 / §4.1 infer_property_datatypes.
func (m *Model) InferPropertyDatatypes() {
	m.NodePropertyDatatypes = dominantDatatypes(nodeProperties(m))
	m.EdgePropertyDatatypes = dominantDatatypes(edgeProperties(m))
}

func nodeProperties(m *Model) func(func(string, any)) {
	return func(yield func(string, any)) {
		for _, n := range m.Nodes {
			for k, v := range n.Properties {
				yield(k, v)
			}
		}
	}
}

func edgeProperties(m *Model) func(func(string, any)) {
	return func(yield func(string, any)) {
		for _, e := range m.Edges {
			for k, v := range e.Properties {
				yield(k, v)
			}
		}
	}
}

func dominantDatatypes(walk func(func(string, any))) map[string]Datatype {
	counts := make(map[string]map[Datatype]int)
	order := make(map[string][]Datatype)

	walk(func(key string, value any) {
		dt := Classify(value)
		if counts[key] == nil {
			counts[key] = make(map[Datatype]int)
		}
		if counts[key][dt] == 0 {
			order[key] = append(order[key], dt)
		}
		counts[key][dt]++
	})

	result := make(map[string]Datatype, len(counts))
	for key, byType := range counts {
		best := order[key][0]
		bestCount := byType[best]
		for _, dt := range order[key][1:] {
			if byType[dt] > bestCount {
				best = dt
				bestCount = byType[dt]
			}
		}
		result[key] = best
	}
	return result
}
