// Package extractor turns a GraphModel, by way of an FCA concept lattice,
// into the initial set of inferred Types and carries them through feature
// filling, similarity merging, abstract-type synthesis and edge-endpoint
// computation, per spec.md §4.3. Grounded on
// original_source/src/schema_inference/type_extractor.py, reworked from the
// Python Counter/defaultdict idioms into explicit Go maps and sorted
// iteration (spec.md §9 determinism note).
package extractor

import (
	"sort"

	"github.com/alexanderritik/pgschema/internal/config"
	"github.com/alexanderritik/pgschema/internal/fca"
	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/alexanderritik/pgschema/internal/typemodel"
)

type entityKind int

const (
	nodeKind entityKind = iota
	edgeKind
)

// Extractor runs the NODE and EDGE extraction passes under one configuration.
type Extractor struct {
	cfg *config.Config
}

// New builds an Extractor bound to cfg.
func New(cfg *config.Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// ExtractNodeTypes runs the full NODE pass: lattice build, initialization,
// element demotion, feature filling, merge-by-similarity, cap-merge,
// abstract-type synthesis, and (if configured) inherited-feature removal.
func (x *Extractor) ExtractNodeTypes(model *graphmodel.Model) ([]*typemodel.Type, error) {
	types, err := x.baseExtract(model, nodeKind, x.cfg.NodeTypeExtraction)
	if err != nil {
		return nil, err
	}
	if x.cfg.AbstractTypeLookup {
		types = synthesizeAbstractTypes(types, x.cfg.AbstractTypeThreshold)
	}
	if x.cfg.RemoveInheritedFeatures {
		removeInheritedFeatures(types)
	}
	sortTypes(types)
	return types, nil
}

// ExtractEdgeTypes runs the full EDGE pass, additionally computing endpoint
// types against the already-extracted node types.
func (x *Extractor) ExtractEdgeTypes(model *graphmodel.Model, nodeTypes []*typemodel.Type) ([]*typemodel.Type, error) {
	types, err := x.baseExtract(model, edgeKind, x.cfg.EdgeTypeExtraction)
	if err != nil {
		return nil, err
	}
	computeEndpoints(model, types, nodeTypes, x.cfg.EndpointOutlierThreshold)
	if x.cfg.RemoveInheritedFeatures {
		removeInheritedFeatures(types)
	}
	sortTypes(types)
	return types, nil
}

// baseExtract covers the steps common to both passes: §4.3.1 through §4.3.4.
func (x *Extractor) baseExtract(model *graphmodel.Model, entity entityKind, mode config.AttributeMode) ([]*typemodel.Type, error) {
	universe, attrs, err := resolveUniverse(model, entity, mode)
	if err != nil {
		return nil, err
	}

	ctx := buildContext(model, entity, attrs)
	lattice := ctx.BuildLattice()

	topRequired := x.topConceptRequired(model, entity, mode)
	types := initializeTypes(lattice, entity, mode, universe, model, topRequired)

	demoteElements(types)

	switch mode {
	case config.LabelBased:
		computeProperties(types, model, entity, x.cfg.PropertyOutlierThreshold)
	case config.PropertyBased:
		computeLabels(types, model, entity, x.cfg.LabelOutlierThreshold)
	}

	if x.shouldMerge(mode) {
		types = mergeBySimilarity(types, x.cfg.MergeThreshold)
		if x.cfg.MaxTypes {
			capLimit := x.cfg.MaxNodeTypes
			if entity == edgeKind {
				capLimit = x.cfg.MaxEdgeTypes
			}
			if len(types) > capLimit {
				types = capMerge(types, capLimit)
			}
		}
	}

	return types, nil
}

func (x *Extractor) shouldMerge(mode config.AttributeMode) bool {
	switch mode {
	case config.LabelBased:
		return x.cfg.OptionalLabels
	case config.PropertyBased:
		return x.cfg.OptionalProperties
	case config.LabelPropertyBased:
		return x.cfg.OptionalLabels && x.cfg.OptionalProperties
	default:
		return false
	}
}

func (x *Extractor) topConceptRequired(model *graphmodel.Model, entity entityKind, mode config.AttributeMode) bool {
	kind := "NODE"
	if entity == edgeKind {
		kind = "EDGE"
	}
	return model.IsTopConceptRequired(string(mode), kind)
}

// initializeTypes builds one Type per kept concept (§4.3.1), translating
// lattice parent/child concept ids to the deterministic concept-id-derived
// names once every kept Type's name is known.
func initializeTypes(lattice *fca.Lattice, entity entityKind, mode config.AttributeMode, universe attributeUniverse, model *graphmodel.Model, topRequired bool) []*typemodel.Type {
	n := len(lattice.Concepts)
	if n == 0 {
		return nil
	}
	topID, bottomID := 0, n-1
	dropTop := !topRequired && len(lattice.Concepts[topID].Intent) == 0
	dropBottom := len(lattice.Concepts[bottomID].Extent) == 0

	labelSet := make(map[string]struct{}, len(universe.labelKeys))
	for _, l := range universe.labelKeys {
		labelSet[l] = struct{}{}
	}

	kind := typemodel.NodeEntity
	if entity == edgeKind {
		kind = typemodel.EdgeEntity
	}

	kept := make(map[int]*typemodel.Type, n)
	for _, concept := range lattice.Concepts {
		if concept.ID == topID && dropTop {
			continue
		}
		if concept.ID == bottomID && dropBottom {
			continue
		}

		ty := typemodel.New(concept.ID, kind, concept.Extent)
		labels, props := splitIntent(concept.Intent, mode, labelSet)
		for _, l := range labels {
			ty.Labels[l] = struct{}{}
		}
		for _, p := range props {
			ty.Properties[p] = datatypeFor(model, entity, p)
		}
		ty.GenerateName(nil)
		kept[concept.ID] = ty
	}

	for id, ty := range kept {
		concept := lattice.Concepts[id]
		for _, pid := range concept.Parents {
			if pid == topID && dropTop {
				continue
			}
			if sup, ok := kept[pid]; ok {
				ty.Supertypes[sup.Name] = struct{}{}
			}
		}
		for _, cid := range concept.Children {
			if cid == bottomID && dropBottom {
				continue
			}
			if sub, ok := kept[cid]; ok {
				ty.Subtypes[sub.Name] = struct{}{}
			}
		}
	}

	out := make([]*typemodel.Type, 0, len(kept))
	for _, ty := range kept {
		out = append(out, ty)
	}
	sortTypes(out)
	return out
}

func splitIntent(intent []string, mode config.AttributeMode, labelSet map[string]struct{}) (labels, props []string) {
	switch mode {
	case config.LabelBased:
		return intent, nil
	case config.PropertyBased:
		return nil, intent
	case config.LabelPropertyBased:
		for _, attr := range intent {
			if _, isLabel := labelSet[attr]; isLabel {
				labels = append(labels, attr)
			} else {
				props = append(props, attr)
			}
		}
		return labels, props
	default:
		return nil, nil
	}
}

func datatypeFor(model *graphmodel.Model, entity entityKind, key string) graphmodel.Datatype {
	if entity == nodeKind {
		return model.NodePropertyDatatypes[key]
	}
	return model.EdgePropertyDatatypes[key]
}

// demoteElements removes from each Type's member set every element claimed
// by one of its transitive subtypes (§4.3.1 "element demotion").
func demoteElements(types []*typemodel.Type) {
	registry := registryOf(types)
	removals := make(map[string]map[string]struct{}, len(types))
	for _, ty := range types {
		claimed := make(map[string]struct{})
		for subName := range ty.AllSubtypes(registry) {
			sub, ok := registry[subName]
			if !ok {
				continue
			}
			for m := range sub.Members {
				claimed[m] = struct{}{}
			}
		}
		removals[ty.Name] = claimed
	}
	for _, ty := range types {
		for m := range removals[ty.Name] {
			delete(ty.Members, m)
		}
	}
}

func computeProperties(types []*typemodel.Type, model *graphmodel.Model, entity entityKind, threshold int) {
	for _, ty := range types {
		counts := make(map[string]int)
		total := len(ty.Members)
		for m := range ty.Members {
			props := propertiesOf(model, entity, m)
			for k := range props {
				counts[k]++
			}
		}
		for k, count := range counts {
			dt := datatypeFor(model, entity, k)
			switch {
			case count == total:
				ty.Properties[k] = dt
			case count >= threshold:
				ty.OptionalProperties[k] = dt
			}
		}
	}
}

func computeLabels(types []*typemodel.Type, model *graphmodel.Model, entity entityKind, threshold int) {
	for _, ty := range types {
		counts := make(map[string]int)
		total := len(ty.Members)
		for m := range ty.Members {
			labels := labelsOf(model, entity, m)
			for l := range labels {
				counts[l]++
			}
		}
		for l, count := range counts {
			switch {
			case count == total:
				ty.Labels[l] = struct{}{}
			case count >= threshold:
				ty.OptionalLabels[l] = struct{}{}
			}
		}
	}
}

func propertiesOf(model *graphmodel.Model, entity entityKind, id string) map[string]any {
	if entity == nodeKind {
		if n, ok := model.GetNode(id); ok {
			return n.Properties
		}
		return nil
	}
	if e, ok := model.GetEdge(id); ok {
		return e.Properties
	}
	return nil
}

func labelsOf(model *graphmodel.Model, entity entityKind, id string) map[string]struct{} {
	if entity == nodeKind {
		if n, ok := model.GetNode(id); ok {
			return n.Labels
		}
		return nil
	}
	if e, ok := model.GetEdge(id); ok {
		return e.Labels
	}
	return nil
}

func registryOf(types []*typemodel.Type) map[string]*typemodel.Type {
	reg := make(map[string]*typemodel.Type, len(types))
	for _, ty := range types {
		reg[ty.Name] = ty
	}
	return reg
}

func sortTypes(types []*typemodel.Type) {
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
}
