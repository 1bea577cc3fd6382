package extractor

import (
	"fmt"

	"github.com/alexanderritik/pgschema/internal/config"
	"github.com/alexanderritik/pgschema/internal/fca"
	"github.com/alexanderritik/pgschema/internal/graphmodel"
	"github.com/alexanderritik/pgschema/internal/pgerr"
)

// attributeUniverse resolves, for one extraction pass, the attribute
// columns the FCA context is built over, split into label/property-key
// namespaces so label_property_based mode can later tell them apart.
type attributeUniverse struct {
	labelKeys []string
	propKeys  []string
}

func resolveUniverse(model *graphmodel.Model, entity entityKind, mode config.AttributeMode) (attributeUniverse, []string, error) {
	var labels, props []string
	if entity == nodeKind {
		labels, props = model.AllNodeLabels(), model.AllNodePropertyKeys()
	} else {
		labels, props = model.AllEdgeLabels(), model.AllEdgePropertyKeys()
	}

	var attrs []string
	switch mode {
	case config.LabelBased:
		attrs = labels
	case config.PropertyBased:
		attrs = props
	case config.LabelPropertyBased:
		attrs = append(append([]string(nil), labels...), props...)
	default:
		return attributeUniverse{}, nil, pgerr.Extraction("resolveUniverse", fmt.Errorf("unsupported attribute mode %q", mode))
	}
	return attributeUniverse{labelKeys: labels, propKeys: props}, attrs, nil
}

// buildContext projects every element of the given kind onto the resolved
// attribute universe.
func buildContext(model *graphmodel.Model, entity entityKind, attrs []string) *fca.Context {
	var elementIDs []string
	if entity == nodeKind {
		for id := range model.Nodes {
			elementIDs = append(elementIDs, id)
		}
	} else {
		for id := range model.Edges {
			elementIDs = append(elementIDs, id)
		}
	}

	ctx := fca.NewContext(elementIDs, attrs)
	if entity == nodeKind {
		for id, n := range model.Nodes {
			for l := range n.Labels {
				ctx.Set(id, l)
			}
			for p := range n.Properties {
				ctx.Set(id, p)
			}
		}
	} else {
		for id, e := range model.Edges {
			for l := range e.Labels {
				ctx.Set(id, l)
			}
			for p := range e.Properties {
				ctx.Set(id, p)
			}
		}
	}
	return ctx
}
