// Package config loads and validates the pipeline settings enumerated in
// SPEC_FULL.md §2.1 / §6.4 of spec.md.
package config

import (
	"fmt"
	"os"

	"github.com/alexanderritik/pgschema/internal/pgerr"
	"gopkg.in/yaml.v3"
)

// AttributeMode selects which FCA context columns a type-extraction pass uses.
type AttributeMode string

const (
	LabelBased         AttributeMode = "label_based"
	PropertyBased      AttributeMode = "property_based"
	LabelPropertyBased AttributeMode = "label_property_based"
)

// GraphTypeMode is the openness mode emitted in the PG-Schema header.
type GraphTypeMode string

const (
	Loose  GraphTypeMode = "LOOSE"
	Strict GraphTypeMode = "STRICT"
)

// Config is the full set of settings in spec.md §6.4.
type Config struct {
	DataSource          string        `yaml:"data_source"`
	NodeTypeExtraction  AttributeMode `yaml:"node_type_extraction"`
	EdgeTypeExtraction  AttributeMode `yaml:"edge_type_extraction"`
	OutDir              string        `yaml:"out_dir"`

	OptionalLabels          bool `yaml:"optional_labels"`
	OptionalProperties      bool `yaml:"optional_properties"`
	OpenLabels              bool `yaml:"open_labels"`
	OpenProperties          bool `yaml:"open_properties"`
	RemoveInheritedFeatures bool `yaml:"remove_inherited_features"`
	AbstractTypeLookup      bool `yaml:"abstract_type_lookup"`
	MaxTypes                bool `yaml:"max_types"`
	ValidateGraph           bool `yaml:"validate_graph"`
	MergeSchema             bool `yaml:"merge_schema"`
	GraphGenerator          bool `yaml:"graph_generator"`

	PropertyOutlierThreshold int `yaml:"property_outlier_threshold"`
	LabelOutlierThreshold    int `yaml:"label_outlier_threshold"`
	EndpointOutlierThreshold int `yaml:"endpoint_outlier_threshold"`
	MaxNodeTypes             int `yaml:"max_node_types"`
	MaxEdgeTypes             int `yaml:"max_edge_types"`
	GraphGeneratorMinEntities int `yaml:"graph_generator_min_entities"`
	GraphGeneratorMaxEntities int `yaml:"graph_generator_max_entities"`

	MergeThreshold        float64 `yaml:"merge_threshold"`
	AbstractTypeThreshold float64 `yaml:"abstract_type_threshold"`
	SchemaMergeThreshold  float64 `yaml:"schema_merge_threshold"`

	GraphTypeName            string        `yaml:"graph_type_name"`
	GraphTypeMode            GraphTypeMode `yaml:"graph_type_mode"`
	GraphGeneratorSchemaPath string        `yaml:"graph_generator_schema_path"`
	SchemaToMergePath        string        `yaml:"schema_to_merge_path"`
}

// Load reads and parses a YAML config file, then validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pgerr.IO("config.Load", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, pgerr.Config("config.Load: parse", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails closed on missing/ill-typed keys and inconsistent ranges,
// per spec.md §6.4.
func (c *Config) Validate() error {
	if c.DataSource == "" {
		return pgerr.Config("Validate", fmt.Errorf("data_source is required"))
	}
	if err := validAttributeMode(c.NodeTypeExtraction); err != nil {
		return pgerr.Config("Validate: node_type_extraction", err)
	}
	if err := validAttributeMode(c.EdgeTypeExtraction); err != nil {
		return pgerr.Config("Validate: edge_type_extraction", err)
	}
	if c.OutDir == "" {
		return pgerr.Config("Validate", fmt.Errorf("out_dir is required"))
	}
	if c.MergeThreshold < 0 || c.MergeThreshold > 1 {
		return pgerr.Config("Validate", fmt.Errorf("merge_threshold must be in [0,1], got %v", c.MergeThreshold))
	}
	if c.AbstractTypeThreshold < 0 || c.AbstractTypeThreshold > 1 {
		return pgerr.Config("Validate", fmt.Errorf("abstract_type_threshold must be in [0,1], got %v", c.AbstractTypeThreshold))
	}
	if c.SchemaMergeThreshold < 0 || c.SchemaMergeThreshold > 1 {
		return pgerr.Config("Validate", fmt.Errorf("schema_merge_threshold must be in [0,1], got %v", c.SchemaMergeThreshold))
	}
	if c.GraphGenerator && c.GraphGeneratorMaxEntities < c.GraphGeneratorMinEntities {
		return pgerr.Config("Validate", fmt.Errorf("graph_generator_max_entities (%d) < graph_generator_min_entities (%d)",
			c.GraphGeneratorMaxEntities, c.GraphGeneratorMinEntities))
	}
	if c.GraphTypeMode != "" && c.GraphTypeMode != Loose && c.GraphTypeMode != Strict {
		return pgerr.Config("Validate", fmt.Errorf("graph_type_mode must be LOOSE or STRICT, got %q", c.GraphTypeMode))
	}
	if c.MaxTypes && (c.MaxNodeTypes <= 0 || c.MaxEdgeTypes <= 0) {
		return pgerr.Config("Validate", fmt.Errorf("max_node_types and max_edge_types must be positive when max_types is enabled"))
	}
	return nil
}

func validAttributeMode(m AttributeMode) error {
	switch m {
	case LabelBased, PropertyBased, LabelPropertyBased:
		return nil
	default:
		return fmt.Errorf("must be one of label_based, property_based, label_property_based, got %q", m)
	}
}
