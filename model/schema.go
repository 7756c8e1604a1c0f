package model

import (
	"github.com/hashicorp/hcl/v2"
)

// hclDefinitionFile represents the top-level structure of a definition file
// for decoding.
type hclDefinitionFile struct {
	Features []*hclFeature    `hcl:"feature,block"`
	Sets     []*hclFeatureSet `hcl:"feature_set,block"`
}

// hclFeature represents a `feature` block from a user's definition file.
type hclFeature struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`

	Keys      []string `hcl:"keys"`
	Staleness string   `hcl:"staleness"`
	Freshness string   `hcl:"freshness,optional"`

	Namespace  string `hcl:"namespace,optional"`
	DataSource string `hcl:"data_source,optional"`

	Expr    string `hcl:"expr"`
	Returns string `hcl:"returns,optional"`

	Aggregation *hclAggregation `hcl:"aggregation,block"`
	Builder     *hclBuilder     `hcl:"builder,block"`
}

// hclAggregation represents the `aggregation` block within a feature.
type hclAggregation struct {
	Funcs       []string `hcl:"funcs"`
	Granularity string   `hcl:"granularity,optional"`
}

// hclBuilder represents the `builder` block within a feature. Its body is
// free-form: every attribute becomes a builder option.
type hclBuilder struct {
	Kind string   `hcl:"kind,label"`
	Body hcl.Body `hcl:",remain"`
}

// hclFeatureSet represents a `feature_set` block from a user's definition
// file.
type hclFeatureSet struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`

	Features   []string `hcl:"features"`
	KeyFeature string   `hcl:"key_feature,optional"`
	Timeout    string   `hcl:"timeout,optional"`
	Namespace  string   `hcl:"namespace,optional"`

	// Register marks the set for the registry's exported view.
	Register bool `hcl:"register,optional"`
}
