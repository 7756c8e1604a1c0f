package sdk

import (
	"fmt"

	"github.com/featuregrid/featuregrid/replay"
	"github.com/featuregrid/featuregrid/types"
)

// Option-staging keys. Staged options are merged over the options map
// passed to Register, so a modifier's value wins over an identically named
// entry supplied directly.
const (
	OptionAggr       = "aggr"
	OptionDataSource = "data_source"
	OptionNamespace  = "namespace"
	OptionBuilder    = "builder"
	OptionKeyFeature = "key_feature"
	OptionTimeout    = "timeout"
)

// Options is the free-form option map accepted by the terminal
// registration calls.
type Options map[string]any

// Definition is a feature computation before and after registration: the
// declaring name, the expression body, staged options, and — once
// registered — the published spec plus its attached capabilities.
type Definition struct {
	name    string
	doc     string
	expr    string
	returns string

	staged map[string]any

	spec       *types.FeatureSpec
	replayFn   replay.Func
	manifestFn func() (string, error)
}

// DefineOption configures a Definition or SetDefinition at creation time.
type DefineOption func(*defineConfig)

type defineConfig struct {
	doc     string
	returns string
}

// Doc attaches the definition's documentation text; it becomes the spec's
// description.
func Doc(doc string) DefineOption {
	return func(c *defineConfig) { c.doc = doc }
}

// Returns declares the computation's result type when it cannot be
// inferred statically.
func Returns(primitive string) DefineOption {
	return func(c *defineConfig) { c.returns = primitive }
}

// Define creates a feature definition from its declared name and
// expression body. The definition is inert until Register is called on it.
func (s *SDK) Define(name, expr string, opts ...DefineOption) *Definition {
	var cfg defineConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Definition{name: name, doc: cfg.doc, expr: expr, returns: cfg.returns}
}

// Name returns the source declaration name.
func (d *Definition) Name() string { return d.name }

// Registered reports whether the definition carries a published spec.
func (d *Definition) Registered() bool { return d.spec != nil }

// Spec returns the published spec, or nil before registration.
func (d *Definition) Spec() *types.FeatureSpec { return d.spec }

// Replay returns the attached replay capability; nil before registration.
func (d *Definition) Replay() replay.Func { return d.replayFn }

// Manifest renders the published spec's manifest.
func (d *Definition) Manifest() (string, error) {
	if d.manifestFn == nil {
		return "", fmt.Errorf("in %s: not registered", d.name)
	}
	return d.manifestFn()
}

// Export is an alias of Manifest.
func (d *Definition) Export() (string, error) { return d.Manifest() }

// stage merges one option into the pending map, failing once the
// definition has been terminally registered.
func (d *Definition) stage(key string, value any) error {
	if d.spec != nil {
		return fmt.Errorf("in %s: %w", d.name, ErrOptionAfterRegister)
	}
	if d.staged == nil {
		d.staged = make(map[string]any)
	}
	d.staged[key] = value
	return nil
}

// Aggregate stages an aggregation over the given functions and granularity.
// The AggrUnknown sentinel is rejected immediately.
func (d *Definition) Aggregate(funcs []types.AggregationFunction, granularity string) error {
	for _, fn := range funcs {
		if fn == types.AggrUnknown {
			return fmt.Errorf("in %s: %w", d.name, ErrUnknownAggr)
		}
	}
	g, err := types.ParseDuration(granularity)
	if err != nil {
		return fmt.Errorf("in %s: %w", d.name, err)
	}
	return d.stage(OptionAggr, &types.AggrSpec{Funcs: funcs, Granularity: g})
}

// DataSource stages the data source the feature is computed from.
func (d *Definition) DataSource(name, namespace string) error {
	ref := types.NewResourceReference(name, namespace)
	return d.stage(OptionDataSource, &ref)
}

// Namespace stages the feature's namespace.
func (d *Definition) Namespace(ns string) error {
	return d.stage(OptionNamespace, ns)
}

// Builder stages the builder strategy the platform materializes the
// feature with.
func (d *Definition) Builder(kind string, options map[string]any) error {
	return d.stage(OptionBuilder, &types.BuilderSpec{Kind: kind, Options: options})
}
