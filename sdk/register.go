package sdk

import (
	"context"
	"fmt"

	"github.com/featuregrid/featuregrid/manifest"
	"github.com/featuregrid/featuregrid/program"
	"github.com/featuregrid/featuregrid/replay"
	"github.com/featuregrid/featuregrid/types"
)

// Scope is the explicit symbol table used to resolve bare identifiers in
// computation bodies and feature-set reference lists: the local bindings of
// the defining code, checked before the registry's source-name table.
type Scope map[string]*Definition

// RegisterOption configures a single registration call.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	scope Scope
}

// WithScope supplies the local symbol table for cross-reference
// resolution.
func WithScope(scope Scope) RegisterOption {
	return func(c *registerConfig) { c.scope = scope }
}

// Register is the terminal registration call for a feature definition. It
// consumes staged options, builds and validates the spec, compiles the
// computation body, attaches the replay and manifest capabilities, and
// publishes the spec to the registry.
//
// No partial state survives a failure: the definition and the registry are
// exactly as they were before the call.
func (s *SDK) Register(ctx context.Context, def *Definition, keys []string, staleness, freshness string, options Options, opts ...RegisterOption) (*types.FeatureSpec, error) {
	var cfg registerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	spec, prog, err := s.buildFeature(ctx, def, keys, staleness, freshness, options, cfg.scope)
	if err != nil {
		return nil, fmt.Errorf("in %s: %w", def.name, err)
	}

	// Validation is complete: attach capabilities and publish.
	def.spec = spec
	def.replayFn = replay.NewReplay(spec, prog, s.store, s.defaultNamespace)
	def.manifestFn = func() (string, error) {
		return manifest.Feature(spec, s.defaultNamespace)
	}
	s.reg.RegisterSpec(spec)
	def.staged = nil

	s.logger.Debug("registered feature", "fqn", spec.FQN(s.defaultNamespace), "primitive", spec.Primitive)
	return spec, nil
}

// buildFeature performs steps 1-7 of the pipeline without touching the
// definition or the registry.
func (s *SDK) buildFeature(ctx context.Context, def *Definition, keys []string, staleness, freshness string, options Options, scope Scope) (*types.FeatureSpec, *program.Program, error) {
	if len(keys) == 0 {
		return nil, nil, ErrMissingKeys
	}

	stalenessDur, err := types.ParseDuration(staleness)
	if err != nil {
		return nil, nil, err
	}
	freshnessDur, err := types.ParseDuration(freshness)
	if err != nil {
		return nil, nil, err
	}

	spec := &types.FeatureSpec{
		Name:        def.name,
		Description: def.doc,
		Keys:        append([]string(nil), keys...),
		Staleness:   stalenessDur,
		Freshness:   freshnessDur,
	}

	// Staged options win over the caller-supplied map.
	merged := make(map[string]any, len(options)+len(def.staged))
	for k, v := range options {
		merged[k] = v
	}
	for k, v := range def.staged {
		merged[k] = v
	}

	if v, ok := merged[OptionBuilder]; ok {
		spec.Builder, err = builderOption(v)
		if err != nil {
			return nil, nil, err
		}
	}
	if v, ok := merged[OptionNamespace]; ok {
		ns, isStr := v.(string)
		if !isStr {
			return nil, nil, fmt.Errorf("option %q must be a string, got %T", OptionNamespace, v)
		}
		spec.Namespace = ns
	}
	if v, ok := merged[OptionDataSource]; ok {
		spec.DataSource, err = dataSourceOption(v)
		if err != nil {
			return nil, nil, err
		}
	}
	if v, ok := merged[OptionAggr]; ok {
		spec.Aggr, err = aggrOption(v)
		if err != nil {
			return nil, nil, err
		}
	}

	if spec.Staleness.Empty() {
		return nil, nil, ErrMissingStaleness
	}
	if spec.Freshness.Empty() && (spec.Aggr == nil || spec.Aggr.Granularity.Empty()) {
		return nil, nil, ErrMissingFreshness
	}

	src := &program.Source{Name: def.name, Doc: def.doc, Expr: def.expr, Returns: def.returns}
	prog, err := s.compiler.Compile(ctx, src, s.resolverFor(scope))
	if err != nil {
		return nil, nil, err
	}
	spec.Primitive = prog.ResultPrimitive()
	spec.Program = prog

	// Aggregation support is checked against the compiled primitive; the
	// primitive does not exist before compilation.
	if spec.Aggr != nil {
		for _, fn := range spec.Aggr.Funcs {
			if !fn.Supports(spec.Primitive) {
				return nil, nil, fmt.Errorf("%w: %s over %s", ErrAggrUnsupported, fn, spec.Primitive)
			}
		}
	}

	return spec, prog, nil
}

func builderOption(v any) (*types.BuilderSpec, error) {
	switch b := v.(type) {
	case *types.BuilderSpec:
		return b, nil
	case types.BuilderSpec:
		return &b, nil
	}
	return nil, fmt.Errorf("option %q must be a BuilderSpec, got %T", OptionBuilder, v)
}

func dataSourceOption(v any) (*types.ResourceReference, error) {
	switch ds := v.(type) {
	case *types.ResourceReference:
		return ds, nil
	case types.ResourceReference:
		return &ds, nil
	case string:
		ref := types.NewResourceReference(ds, "")
		return &ref, nil
	}
	return nil, fmt.Errorf("option %q must be a ResourceReference or string, got %T", OptionDataSource, v)
}

func aggrOption(v any) (*types.AggrSpec, error) {
	var aggr *types.AggrSpec
	switch a := v.(type) {
	case *types.AggrSpec:
		aggr = a
	case types.AggrSpec:
		aggr = &a
	default:
		return nil, fmt.Errorf("option %q must be an AggrSpec, got %T", OptionAggr, v)
	}
	for _, fn := range aggr.Funcs {
		if fn == types.AggrUnknown {
			return nil, ErrUnknownAggr
		}
	}
	return aggr, nil
}

// resolverFor builds the FQN resolver for one registration: local scope
// first, then the registry's source-name table, then literal FQN lookup.
// Aggregated features resolve only through an aggregation-qualified FQN.
func (s *SDK) resolverFor(scope Scope) program.Resolver {
	return func(ref string) (string, error) {
		if def, ok := scope[ref]; ok {
			if def == nil || def.spec == nil {
				return "", fmt.Errorf("cannot resolve %q to an FQN: %w", ref, ErrUnresolvedReference)
			}
			return s.specRefFQN(def.spec)
		}
		if sp := s.reg.SpecBySourceName(ref); sp != nil {
			return s.specRefFQN(sp)
		}
		if sp, err := s.reg.SpecByFQN(ref); err == nil {
			parsed, perr := types.ParseFQN(ref)
			if perr != nil {
				return "", perr
			}
			if sp.HasAggregation() && parsed.AggrFn == "" {
				return "", fmt.Errorf("%q: %w", ref, ErrAggrNeedsFQN)
			}
			return types.NormalizeFQN(ref, s.defaultNamespace)
		}
		return "", fmt.Errorf("cannot resolve %q to an FQN: %w", ref, ErrUnresolvedReference)
	}
}

// specRefFQN returns the FQN of a spec referenced by bare identifier.
func (s *SDK) specRefFQN(spec *types.FeatureSpec) (string, error) {
	if spec.HasAggregation() {
		return "", fmt.Errorf("%q: %w", spec.FQN(s.defaultNamespace), ErrAggrNeedsFQN)
	}
	return spec.FQN(s.defaultNamespace), nil
}
