package sdk

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/featuregrid/featuregrid/manifest"
	"github.com/featuregrid/featuregrid/replay"
	"github.com/featuregrid/featuregrid/types"
)

// SetDefinition is a feature-set declaration before and after registration.
// The declaring function is kept as-is and validated by RegisterSet; it must
// be a niladic function returning a slice of feature references.
type SetDefinition struct {
	name string
	doc  string
	fn   any

	defineErr error

	spec          *types.FeatureSetSpec
	historicalGet replay.GetFunc
	manifestFn    func() (string, error)
}

// DefineSet creates a feature-set definition from its declared name and the
// function listing its member features. The definition is inert until
// RegisterSet is called on it. Doc is the only DefineOption that applies to
// a set; a Returns option fails at registration, since a set has no result
// type of its own.
func (s *SDK) DefineSet(name string, fn any, opts ...DefineOption) *SetDefinition {
	var cfg defineConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	sd := &SetDefinition{name: name, doc: cfg.doc, fn: fn}
	if cfg.returns != "" {
		sd.defineErr = errors.New("a return type does not apply to feature sets")
	}
	return sd
}

// Name returns the source declaration name.
func (sd *SetDefinition) Name() string { return sd.name }

// Registered reports whether the definition carries a published spec.
func (sd *SetDefinition) Registered() bool { return sd.spec != nil }

// Spec returns the published spec, or nil before registration.
func (sd *SetDefinition) Spec() *types.FeatureSetSpec { return sd.spec }

// HistoricalGet returns the attached historical-get capability; nil before
// registration.
func (sd *SetDefinition) HistoricalGet() replay.GetFunc { return sd.historicalGet }

// Manifest renders the published spec's manifest.
func (sd *SetDefinition) Manifest() (string, error) {
	if sd.manifestFn == nil {
		return "", fmt.Errorf("in %s: not registered", sd.name)
	}
	return sd.manifestFn()
}

// RegisterSet is the terminal registration call for a feature set. It
// validates the declaring function's shape, resolves every member reference
// to a normalized FQN, builds the spec, attaches the historical-get and
// manifest capabilities, and publishes to the registry. With export set,
// the set is additionally marked for manifest export.
func (s *SDK) RegisterSet(ctx context.Context, sd *SetDefinition, export bool, options Options, opts ...RegisterOption) (*types.FeatureSetSpec, error) {
	var cfg registerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	spec, err := s.buildFeatureSet(ctx, sd, options, cfg.scope)
	if err != nil {
		return nil, fmt.Errorf("in %s: %w", sd.name, err)
	}

	sd.spec = spec
	sd.historicalGet = replay.NewHistoricalGet(spec, s.store)
	sd.manifestFn = func() (string, error) {
		return manifest.FeatureSet(spec, s.defaultNamespace)
	}
	s.reg.RegisterSetSpec(spec, export)

	s.logger.Debug("registered feature set", "fqn", spec.FQN(s.defaultNamespace), "features", len(spec.Features), "export", export)
	return spec, nil
}

func (s *SDK) buildFeatureSet(ctx context.Context, sd *SetDefinition, options Options, scope Scope) (*types.FeatureSetSpec, error) {
	if sd.defineErr != nil {
		return nil, sd.defineErr
	}
	refs, err := invokeSetFunc(sd.fn)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spec := &types.FeatureSetSpec{
		Name:        sd.name,
		Description: sd.doc,
		Timeout:     types.DefaultFeatureSetTimeout,
	}

	if v, ok := options[OptionNamespace]; ok {
		ns, isStr := v.(string)
		if !isStr {
			return nil, fmt.Errorf("option %q must be a string, got %T", OptionNamespace, v)
		}
		spec.Namespace = ns
	}
	if v, ok := options[OptionTimeout]; ok {
		raw, isStr := v.(string)
		if !isStr {
			return nil, fmt.Errorf("option %q must be a duration string, got %T", OptionTimeout, v)
		}
		timeout, err := types.ParseDuration(raw)
		if err != nil {
			return nil, err
		}
		if !timeout.Empty() {
			spec.Timeout = timeout
		}
	}

	spec.Features = make([]string, 0, len(refs))
	for _, ref := range refs {
		fqn, err := s.resolveMember(ref, scope)
		if err != nil {
			return nil, err
		}
		spec.Features = append(spec.Features, fqn)
	}

	if v, ok := options[OptionKeyFeature]; ok {
		raw, isStr := v.(string)
		if !isStr {
			return nil, fmt.Errorf("option %q must be a string, got %T", OptionKeyFeature, v)
		}
		fqn, err := s.resolveMember(raw, scope)
		if err != nil {
			return nil, err
		}
		spec.KeyFeature = fqn
	}

	return spec, nil
}

// invokeSetFunc checks that fn is a niladic, non-variadic function with a
// single slice result, calls it, and returns the elements.
func invokeSetFunc(fn any) ([]any, error) {
	if fn == nil {
		return nil, ErrInvalidSetSignature
	}
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func || t.IsVariadic() || t.NumIn() != 0 || t.NumOut() != 1 || t.Out(0).Kind() != reflect.Slice {
		return nil, ErrInvalidSetSignature
	}

	result := v.Call(nil)[0]
	refs := make([]any, result.Len())
	for i := range refs {
		refs[i] = result.Index(i).Interface()
	}
	return refs, nil
}

// resolveMember turns one member reference into a normalized FQN. String
// references go through the registry; definitions and specs are accepted
// directly. Aggregated features must be named by an aggregation-qualified
// FQN string.
func (s *SDK) resolveMember(ref any, scope Scope) (string, error) {
	switch r := ref.(type) {
	case string:
		if def, ok := scope[r]; ok && def != nil {
			return s.memberFQN(def.Spec(), r)
		}
		if sp := s.reg.SpecBySourceName(r); sp != nil {
			return s.memberFQN(sp, r)
		}
		sp, err := s.reg.SpecByFQN(r)
		if err != nil {
			return "", err
		}
		parsed, err := types.ParseFQN(r)
		if err != nil {
			return "", err
		}
		if sp.HasAggregation() && parsed.AggrFn == "" {
			return "", fmt.Errorf("%q: %w", r, ErrAggrNeedsFQN)
		}
		return types.NormalizeFQN(r, s.defaultNamespace)
	case *Definition:
		if r == nil {
			return "", fmt.Errorf("nil definition: %w", ErrUnresolvedReference)
		}
		return s.memberFQN(r.Spec(), r.Name())
	case *types.FeatureSpec:
		return s.memberFQN(r, "")
	}
	return "", fmt.Errorf("reference of type %T: %w", ref, ErrUnresolvedReference)
}

func (s *SDK) memberFQN(spec *types.FeatureSpec, name string) (string, error) {
	if spec == nil {
		return "", fmt.Errorf("%q is not registered: %w", name, ErrUnresolvedReference)
	}
	if spec.HasAggregation() {
		return "", fmt.Errorf("%q: %w", spec.FQN(s.defaultNamespace), ErrAggrNeedsFQN)
	}
	return spec.FQN(s.defaultNamespace), nil
}
