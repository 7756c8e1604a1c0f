package registry

import (
	"errors"
	"fmt"

	"github.com/featuregrid/featuregrid/types"
)

// ErrNotFound is returned when a lookup names a spec the registry does not
// hold.
var ErrNotFound = errors.New("spec not found")

// SpecByFQN resolves a feature FQN, with or without an aggregation suffix.
// A suffixed FQN must name a feature that declares that aggregation
// function; a bare FQN must name a feature the registry holds. The lookup
// itself ignores the suffix, mirroring the fact that all derived
// aggregations share one definition.
func (r *Registry) SpecByFQN(fqn string) (*types.FeatureSpec, error) {
	parsed, err := types.ParseFQN(fqn)
	if err != nil {
		return nil, err
	}
	if parsed.Namespace == "" {
		parsed.Namespace = r.defaultNamespace
	}

	r.mu.RLock()
	spec, ok := r.features[parsed.BaseFQN()]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("feature %q: %w", fqn, ErrNotFound)
	}

	if parsed.AggrFn != "" {
		if !spec.HasAggregation() {
			return nil, fmt.Errorf("feature %q is not an aggregation", fqn)
		}
		if !hasFunc(spec.Aggr.Funcs, parsed.AggrFn) {
			return nil, fmt.Errorf("feature %q doesn't include aggregation %q", spec.FQN(r.defaultNamespace), parsed.AggrFn)
		}
	}
	return spec, nil
}

// SpecBySourceName returns the feature registered under the given source
// declaration name, or nil when there is none.
func (r *Registry) SpecBySourceName(name string) *types.FeatureSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bySrcName[name]
}

// SetByFQN resolves a feature-set FQN.
func (r *Registry) SetByFQN(fqn string) (*types.FeatureSetSpec, error) {
	normalized, err := types.NormalizeFQN(fqn, r.defaultNamespace)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	spec, ok := r.sets[normalized]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("feature set %q: %w", fqn, ErrNotFound)
	}
	return spec, nil
}

func hasFunc(funcs []types.AggregationFunction, fn types.AggregationFunction) bool {
	for _, f := range funcs {
		if f == fn {
			return true
		}
	}
	return false
}
