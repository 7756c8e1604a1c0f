package registry

import (
	"log/slog"
	"sync"

	"github.com/featuregrid/featuregrid/types"
)

// Registry is the process-wide store of published specs for one SDK
// instance.
type Registry struct {
	mu sync.RWMutex

	defaultNamespace string

	features  map[string]*types.FeatureSpec // keyed by FQN (no aggregation suffix)
	bySrcName map[string]*types.FeatureSpec // keyed by source declaration name
	sets      map[string]*types.FeatureSetSpec
	exported  map[string]*types.FeatureSetSpec

	featureOrder []string // insertion order of feature FQNs
	setOrder     []string
}

// New creates an empty registry that qualifies unqualified names with
// defaultNamespace.
func New(defaultNamespace string) *Registry {
	if defaultNamespace == "" {
		defaultNamespace = types.DefaultNamespace
	}
	return &Registry{
		defaultNamespace: defaultNamespace,
		features:         make(map[string]*types.FeatureSpec),
		bySrcName:        make(map[string]*types.FeatureSpec),
		sets:             make(map[string]*types.FeatureSetSpec),
		exported:         make(map[string]*types.FeatureSetSpec),
	}
}

// DefaultNamespace returns the namespace applied to unqualified names.
func (r *Registry) DefaultNamespace() string { return r.defaultNamespace }

// RegisterSpec publishes a feature spec, keyed by FQN and by source name.
// Registering the same FQN again replaces the earlier spec.
func (r *Registry) RegisterSpec(spec *types.FeatureSpec) {
	fqn := spec.FQN(r.defaultNamespace)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.features[fqn]; !exists {
		r.featureOrder = append(r.featureOrder, fqn)
	}
	slog.Debug("registering feature spec", "fqn", fqn)
	r.features[fqn] = spec
	r.bySrcName[spec.Name] = spec
}

// RegisterSetSpec publishes a feature-set spec. When export is true the
// spec is additionally recorded in the exported view.
func (r *Registry) RegisterSetSpec(spec *types.FeatureSetSpec, export bool) {
	fqn := spec.FQN(r.defaultNamespace)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sets[fqn]; !exists {
		r.setOrder = append(r.setOrder, fqn)
	}
	slog.Debug("registering feature set spec", "fqn", fqn, "export", export)
	r.sets[fqn] = spec
	if export {
		r.exported[fqn] = spec
	}
}

// Features returns every registered feature spec in registration order.
func (r *Registry) Features() []*types.FeatureSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*types.FeatureSpec, 0, len(r.featureOrder))
	for _, fqn := range r.featureOrder {
		out = append(out, r.features[fqn])
	}
	return out
}

// Sets returns every registered feature-set spec in registration order.
func (r *Registry) Sets() []*types.FeatureSetSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*types.FeatureSetSpec, 0, len(r.setOrder))
	for _, fqn := range r.setOrder {
		out = append(out, r.sets[fqn])
	}
	return out
}

// Exports returns the feature sets published to the exported view, in
// registration order.
func (r *Registry) Exports() []*types.FeatureSetSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*types.FeatureSetSpec, 0, len(r.exported))
	for _, fqn := range r.setOrder {
		if spec, ok := r.exported[fqn]; ok {
			out = append(out, spec)
		}
	}
	return out
}
