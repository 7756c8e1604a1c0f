package types

// CompiledProgram is the deferred-computation handle produced by the
// program compiler. The spec only references it; its internals are owned by
// package program.
type CompiledProgram interface {
	// ResultPrimitive is the inferred scalar type of the computation.
	ResultPrimitive() Primitive
	// SourceChecksum is a stable hex digest of the computation source.
	SourceChecksum() string
	// SourceText is the computation source as authored.
	SourceText() string
}

// FeatureSpec is the validated, immutable definition of a single feature.
// It is constructed fully formed by the registration pipeline; a partially
// valid FeatureSpec is never published.
type FeatureSpec struct {
	Name        string
	Namespace   string
	Description string

	Keys      []string
	Freshness Duration
	Staleness Duration

	Primitive  Primitive
	Aggr       *AggrSpec
	DataSource *ResourceReference
	Builder    *BuilderSpec

	Program CompiledProgram
}

// FQN returns the feature's fully-qualified name, using defaultNamespace
// when the spec has none of its own.
func (s *FeatureSpec) FQN(defaultNamespace string) string {
	ns := s.Namespace
	if ns == "" {
		ns = defaultNamespace
	}
	if ns == "" {
		ns = DefaultNamespace
	}
	return FQN{Namespace: ns, Name: s.Name}.String()
}

// AggrFQNs returns the fully-qualified names of the derived features an
// aggregated spec fans out into, one per aggregation function, in
// declaration order. A spec without aggregations returns just its own FQN.
func (s *FeatureSpec) AggrFQNs(defaultNamespace string) []string {
	base := s.FQN(defaultNamespace)
	if s.Aggr == nil || len(s.Aggr.Funcs) == 0 {
		return []string{base}
	}
	out := make([]string, 0, len(s.Aggr.Funcs))
	for _, fn := range s.Aggr.Funcs {
		out = append(out, base+"+"+string(fn))
	}
	return out
}

// EffectiveFreshness returns the granularity when an aggregation declares
// one, otherwise the freshness field. Granularity substitutes for freshness
// on aggregated features.
func (s *FeatureSpec) EffectiveFreshness() Duration {
	if s.Aggr != nil && !s.Aggr.Granularity.Empty() {
		return s.Aggr.Granularity
	}
	return s.Freshness
}

// HasAggregation reports whether the spec declares at least one aggregation
// function.
func (s *FeatureSpec) HasAggregation() bool {
	return s.Aggr != nil && len(s.Aggr.Funcs) > 0
}
