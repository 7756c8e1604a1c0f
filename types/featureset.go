package types

// DefaultFeatureSetTimeout is the fetch timeout applied when a feature set
// does not configure one.
const DefaultFeatureSetTimeout Duration = "5s"

// FeatureSetSpec is the validated definition of an ordered collection of
// features, exportable as one batch-retrieval unit. Features are referenced
// by FQN only; order is significant because consumers derive column or
// batch ordering from it. Duplicate FQNs are kept as given.
type FeatureSetSpec struct {
	Name        string
	Namespace   string
	Description string

	Features   []string
	KeyFeature string
	Timeout    Duration
}

// FQN returns the feature set's fully-qualified name, using
// defaultNamespace when the spec has none of its own.
func (s *FeatureSetSpec) FQN(defaultNamespace string) string {
	ns := s.Namespace
	if ns == "" {
		ns = defaultNamespace
	}
	if ns == "" {
		ns = DefaultNamespace
	}
	return FQN{Namespace: ns, Name: s.Name}.String()
}
