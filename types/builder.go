package types

import "strings"

// BuilderSpec tells the platform which builder strategy materializes a
// feature. The options are opaque to the SDK and passed through to the
// manifest untouched.
type BuilderSpec struct {
	Kind    string
	Options map[string]any
}

// ResourceReference identifies an external data source by name and optional
// namespace. A name of the form "ns.name" is split when no explicit
// namespace is given.
type ResourceReference struct {
	Name      string
	Namespace string
}

// NewResourceReference builds a reference from a name and an optional
// namespace.
func NewResourceReference(name, namespace string) ResourceReference {
	if namespace == "" {
		if ns, n, ok := strings.Cut(name, "."); ok {
			return ResourceReference{Name: n, Namespace: ns}
		}
	}
	return ResourceReference{Name: name, Namespace: namespace}
}

// FQN returns "namespace.name", or just the name when the namespace is
// unset.
func (r ResourceReference) FQN() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}
